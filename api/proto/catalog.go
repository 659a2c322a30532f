// Package pb is the MDIB wire catalog. The schema is declared in Go and
// compiled at runtime into a protobuf file descriptor; messages are handled
// as dynamicpb values.
package pb

import (
	"fmt"
	"sync"

	"github.com/KevinKickass/OpenMDIB/internal/types"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const fileName = "mdib/v1/mdib.proto"

// Catalog resolves wire message and service descriptors by short name.
type Catalog struct {
	file     protoreflect.FileDescriptor
	messages map[string]protoreflect.MessageDescriptor
}

// Schema returns a fresh copy of the catalog file descriptor proto.
func Schema() *descriptorpb.FileDescriptorProto {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(fileName),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			wrapperspb.File_google_protobuf_wrappers_proto.Path(),
			durationpb.File_google_protobuf_duration_proto.Path(),
		},
	}
	groups := [][]message{enumMessages(), pmMessages(), descriptorMessages(), stateMessages(), containerMessages()}
	for _, group := range groups {
		for _, m := range group {
			fdp.MessageType = append(fdp.MessageType, m.descriptor())
		}
	}
	for _, s := range services() {
		fdp.Service = append(fdp.Service, s.descriptor())
	}
	return fdp
}

// New compiles a catalog from a file descriptor proto.
func New(fdp *descriptorpb.FileDescriptorProto) (*Catalog, error) {
	deps := new(protoregistry.Files)
	for _, f := range []protoreflect.FileDescriptor{
		wrapperspb.File_google_protobuf_wrappers_proto,
		durationpb.File_google_protobuf_duration_proto,
	} {
		if err := deps.RegisterFile(f); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", f.Path(), err)
		}
	}
	fd, err := protodesc.NewFile(fdp, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build wire catalog: %w", err)
	}
	c := &Catalog{file: fd, messages: make(map[string]protoreflect.MessageDescriptor)}
	msgs := fd.Messages()
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		c.messages[string(md.Name())] = md
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled from Schema. The schema is static, so
// a failure to compile it panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(Schema())
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) File() protoreflect.FileDescriptor { return c.file }

// Message looks up a message by its short name ("NumericMetricDescriptorMsg").
func (c *Catalog) Message(name string) (protoreflect.MessageDescriptor, error) {
	md, ok := c.messages[name]
	if !ok {
		return nil, types.SchemaMismatch("catalog", "no message %s", name)
	}
	return md, nil
}

// NewMessage returns an empty dynamic message of the named type.
func (c *Catalog) NewMessage(name string) (*dynamicpb.Message, error) {
	md, err := c.Message(name)
	if err != nil {
		return nil, err
	}
	return dynamicpb.NewMessage(md), nil
}

// MustMessage is NewMessage for the fixed container and service messages.
func (c *Catalog) MustMessage(name string) *dynamicpb.Message {
	m, err := c.NewMessage(name)
	if err != nil {
		panic(err)
	}
	return m
}

func (c *Catalog) Service(name string) (protoreflect.ServiceDescriptor, error) {
	sd := c.file.Services().ByName(protoreflect.Name(name))
	if sd == nil {
		return nil, types.SchemaMismatch("catalog", "no service %s", name)
	}
	return sd, nil
}

// FullMethod returns the gRPC method path "/mdib.v1.Service/Method".
func FullMethod(service, method string) string {
	return "/" + Package + "." + service + "/" + method
}

// MessageNames lists every message short name in declaration order.
func (c *Catalog) MessageNames() []string {
	msgs := c.file.Messages()
	out := make([]string, 0, msgs.Len())
	for i := 0; i < msgs.Len(); i++ {
		out = append(out, string(msgs.Get(i).Name()))
	}
	return out
}

// IsUnion reports whether md declares exactly one oneof holding all fields.
func IsUnion(md protoreflect.MessageDescriptor) bool {
	oneofs := md.Oneofs()
	if oneofs.Len() != 1 {
		return false
	}
	return oneofs.Get(0).Fields().Len() == md.Fields().Len()
}

// Without returns a copy of fdp with the named field removed from the named
// message. It exists to exercise schema drift.
func Without(fdp *descriptorpb.FileDescriptorProto, message, field string) *descriptorpb.FileDescriptorProto {
	out := proto.Clone(fdp).(*descriptorpb.FileDescriptorProto)
	for _, m := range out.MessageType {
		if m.GetName() != message {
			continue
		}
		kept := m.Field[:0]
		for _, f := range m.Field {
			if f.GetName() != field {
				kept = append(kept, f)
			}
		}
		m.Field = kept
	}
	return out
}
