// Package consumer mirrors a remote MDIB into a local one: it subscribes to
// episodic reports, reads a snapshot and then follows the report stream.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ErrSequenceChanged is returned by Follow when the provider starts a new
// MDIB sequence. The mirror has to be resynchronized.
var ErrSequenceChanged = errors.New("remote mdib sequence changed")

type Consumer struct {
	conn    grpc.ClientConnInterface
	catalog *pb.Catalog
	mapper  *mapping.Mapper
	mirror  *mdib.Mdib
	buffer  int
	logger  *zap.Logger

	mu     sync.RWMutex
	remote mapping.VersionGroup
}

// New returns a consumer that mirrors into m. buffer bounds the reports held
// while the snapshot is read.
func New(conn grpc.ClientConnInterface, m *mdib.Mdib, buffer int, logger *zap.Logger) *Consumer {
	if buffer <= 0 {
		buffer = 64
	}
	mapper := m.Mapper()
	return &Consumer{
		conn:    conn,
		catalog: mapper.Catalog(),
		mapper:  mapper,
		mirror:  m,
		buffer:  buffer,
		logger:  logger,
	}
}

// Mirror returns the local MDIB.
func (c *Consumer) Mirror() *mdib.Mdib { return c.mirror }

// Remote returns the provider version the mirror has caught up with.
func (c *Consumer) Remote() mapping.VersionGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remote
}

func (c *Consumer) invoke(ctx context.Context, service, method, output string, req any) (protoreflect.Message, error) {
	resp, err := c.catalog.NewMessage(output)
	if err != nil {
		return nil, err
	}
	if err := c.conn.Invoke(ctx, pb.FullMethod(service, method), req, resp); err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	return resp, nil
}

// GetMdib returns the remote MdibMsg.
func (c *Consumer) GetMdib(ctx context.Context) (protoreflect.Message, error) {
	req, err := c.catalog.NewMessage(pb.GetMdibRequest)
	if err != nil {
		return nil, err
	}
	resp, err := c.invoke(ctx, pb.GetService, pb.MethodGetMdib, pb.GetMdibResponse, req)
	if err != nil {
		return nil, err
	}
	return c.mapper.DecodeGetMdibResponse(resp)
}

// GetMdDescription returns the remote MdDescriptionMsg, restricted to the Mds
// trees containing the given handles when any are given.
func (c *Consumer) GetMdDescription(ctx context.Context, handles ...string) (mapping.VersionGroup, protoreflect.Message, error) {
	req, err := c.mapper.EncodeHandleRequest(pb.GetMdDescriptionRequest, handles)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	resp, err := c.invoke(ctx, pb.GetService, pb.MethodGetMdDescription, pb.GetMdDescriptionResponse, req)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	return c.mapper.DecodeVersionedResponse(resp)
}

// GetMdState returns the remote states, restricted to the given state or
// descriptor handles when any are given.
func (c *Consumer) GetMdState(ctx context.Context, handles ...string) (mapping.VersionGroup, []model.State, error) {
	req, err := c.mapper.EncodeHandleRequest(pb.GetMdStateRequest, handles)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	resp, err := c.invoke(ctx, pb.GetService, pb.MethodGetMdState, pb.GetMdStateResponse, req)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	g, part, err := c.mapper.DecodeVersionedResponse(resp)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	states, _, err := c.mapper.DecodeStateList(part)
	if err != nil {
		return mapping.VersionGroup{}, nil, err
	}
	return g, states, nil
}

func (c *Consumer) DescriptorsFromArchive(ctx context.Context, r mapping.ArchiveRequest) ([]mapping.ArchivedDescriptor, error) {
	req, err := c.mapper.EncodeArchiveRequest(pb.GetDescriptorsFromArchiveRequest, r)
	if err != nil {
		return nil, err
	}
	resp, err := c.invoke(ctx, pb.ArchiveService, pb.MethodGetDescriptors, pb.GetDescriptorsFromArchiveResponse, req)
	if err != nil {
		return nil, err
	}
	return c.mapper.DecodeArchivedDescriptors(resp)
}

func (c *Consumer) StatesFromArchive(ctx context.Context, r mapping.ArchiveRequest) ([]mapping.ArchivedState, error) {
	req, err := c.mapper.EncodeArchiveRequest(pb.GetStatesFromArchiveRequest, r)
	if err != nil {
		return nil, err
	}
	resp, err := c.invoke(ctx, pb.ArchiveService, pb.MethodGetStates, pb.GetStatesFromArchiveResponse, req)
	if err != nil {
		return nil, err
	}
	return c.mapper.DecodeArchivedStates(resp)
}
