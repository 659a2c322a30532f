package provider

import (
	"context"
	"fmt"
	"time"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

type unaryFunc func(ctx context.Context, req protoreflect.Message) (proto.Message, error)

type streamFunc func(req protoreflect.Message, stream grpc.ServerStream) error

func (p *Provider) unaryMethods() map[string]unaryFunc {
	return map[string]unaryFunc{
		pb.FullMethod(pb.GetService, pb.MethodGetMdib):            p.GetMdib,
		pb.FullMethod(pb.GetService, pb.MethodGetMdDescription):   p.GetMdDescription,
		pb.FullMethod(pb.GetService, pb.MethodGetMdState):         p.GetMdState,
		pb.FullMethod(pb.ArchiveService, pb.MethodGetDescriptors): p.GetDescriptorsFromArchive,
		pb.FullMethod(pb.ArchiveService, pb.MethodGetStates):      p.GetStatesFromArchive,
	}
}

func (p *Provider) streamMethods() map[string]streamFunc {
	return map[string]streamFunc{
		pb.FullMethod(pb.ReportingService, pb.MethodEpisodicReport): p.EpisodicReport,
	}
}

// ServiceDescs builds the gRPC service descriptions of every catalog service
// from its runtime descriptor. Request and response messages are dynamic.
func (p *Provider) ServiceDescs(catalog *pb.Catalog) ([]grpc.ServiceDesc, error) {
	unary := p.unaryMethods()
	streams := p.streamMethods()

	var descs []grpc.ServiceDesc
	for _, name := range []string{pb.GetService, pb.ReportingService, pb.ArchiveService} {
		sd, err := catalog.Service(name)
		if err != nil {
			return nil, err
		}
		desc := grpc.ServiceDesc{
			ServiceName: string(sd.FullName()),
			HandlerType: (*any)(nil),
			Metadata:    catalog.File().Path(),
		}
		methods := sd.Methods()
		for i := 0; i < methods.Len(); i++ {
			md := methods.Get(i)
			full := pb.FullMethod(name, string(md.Name()))
			input := md.Input()
			if md.IsStreamingServer() {
				fn, ok := streams[full]
				if !ok {
					return nil, fmt.Errorf("no handler for %s", full)
				}
				desc.Streams = append(desc.Streams, grpc.StreamDesc{
					StreamName:    string(md.Name()),
					Handler:       streamHandler(input, fn),
					ServerStreams: true,
				})
				continue
			}
			fn, ok := unary[full]
			if !ok {
				return nil, fmt.Errorf("no handler for %s", full)
			}
			desc.Methods = append(desc.Methods, grpc.MethodDesc{
				MethodName: string(md.Name()),
				Handler:    unaryHandler(full, input, fn),
			})
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

// Register adds every MDIB service of p to s.
func Register(s grpc.ServiceRegistrar, p *Provider) error {
	descs, err := p.ServiceDescs(pb.Default())
	if err != nil {
		return err
	}
	for i := range descs {
		s.RegisterService(&descs[i], p)
	}
	return nil
}

func unaryHandler(full string, input protoreflect.MessageDescriptor, fn unaryFunc) grpc.MethodHandler {
	return func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := dynamicpb.NewMessage(input)
		if err := dec(req); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, r any) (any, error) {
			resp, err := fn(ctx, r.(*dynamicpb.Message))
			if err != nil {
				return nil, statusFor(err)
			}
			return resp, nil
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		return interceptor(ctx, req, &grpc.UnaryServerInfo{FullMethod: full}, handler)
	}
}

func streamHandler(input protoreflect.MessageDescriptor, fn streamFunc) grpc.StreamHandler {
	return func(_ any, stream grpc.ServerStream) error {
		req := dynamicpb.NewMessage(input)
		if err := stream.RecvMsg(req); err != nil {
			return err
		}
		return statusFor(fn(req, stream))
	}
}

// UnaryLogger logs every unary call with its duration and status code.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Stringer("code", status.Code(err)),
		}
		if err != nil {
			logger.Warn("gRPC call failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("gRPC call", fields...)
		}
		return resp, err
	}
}

// StreamLogger logs the end of every stream.
func StreamLogger(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logger.Info("gRPC stream ended",
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.Stringer("code", status.Code(err)))
		return err
	}
}
