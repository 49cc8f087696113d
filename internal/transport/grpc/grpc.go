// Package grpc implements the gRPC transport for incognito.
//
// The Speech service is described by hand instead of generated from a .proto
// file: messages travel as JSON using a codec registered under the "json"
// content-subtype. Clients call it with grpc.CallContentSubtype("json"), or
// through the Synthesize helper. The standard grpc.health.v1 service is
// registered alongside it.
package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/incognito/internal/dispatch"
	"github.com/nadzzz/incognito/internal/message"
	"github.com/nadzzz/incognito/internal/transport"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "incognito.v1.Speech"

	// SynthesizeMethod is the full method name of the unary Synthesize call.
	SynthesizeMethod = "/" + ServiceName + "/Synthesize"

	codecName = "json"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals gRPC messages as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

// SpeechServer is the server API of the Speech service.
type SpeechServer interface {
	Synthesize(ctx context.Context, req *message.SpeechRequest) (*message.SpeechResult, error)
}

var speechServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SpeechServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Synthesize", Handler: synthesizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "incognito/v1/speech",
}

func synthesizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.SpeechRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SpeechServer).Synthesize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SynthesizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SpeechServer).Synthesize(ctx, req.(*message.SpeechRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// speechService adapts a transport.Handler to SpeechServer.
type speechService struct {
	handler transport.Handler
}

func (s *speechService) Synthesize(ctx context.Context, req *message.SpeechRequest) (*message.SpeechResult, error) {
	result, err := s.handler(ctx, req)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	switch {
	case dispatch.IsEmptyText(result):
		return nil, status.Error(codes.InvalidArgument, result.Error)
	case !result.OK():
		return nil, status.Error(codes.Unavailable, result.Error)
	}
	return result, nil
}

// Synthesize calls the Speech service over conn.
func Synthesize(ctx context.Context, conn grpc.ClientConnInterface, req *message.SpeechRequest) (*message.SpeechResult, error) {
	out := new(message.SpeechResult)
	if err := conn.Invoke(ctx, SynthesizeMethod, req, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *grpchealth.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, handler)
}

// Serve runs the gRPC server on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.server = grpc.NewServer()
	t.server.RegisterService(&speechServiceDesc, &speechService{handler: handler})

	t.health = grpchealth.NewServer()
	healthpb.RegisterHealthServer(t.server, t.health)
	t.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	return t.server.Serve(lis)
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	if t.health != nil {
		t.health.Shutdown()
	}
	if t.server != nil {
		t.server.GracefulStop()
	}
	return nil
}
