package prover

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service carries JSON-encoded Request and Result values in protobuf
// well-known wrapper types, so no protoc step is needed.
const proveMethod = "/vybium.pod2.prover.v1.Prover/Prove"

// ProverServer is the server API for the Prover gRPC service
type ProverServer interface {
	Prove(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedProverServer can be embedded to have forward compatible implementations
type UnimplementedProverServer struct{}

func (UnimplementedProverServer) Prove(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Prove not implemented")
}

// RegisterProverServer registers the Prover service on a gRPC server
func RegisterProverServer(s grpc.ServiceRegistrar, srv ProverServer) {
	s.RegisterService(&Prover_ServiceDesc, srv)
}

// ProverClient is the client API for the Prover gRPC service
type ProverClient interface {
	Prove(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type proverClient struct{ cc grpc.ClientConnInterface }

// NewProverClient wraps a connection
func NewProverClient(cc grpc.ClientConnInterface) ProverClient { return &proverClient{cc: cc} }

func (c *proverClient) Prove(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, proveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Prover_Prove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProverServer).Prove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: proveMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProverServer).Prove(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Prover_ServiceDesc is the grpc.ServiceDesc for the Prover service
var Prover_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vybium.pod2.prover.v1.Prover",
	HandlerType: (*ProverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Prove", Handler: _Prover_Prove_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "prover.proto",
}

// Server exposes a Backend over the Prover service
type Server struct {
	UnimplementedProverServer
	Backend Backend
}

// Prove implements ProverServer
func (s *Server) Prove(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	var req Request
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	result, err := s.Backend.Prove(ctx, &req)
	if err != nil {
		return nil, mapErr(err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return wrapperspb.Bytes(data), nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case err == ErrNoSignals:
		return status.Error(codes.InvalidArgument, err.Error())
	case err == ErrEmptyProof:
		return status.Error(codes.DataLoss, err.Error())
	case err == context.DeadlineExceeded:
		return status.Error(codes.DeadlineExceeded, err.Error())
	case err == context.Canceled:
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func mapRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Message() {
	case ErrNoSignals.Error():
		return ErrNoSignals
	case ErrEmptyProof.Error():
		return ErrEmptyProof
	}
	return err
}
