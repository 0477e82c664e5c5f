package prover

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPCBackend implements Backend over the Prover gRPC service
type GRPCBackend struct {
	cc     *grpc.ClientConn
	client ProverClient

	// Timeout applies per RPC when non-zero
	Timeout time.Duration
}

// DialOptions configures Dial
type DialOptions struct {
	// Timeout applies to the initial dial when non-zero
	Timeout time.Duration

	// MaxMsgBytes sets both send and receive limits when non-zero
	MaxMsgBytes int
}

// Dial connects to a prover daemon
func Dial(target string, opts DialOptions) (*GRPCBackend, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewGRPCBackend(cc), nil
}

// NewGRPCBackend wraps an existing connection. Close closes it.
func NewGRPCBackend(cc *grpc.ClientConn) *GRPCBackend {
	return &GRPCBackend{cc: cc, client: NewProverClient(cc)}
}

// Close releases the connection
func (b *GRPCBackend) Close() error {
	if b == nil || b.cc == nil {
		return nil
	}
	return b.cc.Close()
}

// Prove implements Backend
func (b *GRPCBackend) Prove(ctx context.Context, req *Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("prover: encode request: %w", err)
	}

	start := time.Now()
	slog.Info("proving", "request_id", req.RequestID, "backend", "grpc", "target", b.cc.Target())

	reply, err := b.client.Prove(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return nil, mapRPC(err)
	}
	var result Result
	if err := json.Unmarshal(reply.GetValue(), &result); err != nil {
		return nil, fmt.Errorf("prover: decode result: %w", err)
	}
	if err := result.validate(); err != nil {
		return nil, err
	}

	slog.Info("proof generated", "request_id", req.RequestID, "backend", "grpc",
		"public_signals", len(result.PublicSignals), "elapsed", time.Since(start))
	return &result, nil
}
