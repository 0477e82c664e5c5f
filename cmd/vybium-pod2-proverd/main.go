// Command vybium-pod2-proverd serves the Prover gRPC service in front of an
// exec prover, so clients without the proving toolchain can prove Main Pods.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vybium-pod2-proverd:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		listen     string
		maxMsg     int
	)

	cmd := &cobra.Command{
		Use:           "vybium-pod2-proverd",
		Short:         "Serve the Prover gRPC service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := utils.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = utils.LoadConfig(configPath); err != nil {
					return err
				}
			}
			closeLogger, err := utils.InitLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLogger()

			if listen == "" {
				listen = cfg.Prover.Listen
			}
			if cfg.Prover.Command == "" {
				return fmt.Errorf("prover.command is not configured")
			}
			backend := prover.NewExecBackend(cfg.Prover.Command, cfg.Prover.Args...)
			backend.Timeout = cfg.Prover.Timeout

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, lis, backend, maxMsg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides prover.listen")
	cmd.Flags().IntVar(&maxMsg, "max-msg-bytes", 64<<20, "largest request or response accepted")
	return cmd
}

// serve runs the service on lis until ctx is done, then drains in-flight
// proofs
func serve(ctx context.Context, lis net.Listener, backend prover.Backend, maxMsg int) error {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMsg),
		grpc.MaxSendMsgSize(maxMsg),
	)
	prover.RegisterProverServer(srv, &prover.Server{Backend: backend})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("prover daemon listening", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		slog.Info("prover daemon stopping")
		srv.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
