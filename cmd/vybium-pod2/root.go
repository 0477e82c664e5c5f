package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/podstore"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/prover"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
)

// rootOptions holds global flags and the state loaded from them
type rootOptions struct {
	ConfigPath string
	LogLevel   string

	cfg         *utils.Config
	closeLogger func() error
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "vybium-pod2",
		Short:         "Signed records and Main Pods",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLogger != nil {
				return opts.closeLogger()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newKeygenCommand(opts))
	cmd.AddCommand(newSignCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newStoreCommand(opts))
	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newProveCommand(opts))

	return cmd
}

func (o *rootOptions) load() error {
	cfg := utils.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = utils.LoadConfig(o.ConfigPath); err != nil {
			return err
		}
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	closeLogger, err := utils.InitLogger(cfg.Log)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.closeLogger = closeLogger
	return nil
}

func (o *rootOptions) openStore(ctx context.Context) (*podstore.PodStore, error) {
	cas, err := podstore.Open(ctx, o.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return podstore.New(cas), nil
}

// backend returns the configured prover and a function releasing it
func (o *rootOptions) backend() (prover.Backend, func() error, error) {
	pc := o.cfg.Prover
	switch pc.Backend {
	case "grpc":
		b, err := prover.Dial(pc.Address, prover.DialOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("dial prover %s: %w", pc.Address, err)
		}
		b.Timeout = pc.Timeout
		return b, b.Close, nil
	default:
		if pc.Command == "" {
			return nil, nil, fmt.Errorf("prover.command is not configured")
		}
		b := prover.NewExecBackend(pc.Command, pc.Args...)
		b.Timeout = pc.Timeout
		return b, func() error { return nil }, nil
	}
}

func (o *rootOptions) artifacts() prover.Artifacts {
	return prover.Artifacts{
		WitnessGenerator: o.cfg.Prover.WitnessGenerator,
		ProvingKey:       o.cfg.Prover.ProvingKey,
	}
}
