package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/frontend"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/mainpod"
)

func (o *rootOptions) buildMainPod(ctx context.Context, manifestPath string) (*mainpod.MainPod, error) {
	m, err := loadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	pods, err := m.loadPods(ctx, o.cfg.Store)
	if err != nil {
		return nil, err
	}

	b := frontend.NewMainPodBuilder(&o.cfg.Params)
	if err := m.apply(b, pods); err != nil {
		return nil, err
	}
	pod, err := b.Build()
	if err != nil {
		return nil, err
	}
	slog.Info("main pod built", "manifest", manifestPath, "id", core.FormatElement(pod.ID))
	return pod, nil
}

func newBuildCommand(rootOpts *rootOptions) *cobra.Command {
	var (
		describe    bool
		signalsPath string
	)

	cmd := &cobra.Command{
		Use:   "build <manifest.yaml>",
		Short: "Build a Main Pod and run the native check",
		Long: `Build a Main Pod from a manifest and run the native check.

Prints the pod id and every failed condition. With --signals the circuit
input is written as JSON for an external witness generator.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pod, err := rootOpts.buildMainPod(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "id:", core.FormatElement(pod.ID))
			if describe {
				fmt.Fprint(out, pod.Describe())
			}

			report := pod.Check()
			for _, f := range report.Failures {
				fmt.Fprintln(out, "FAIL", f)
			}

			if signalsPath != "" {
				signals, err := pod.Signals()
				if err != nil {
					return err
				}
				if err := writeJSON(cmd, signalsPath, signals); err != nil {
					return err
				}
			}

			if !report.OK() {
				return fmt.Errorf("main pod does not verify (%d failures)", len(report.Failures))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	cmd.Flags().BoolVar(&describe, "describe", false, "print every slot with its operation")
	cmd.Flags().StringVar(&signalsPath, "signals", "", "write circuit signals to this file")
	return cmd
}

func newProveCommand(rootOpts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "prove <manifest.yaml>",
		Short: "Build a Main Pod and prove it with the configured backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pod, err := rootOpts.buildMainPod(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if report := pod.Check(); !report.OK() {
				return fmt.Errorf("refusing to prove a main pod that does not verify: %s", report)
			}

			backend, release, err := rootOpts.backend()
			if err != nil {
				return err
			}
			defer release()

			result, err := pod.Prove(cmd.Context(), backend, rootOpts.artifacts())
			if err != nil {
				return err
			}
			return writeJSON(cmd, outPath, result)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the proof here instead of stdout")
	return cmd
}
