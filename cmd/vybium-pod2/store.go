package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
)

func newStoreCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Put and get signed pods by content id",
	}
	cmd.AddCommand(newStorePutCommand(rootOpts))
	cmd.AddCommand(newStoreGetCommand(rootOpts))
	return cmd
}

func newStorePutCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put <pod.json>...",
		Short: "Verify and store signed pods, printing their content ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := rootOpts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer ps.Close()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				pod, err := signedpod.Parse(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				id, err := ps.Put(cmd.Context(), pod)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newStoreGetCommand(rootOpts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "get <cid>",
		Short: "Fetch a signed pod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := rootOpts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer ps.Close()

			pod, err := ps.GetString(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, outPath, pod)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the pod here instead of stdout")
	return cmd
}
