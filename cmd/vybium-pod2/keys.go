package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

func newKeygenCommand(rootOpts *rootOptions) *cobra.Command {
	var alg string

	cmd := &cobra.Command{
		Use:   "keygen <key-file>",
		Short: "Generate a signing key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signer.Generate(alg, rand.Reader)
			if err != nil {
				return err
			}
			if err := signer.SaveKeyFile(args[0], s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.PublicKeyHex(s))
			return nil
		},
	}

	cmd.Flags().StringVar(&alg, "alg", signer.AlgEd25519, "signature scheme (ed25519|dilithium3)")
	return cmd
}

func newSignCommand(rootOpts *rootOptions) *cobra.Command {
	var (
		keyPath string
		outPath string
		store   bool
	)

	cmd := &cobra.Command{
		Use:   "sign <entries.json>",
		Short: "Sign a JSON object of entries",
		Long: `Sign a JSON object of entries into a signed pod.

Values use the wire form: strings, integers, arrays, {"$set": [...]} and
{"$field": "<decimal>"}. With --store the pod is also written to the
configured store and its content id printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signer.LoadKeyFile(keyPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			v, err := values.UnmarshalJSON(data)
			if err != nil {
				return err
			}
			entries, ok := v.(*values.Dict)
			if !ok {
				return fmt.Errorf("%s: entries must be a JSON object", args[0])
			}

			pod, err := signedpod.Sign(entries, s)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd, outPath, pod); err != nil {
				return err
			}

			if store {
				ps, err := rootOpts.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer ps.Close()
				id, err := ps.Put(cmd.Context(), pod)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "stored", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "key file written by keygen")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the pod here instead of stdout")
	cmd.Flags().BoolVar(&store, "store", false, "also put the pod in the configured store")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newVerifyCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <pod.json>",
		Short: "Check the signature and id of a signed pod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pod, err := signedpod.Parse(data)
			if err != nil {
				return err
			}
			if !pod.Verify() {
				return fmt.Errorf("%s: signed pod does not verify", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// writeJSON writes v indented to path, or to stdout when path is empty
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
