package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"donorcheck/internal/eligibility/artifacts"
	"donorcheck/internal/eligibility/category"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load the artifacts and print their schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := resolveArtifactsDir(cmd)
			bundle, err := artifacts.Load(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("load artifacts from %s: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:  %s\n", bundle.Version())
			fmt.Fprintf(out, "model:    %s\n", bundle.Model().Type())
			fmt.Fprintf(out, "features: %d\n", bundle.Schema().Len())
			for i, name := range bundle.Schema().Names() {
				fmt.Fprintf(out, "  %2d %s\n", i, name)
			}
			fmt.Fprintln(out, "encodings:")
			for _, kind := range category.Kinds {
				enc := bundle.Encoders().Encoding(kind)
				fmt.Fprintf(out, "  %s: %s\n", kind, strings.Join(enc.Classes(), ", "))
			}
			return nil
		},
	}
}
