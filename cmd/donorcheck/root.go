package main

import (
	"github.com/spf13/cobra"

	"donorcheck/internal/platform/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "donorcheck",
		Short:         "Blood donor eligibility predictions",
		Long:          "donorcheck scores blood donor records against trained model artifacts.",
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("artifacts", "", "Path to the artifacts directory (overrides ARTIFACTS_DIR env var)")

	root.AddCommand(newPredictCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// resolveArtifactsDir returns the --artifacts flag (highest priority), then
// the ARTIFACTS_DIR env var, then the server default.
func resolveArtifactsDir(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("artifacts"); p != "" {
		return p
	}
	return config.FromEnv().ArtifactsDir
}
