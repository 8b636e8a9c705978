package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"donorcheck/internal/eligibility/artifacts"
	"donorcheck/internal/eligibility/handler"
	"donorcheck/internal/eligibility/service"
	"donorcheck/internal/platform/config"
	"donorcheck/internal/platform/logger"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [file]",
		Short: "Score a donor or a batch of donors from a JSON file",
		Long: "Score a single donor object, or a {\"donors\": [...]} batch, read from file " +
			"or stdin when the file is omitted or \"-\". Output matches the HTTP API.",
		Args: cobra.MaximumNArgs(1),
		RunE: runPredict,
	}
	defaults := config.FromEnv().Inference
	cmd.Flags().Int("workers", defaults.BatchWorkers, "Records of a batch scored concurrently")
	cmd.Flags().Bool("strict", !defaults.NormalizeBatchCategories, "Require canonical category values in batches")
	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	dir := resolveArtifactsDir(cmd)
	bundle, err := artifacts.Load(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("load artifacts from %s: %w", dir, err)
	}

	workers, _ := cmd.Flags().GetInt("workers")
	strict, _ := cmd.Flags().GetBool("strict")
	svc := service.New(bundle,
		service.WithLogger(logger.NewWithWriter(cmd.ErrOrStderr(), slog.LevelWarn)),
		service.WithConfig(service.Config{
			BatchWorkers:             workers,
			MaxBatchSize:             config.FromEnv().Inference.MaxBatchSize,
			NormalizeBatchCategories: !strict,
		}),
	)

	var out any
	if isBatch(input) {
		var req handler.BatchRequest
		if err := decodeInput(input, &req); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
		result, err := svc.PredictBatch(cmd.Context(), req.Records())
		if err != nil {
			return err
		}
		out = handler.FromBatch(result)
	} else {
		var req handler.DonorRequest
		if err := decodeInput(input, &req); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}
		result, err := svc.Predict(cmd.Context(), req.ToRecord())
		if err != nil {
			return err
		}
		out = handler.FromPrediction(result)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// isBatch reports whether input is an object with a "donors" key.
func isBatch(input []byte) bool {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(input, &envelope); err != nil {
		return false
	}
	_, ok := envelope["donors"]
	return ok
}

func decodeInput(input []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(input))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}
