package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hashhound/internal/classify"
	"hashhound/internal/jobs"
	"hashhound/internal/report"
)

// newIdentifyCommand classifies hash values locally, without the daemon.
func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string
	var formatFlag string
	var workersFlag int

	cmd := &cobra.Command{
		Use:   "identify [hash...]",
		Short: "Identify the likely hash types of one or more digests",
		Long: "Identify classifies hash values against the built-in catalog plus any " +
			"custom definitions from the configuration file. Values come from " +
			"positional arguments, --file, or stdin when neither is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration unavailable")
			}

			inputs, err := collectIdentifyInputs(cmd, args, fileFlag)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return errors.New("no hash values provided; pass values as arguments, via --file, or on stdin")
			}

			formatValue := formatFlag
			if strings.TrimSpace(formatValue) == "" {
				formatValue = cfg.Identify.Format
			}
			format, err := report.ParseFormat(formatValue)
			if err != nil {
				return err
			}

			workers := workersFlag
			if workers <= 0 {
				workers = cfg.Identify.Workers
			}

			classifier := classify.New(cfg.BuildRegistry())
			results, err := classifier.ClassifyBatch(cmd.Context(), inputs, workers)
			if err != nil {
				return fmt.Errorf("classify inputs: %w", err)
			}

			out := cmd.OutOrStdout()
			return report.Render(out, format, results, shouldColorize(out))
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read hash values from a file, one per line")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: text, object, or json")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of classification workers (defaults to the configured value)")

	return cmd
}

func collectIdentifyInputs(cmd *cobra.Command, args []string, filePath string) ([]string, error) {
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			inputs = append(inputs, trimmed)
		}
	}

	if strings.TrimSpace(filePath) != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read hash list: %w", err)
		}
		inputs = append(inputs, jobs.SplitLines(string(content))...)
	}

	if len(inputs) == 0 {
		stdin := cmd.InOrStdin()
		if file, ok := stdin.(*os.File); ok {
			if info, err := file.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				return nil, nil
			}
		}
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		inputs = append(inputs, jobs.SplitLines(string(content))...)
	}

	return inputs, nil
}
