package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eposupdate/internal/bootstrap"
	"eposupdate/internal/domain"
	"eposupdate/internal/service"
)

type runFlags struct {
	file      string
	options   []string
	reportDir string
}

func newRunCmd(c *cli) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run --file ids.csv [--option name]...",
		Short: "Run a mass update from a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			defer c.teardown()
			return runMassUpdate(cmd.Context(), c, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "CSV file of record ids (required)")
	cmd.Flags().StringArrayVarP(&f.options, "option", "o", nil, "Update option name (repeatable)")
	cmd.Flags().StringVar(&f.reportDir, "report-dir", ".", "Directory for the invalid id report")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runMassUpdate(ctx context.Context, c *cli, f *runFlags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.New(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	opts, err := app.Pipeline.ParseOptions(f.options)
	if err != nil {
		return err
	}

	file, err := os.Open(f.file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.file, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.file, err)
	}

	result := app.Pipeline.Run(ctx, service.RunRequest{
		Upload: domain.RawUpload{
			FileName: filepath.Base(f.file),
			Size:     info.Size(),
			Body:     file,
		},
		Options: opts,
	})

	if result.Report != nil && len(result.Report.Data) > 0 {
		path, err := saveReport(f.reportDir, result.Report)
		if err != nil {
			c.logger.Error("saving report failed", zap.Error(err))
		} else {
			result.Report.DownloadURL = path
		}
	}

	printSummary(out, result)
	if result.Err != nil {
		return fmt.Errorf("mass update %s: %w", result.Final.FailureCode, result.Err)
	}
	return nil
}

func saveReport(dir string, report *domain.ReportArtifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	path := filepath.Join(dir, report.FileName)
	if err := os.WriteFile(path, report.Data, 0o600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func printSummary(w io.Writer, result *domain.RunResult) {
	final := result.Final
	fmt.Fprintf(w, "run %s: %s\n", final.RunID, final.State)
	if final.FailureCode != "" {
		fmt.Fprintf(w, "  failure:    %s\n", final.FailureCode)
	}
	fmt.Fprintf(w, "  candidates: %d\n", final.Candidates)
	fmt.Fprintf(w, "  valid:      %d\n", final.ValidCount)
	fmt.Fprintf(w, "  invalid:    %d\n", final.InvalidCount)
	if result.Report != nil && result.Report.DownloadURL != "" {
		fmt.Fprintf(w, "  report:     %s\n", result.Report.DownloadURL)
	}
	for _, n := range result.Notifications {
		fmt.Fprintf(w, "  [%s] %s\n", n.Severity, n.Message)
	}
}
