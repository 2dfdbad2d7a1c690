// Command rsdkv6-extract extracts an RSDK pack set and names its entries
// from candidate name lists.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	rsdk "github.com/stxticOVFL/rsdkv6-extract"
)

// progressEvery is the number of rows between progress log lines.
const progressEvery = 1000

type options struct {
	report   string
	manifest string
	output   string
	verbose  bool
	progress bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("extraction failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rsdkv6-extract <pack.db> <file list> [pack name list]",
		Short: "Extract RSDK data packs and recover file names",
		Long: `Extract every entry of an RSDK pack set and recover file names.

The pack database indexes DataNNN.rsdk files stored beside it. Entries are
named from the file list by matching the MD5 of each lower-cased candidate
against the stored path hashes; unmatched entries are written to
MISSING/<hash>@<pack> with an extension guessed from their contents.
Existing files are never overwritten.

The optional pack name list labels pack sections of the report.

Examples:
  # Extract into the current directory
  rsdkv6-extract Data/Data.db files.txt

  # Extract elsewhere and label packs
  rsdkv6-extract -o extracted Data/Data.db files.txt packs.txt`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.report, "report", "r", "out.txt", "file the report is mirrored to (truncated each run)")
	flags.StringVar(&opts.manifest, "manifest", "", "write sha256sum-style digests of newly written files to this file")
	flags.StringVarP(&opts.output, "output", "o", ".", "directory extracted files are written under")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.progress, "progress", false, "log progress while extracting")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, opts options, args []string) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reportFile, err := os.Create(opts.report)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer reportFile.Close()

	xopts := []rsdk.Option{
		rsdk.WithLogger(logger),
		rsdk.WithOutputDir(opts.output),
		rsdk.WithReportWriter(io.MultiWriter(stdout, reportFile)),
	}
	if len(args) == 3 {
		xopts = append(xopts, rsdk.WithPackNames(args[2]))
	}
	if opts.progress {
		xopts = append(xopts, rsdk.WithProgress(progressLogger(logger)))
	}

	x, err := rsdk.New(xopts...)
	if err != nil {
		return err
	}
	report, err := x.Run(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if opts.manifest != "" {
		if err := writeManifest(opts.manifest, report); err != nil {
			return err
		}
	}
	return reportFile.Close()
}

func writeManifest(path string, report *rsdk.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	if err := report.WriteManifest(f); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}

// progressLogger logs stage changes and every progressEvery rows.
func progressLogger(logger *slog.Logger) rsdk.ProgressFunc {
	return func(ev rsdk.ProgressEvent) {
		if ev.Stage == rsdk.StageExtracting && ev.FilesDone%progressEvery != 0 {
			return
		}
		attrs := []any{slog.String("stage", ev.Stage.String())}
		if ev.FilesTotal > 0 {
			attrs = append(attrs,
				slog.String("done", humanize.Comma(int64(ev.FilesDone))),
				slog.String("total", humanize.Comma(ev.FilesTotal)),
				slog.String("percent", humanize.FtoaWithDigits(float64(ev.FilesDone)/float64(ev.FilesTotal)*100, 1)))
		}
		logger.Info("progress", attrs...)
	}
}
