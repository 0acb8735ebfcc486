package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/buger/goterm"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/micahcheng/smart-rsync/internal/excludes"
	"github.com/micahcheng/smart-rsync/internal/logging"
	"github.com/micahcheng/smart-rsync/internal/rsyncbin"
	"github.com/micahcheng/smart-rsync/pkg/audit"
	"github.com/micahcheng/smart-rsync/pkg/render"
	"github.com/micahcheng/smart-rsync/pkg/runner"
	"github.com/micahcheng/smart-rsync/pkg/verify"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	deleteFlag     bool
	dryRun         bool
	quiet          bool
	noAudit        bool
	verifyFlag     bool
	concurrency    int
	extraExcludes  []string
	rsyncPath      string
	reportJSONFile string
)

// AuditReport is the JSON form of the post-sync audit and verification.
type AuditReport struct {
	Missing    []string      `json:"missing"`
	Extra      []string      `json:"extra"`
	Mismatched []string      `json:"mismatched"`
	Summary    ReportSummary `json:"summary"`
}

type ReportSummary struct {
	Missing    int `json:"missing"`
	Extra      int `json:"extra"`
	Mismatched int `json:"mismatched"`
	// Absent when the audit was skipped (--no-audit or --dryrun).
	PerfectMatch *bool `json:"perfect_match,omitempty"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "smart-rsync <source> <dest>",
		Short: "rsync wrapper with a live status display and a post-sync audit",
		Long: `smart-rsync runs rsync with a clean two-line status display instead of a
scrolling wall of text, collects errors for a final summary, and audits the
destination afterwards to report exactly which files are missing or extra.

A trailing separator on the source copies its contents into the destination;
no trailing separator copies the folder itself.`,
		Version: fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:    cobra.ExactArgs(2),
		RunE:    run,
	}

	rootCmd.Flags().BoolVar(&deleteFlag, "delete", false, "Delete dest files not in source")
	rootCmd.Flags().BoolVar(&dryRun, "dryrun", false, "Shows operations without executing")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")
	rootCmd.Flags().BoolVar(&noAudit, "no-audit", false, "Skip the post-sync audit")
	rootCmd.Flags().BoolVar(&verifyFlag, "verify", false, "Checksum-compare files present in both trees after the audit")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 8, "Number of concurrent checksum workers for --verify")
	rootCmd.Flags().StringSliceVar(&extraExcludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	rootCmd.Flags().StringVar(&rsyncPath, "rsync-path", "", "Path to the rsync executable (skips discovery)")
	rootCmd.Flags().StringVar(&reportJSONFile, "report-json-file", "", "Path to output the audit report as JSON file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Setup()
	source, dest := args[0], args[1]

	tool, err := rsyncbin.Detect(rsyncPath)
	if err != nil {
		return err
	}

	rules, err := excludes.Resolve(source, extraExcludes)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var renderer render.Renderer = render.NewTerminal()
	if quiet {
		renderer = &render.Null{ErrOut: os.Stderr}
	}

	transfer := runner.NewRunner(tool, renderer, clockwork.NewRealClock())
	outcome, err := transfer.Run(ctx, rsyncbin.TransferSpec{
		Source:      source,
		Dest:        dest,
		DryRun:      dryRun,
		Delete:      deleteFlag,
		ExcludeArgs: rules.Args(),
	})
	if err != nil {
		return err
	}

	// A cancellation skips summary, audit, and verification.
	if outcome.Canceled {
		return nil
	}

	if !quiet {
		logging.PrintSummary(os.Stdout, outcome.Elapsed, outcome.ExitCode, outcome.Errors)
	}

	report := AuditReport{Missing: []string{}, Extra: []string{}, Mismatched: []string{}}

	if !noAudit && !dryRun {
		if !quiet {
			fmt.Println("\n🔍 Running Post-Sync Verification & Audit...")
		}

		result, err := audit.NewRunner(tool, rules).Run(ctx, source, dest)
		if err != nil {
			return err
		}
		audit.Print(os.Stdout, result)

		report.Missing = append(report.Missing, result.Missing...)
		report.Extra = append(report.Extra, result.Extra...)
		perfect := result.PerfectMatch()
		report.Summary.PerfectMatch = &perfect

		if verifyFlag {
			sourceRoot, destRoot := audit.EffectiveRoots(source, dest)
			checker := verify.NewChecker(rules, concurrency, !quiet)
			mismatches, err := checker.Run(ctx, sourceRoot, destRoot)
			if err != nil {
				return err
			}
			printMismatches(os.Stdout, mismatches)

			for _, m := range mismatches {
				report.Mismatched = append(report.Mismatched, m.Path)
			}
			if len(mismatches) > 0 {
				perfect := false
				report.Summary.PerfectMatch = &perfect
			}
		}
	}

	report.Summary.Missing = len(report.Missing)
	report.Summary.Extra = len(report.Extra)
	report.Summary.Mismatched = len(report.Mismatched)

	if reportJSONFile != "" {
		if err := writeReport(reportJSONFile, report); err != nil {
			return fmt.Errorf("failed to write report JSON: %w", err)
		}
	}

	// The process exit code follows rsync's.
	if outcome.ExitCode != 0 {
		os.Exit(outcome.ExitCode)
	}
	return nil
}

func printMismatches(w io.Writer, mismatches []verify.Mismatch) {
	if len(mismatches) == 0 {
		fmt.Fprintln(w, " "+goterm.Color("✅ Verified: all common files match by checksum.", goterm.GREEN))
		return
	}

	const maxListed = 15

	heading := fmt.Sprintf("❌ CHANGED content (%d files):", len(mismatches))
	fmt.Fprintln(w, " "+goterm.Color(heading, goterm.RED))
	for i, m := range mismatches {
		if i == maxListed {
			break
		}
		fmt.Fprintf(w, "    - %s\n", m.Path)
	}
	if extra := len(mismatches) - maxListed; extra > 0 {
		fmt.Fprintf(w, "    ... and %d more.\n", extra)
	}
}

func writeReport(path string, report AuditReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
