package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"restow/internal/reconciler"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var execute bool
	var hygieneOnly bool
	var skipHygiene bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Move stored objects to the keys their catalog lineage dictates",
		Long: "Reconcile walks every linked object, computes its canonical key from the\n" +
			"owning entity's lineage, and relocates objects whose stored key disagrees.\n" +
			"A hygiene pass then removes orphaned, dangling, and duplicate link rows.\n\n" +
			"Without --execute the command only reports what it would do.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hygieneOnly && skipHygiene {
				return errors.New("--hygiene-only and --skip-hygiene are mutually exclusive")
			}

			return ctx.withServices(func(svc *cliServices) error {
				if execute {
					lock := flock.New(filepath.Join(svc.cfg.Paths.LogDir, "reconcile.lock"))
					locked, err := lock.TryLock()
					if err != nil {
						return fmt.Errorf("acquire reconcile lock: %w", err)
					}
					if !locked {
						return errors.New("another reconcile run is already in progress")
					}
					defer func() { _ = lock.Unlock() }()
				}

				dryRun := !execute
				rec := reconciler.New(svc.catalog, svc.resolver, svc.executor, svc.cfg.Store.PublicBaseURL, svc.logger)
				out := cmd.OutOrStdout()

				if !hygieneOnly {
					report, err := rec.RelocationPass(cmd.Context(), dryRun)
					if err != nil {
						return err
					}
					printRelocationReport(out, report)
				}

				if !skipHygiene {
					report, err := rec.HygienePass(cmd.Context(), dryRun)
					if err != nil {
						return err
					}
					printHygieneReport(out, report)
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply moves and deletions instead of reporting them")
	cmd.Flags().BoolVar(&hygieneOnly, "hygiene-only", false, "Run only the catalog hygiene pass")
	cmd.Flags().BoolVar(&skipHygiene, "skip-hygiene", false, "Skip the catalog hygiene pass")
	return cmd
}

func printRelocationReport(out io.Writer, report reconciler.RelocationReport) {
	verb := "Moved"
	if report.DryRun {
		fmt.Fprintln(out, "Relocation (dry run)")
		verb = "Would move"
	} else {
		fmt.Fprintln(out, "Relocation")
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Processed", verb, "In place", "Missing", "Unresolvable", "Errors", "Bytes"},
		[][]string{{
			strconv.Itoa(report.Processed),
			strconv.Itoa(report.Moved),
			strconv.Itoa(report.AlreadyPlaced),
			strconv.Itoa(report.SourceMissing),
			strconv.Itoa(report.Unresolvable),
			strconv.Itoa(report.Errored),
			humanize.Bytes(uint64(report.BytesMoved)),
		}},
		0, 1, 2, 3, 4, 5, 6,
	))

	if report.DryRun && len(report.Moves) > 0 {
		rows := make([][]string, 0, len(report.Moves))
		for _, move := range report.Moves {
			rows = append(rows, []string{
				strconv.FormatInt(move.ObjectID, 10),
				move.CurrentKey,
				move.TargetKey,
				humanize.Bytes(uint64(move.SizeBytes)),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Object", "Current key", "Target key", "Size"},
			rows,
			0, 3,
		))
	}

	printFailures(out, report.Failures)
}

func printHygieneReport(out io.Writer, report reconciler.HygieneReport) {
	if report.DryRun {
		fmt.Fprintln(out, "Hygiene (dry run)")
	} else {
		fmt.Fprintln(out, "Hygiene")
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Orphaned links", "Dangling links", "Duplicate links"},
		[][]string{{
			strconv.FormatInt(report.Orphaned, 10),
			strconv.FormatInt(report.Dangling, 10),
			strconv.FormatInt(report.Duplicates, 10),
		}},
		0, 1, 2,
	))

	for _, failure := range report.Failures {
		fmt.Fprintf(out, "  hygiene: %s\n", failure)
	}
}

func printFailures(out io.Writer, failures []reconciler.ItemFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(out, "%d items need attention:\n", len(failures))
	for _, failure := range failures {
		if failure.Key != "" {
			fmt.Fprintf(out, "  object %d (%s): %s\n", failure.ObjectID, failure.Key, failure.Reason)
		} else {
			fmt.Fprintf(out, "  object %d: %s\n", failure.ObjectID, failure.Reason)
		}
	}
}
