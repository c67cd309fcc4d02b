package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/spf13/cobra"
)

type reconcileOptions struct {
	all     bool
	pending bool
	posts   []string
	apply   bool
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions, open ReconcilerFactory) *cobra.Command {
	opts := &reconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recount reactions and comments and report drifted counters",
		Long: `Recount each post's reactions and comments and compare them with the
stored counters. With --apply the differences are written back as atomic
deltas, so toggles running at the same time are not lost.

--pending checks only posts named in the counter_drift log and clears their
entries once the corrections are applied.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), rootOpts, opts, open, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "check every post")
	cmd.Flags().BoolVar(&opts.pending, "pending", false, "check posts with recorded drift")
	cmd.Flags().StringSliceVar(&opts.posts, "post", nil, "check the given post IDs")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "write corrections (default is a dry run)")
	cmd.MarkFlagsMutuallyExclusive("all", "pending", "post")
	cmd.MarkFlagsOneRequired("all", "pending", "post")

	return cmd
}

func runReconcile(ctx context.Context, rootOpts *RootOptions, opts *reconcileOptions, open ReconcilerFactory, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reconciler, closeFn, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer closeFn()

	var report *engagement.ReconcileReport
	switch {
	case opts.all:
		report, err = reconciler.ReconcileAll(ctx, opts.apply)
	case opts.pending:
		report, err = reconciler.ReconcilePending(ctx, opts.apply)
	default:
		report, err = reconciler.Reconcile(ctx, opts.posts, opts.apply)
	}
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReportText(w, report)
}

func writeReportText(w io.Writer, report *engagement.ReconcileReport) error {
	mode := "dry run"
	if report.Applied {
		mode = "applied"
	}
	if _, err := fmt.Fprintf(w, "checked %d posts, %d drifted counters (%s)\n", report.Checked, len(report.Drifts), mode); err != nil {
		return err
	}
	for _, d := range report.Drifts {
		if _, err := fmt.Fprintf(w, "  %s %-8s stored=%d actual=%d delta=%+d\n", d.PostID, d.Counter, d.Stored, d.Actual, d.Delta()); err != nil {
			return err
		}
	}
	for _, id := range report.Missing {
		if _, err := fmt.Fprintf(w, "  %s missing\n", id); err != nil {
			return err
		}
	}
	return nil
}
