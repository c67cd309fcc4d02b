package cli

import (
	"context"
	"fmt"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ReconcilerFactory opens the stores and returns a reconciler over them plus
// a function releasing the connections.
type ReconcilerFactory func(ctx context.Context) (*engagement.Reconciler, func(), error)

// NewRootCommand creates the root command for the operator CLI.
func NewRootCommand(open ReconcilerFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "engagementctl",
		Short: "Operator tooling for the engagement service",
		Long:  "Inspect and repair the denormalized comment, like and dislike counters of posts.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewReconcileCommand(opts, open))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
