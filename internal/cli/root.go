package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the reviewloop command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reviewloop",
		Short: "Survey intake and review-routing service",
		Long: `reviewloop accepts patient feedback submissions, validates them against each
survey's question template, routes happy respondents to a public review page, and
alerts the practice about unhappy ones.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newStepsCommand())
	return root
}

func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
