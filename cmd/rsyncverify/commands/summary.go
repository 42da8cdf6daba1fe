package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/opts"
	"github.com/walteh/rsyncverify/pkg/status"
)

// NewSummaryCmd creates a new summary command
func NewSummaryCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [files...]",
		Short: "Print a short summary of captured rsync output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), opts, runRequest{
				args: args,
				view: status.ViewSummary,
			})
		},
	}

	return cmd
}
