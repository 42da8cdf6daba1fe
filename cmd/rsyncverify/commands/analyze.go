package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/opts"
	"github.com/walteh/rsyncverify/pkg/status"
)

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		showChanges bool
		showFlags   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze captured rsync output",
		Long: `Analyze parses rsync output captured with --itemize-changes and --stats.
It will:
1. Read each file (or stdin when none is given, or for "-")
2. Decode the itemized change lines
3. Extract the statistics block
4. Report the results, including harvested errors and warnings`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := configFilter(opts, nil, nil, nil)
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), opts, runRequest{
				args:        args,
				view:        status.ViewFull,
				filter:      filter,
				showChanges: showChanges || opts.Config.Output.ShowChanges,
				showFlags:   showFlags || opts.Config.Output.ShowFlags,
			})
		},
	}

	cmd.Flags().BoolVar(&showChanges, "show-changes", false, "list every itemized change")
	cmd.Flags().BoolVar(&showFlags, "show-flags", false, "show changed attributes instead of update labels")

	return cmd
}
