package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rsyncverify/cmd/rsyncverify/opts"
	"github.com/walteh/rsyncverify/pkg/status"
)

// NewChangesCmd creates a new changes command
func NewChangesCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		types     []string
		include   []string
		exclude   []string
		showFlags bool
	)

	cmd := &cobra.Command{
		Use:   "changes [files...]",
		Short: "List the itemized changes of captured rsync output",
		Long: `Changes lists itemized changes, one per line.
Changes can be narrowed by type (file, directory, symlink, device, special,
deletion, unknown) and by doublestar path globs. Flags override the filter
section of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := configFilter(opts, include, exclude, types)
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), opts, runRequest{
				args:      args,
				view:      status.ViewChanges,
				filter:    filter,
				showFlags: showFlags || opts.Config.Output.ShowFlags,
			})
		},
	}

	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "only show changes of these types")
	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "only show paths matching these globs")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, "hide paths matching these globs")
	cmd.Flags().BoolVar(&showFlags, "show-flags", false, "show changed attributes instead of update labels")

	return cmd
}
