// Package cli implements the mousewatch command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the mousewatch command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mousewatch",
		Short:         "Relay system-wide mouse movement from a low-level hook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}
