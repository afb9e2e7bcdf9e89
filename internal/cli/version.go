package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the CLI version string, overridable at build time.
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "localbase v%s\n", version)
		},
	}
}
