package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the document types with a field layout",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range newLayouts().Types() {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
