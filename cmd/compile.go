package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/langtrans/langtrans"
)

var compileCmd = &cobra.Command{
	Use:   "compile <source-rules> <target-rules> <output>",
	Short: "Compile a pair of rule files into a bundle (.ltz)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := langtrans.Compile(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Compiled: %s\n", path)
		return nil
	},
}
