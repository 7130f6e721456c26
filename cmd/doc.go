package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/langtrans/formatter"
	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

var docCmd = &cobra.Command{
	Use:   "doc <source-rules>",
	Short: "List the parts of a source rule file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ruleset.LoadDoc(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDoc(doc))
		return nil
	},
}
