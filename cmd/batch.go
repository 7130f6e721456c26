package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/langtrans/langtrans"
)

var batchMapping langtrans.Mapping

var batchCmd = &cobra.Command{
	Use:   "batch <path> <source-rules> <target-rules>",
	Short: "Convert every matching file below a directory",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := langtrans.New(args[1], args[2], logger)
		if err != nil {
			return err
		}

		outputs, err := langtrans.ProcessPath(ctx, logger, engine, args[0], batchMapping)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d files\n", len(outputs))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchMapping.InExt, "ext", "", "Extension of the files to convert")
	batchCmd.Flags().StringVar(&batchMapping.OutExt, "out-ext", "", "Extension of the converted files")
	batchCmd.Flags().StringVar(&batchMapping.OutDir, "out-dir", "", "Directory receiving the converted files")
	_ = batchCmd.MarkFlagRequired("ext")
}
