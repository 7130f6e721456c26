package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/formatter"
)

var (
	debug   bool
	timeout time.Duration

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:               "langtrans [input output source-rules target-rules]",
	Short:             "langtrans - a rule-driven source-to-source converter",
	TraverseChildren:  true, // Prioritize subcommands
	Args:              cobra.ArbitraryArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'langtrans' is entered
			return cmd.Help()
		}
		// Format: langtrans <input> <output> ... => behaves like the convert subcommand
		return runConvert(cmd, args, convertOpts)
	},
}

// Execute runs the command line and prints the report of a failure.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, formatter.FormatError(err))
	}
	return err
}

func setupLogger(cmd *cobra.Command, args []string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Set a timeout for batch conversions")
	addConvertFlags(rootCmd)

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(batchCmd)
}
