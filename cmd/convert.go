package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/formatter"
	"github.com/gnoswap-labs/langtrans/internal"
	"github.com/gnoswap-labs/langtrans/langtrans"
)

type convertOptions struct {
	compiled string
	verbose  bool
	yes      bool
	no       bool
	watch    bool
}

var convertOpts convertOptions

var errConvertArgs = errors.New("expected <input> <output> <source-rules> <target-rules>, or <input> <output> with --compiled")

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output> [source-rules target-rules]",
	Short: "Convert a file with a pair of rule files or a compiled bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args, convertOpts)
	},
}

func init() {
	addConvertFlags(convertCmd)
}

func addConvertFlags(c *cobra.Command) {
	c.Flags().StringVarP(&convertOpts.compiled, "compiled", "f", "", "Use a compiled rule bundle (.ltz) instead of rule files")
	c.Flags().BoolVarP(&convertOpts.verbose, "verbose", "v", false, "Print the converted output")
	c.Flags().BoolVarP(&convertOpts.yes, "yes", "y", false, "Run the after command without asking")
	c.Flags().BoolVarP(&convertOpts.no, "no", "n", false, "Never run the after command")
	c.Flags().BoolVar(&convertOpts.watch, "watch", false, "Convert again every time the input changes")
}

// openEngine loads the rules named by args, or the compiled bundle.
func openEngine(args []string, compiled string) (*internal.Engine, error) {
	if compiled != "" {
		if len(args) != 2 {
			return nil, errConvertArgs
		}
		return langtrans.Open(compiled, logger)
	}
	if len(args) != 4 {
		return nil, errConvertArgs
	}
	return langtrans.New(args[2], args[3], logger)
}

func runConvert(cmd *cobra.Command, args []string, opts convertOptions) error {
	engine, err := openEngine(args, opts.compiled)
	if err != nil {
		return err
	}
	in, out := args[0], args[1]

	if err := engine.ConvertFile(in, out); err != nil {
		return err
	}
	if opts.verbose {
		content, err := os.ReadFile(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(content))
	}

	if opts.watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return engine.Watch(ctx, in, out, func(err error) {
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err))
				return
			}
			logger.Info("converted", zap.String("input", in), zap.String("output", out))
		})
	}

	return runAfter(cmd, engine.RuleSet().Settings.After, in, out, opts)
}
