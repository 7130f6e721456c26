package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

// stdinIsTerminal decides whether the after command prompt can be shown.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runAfter offers the after command of the rule set once a conversion
// succeeded. Without --yes it asks first, and only on a terminal.
func runAfter(cmd *cobra.Command, after ruleset.After, in, out string, opts convertOptions) error {
	if opts.no || after.IsZero() {
		return nil
	}
	line, err := after.Command(runtime.GOOS)
	if err != nil {
		logger.Warn("after command skipped", zap.Error(err))
		return nil
	}
	line = expandAfter(line, in, out, currentDir())
	if line == "" {
		return nil
	}

	if !opts.yes {
		if !stdinIsTerminal() {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nEnter to run and n to exit: ", line)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(answer), "n") {
			return nil
		}
	}

	c := shellCommand(runtime.GOOS, line)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("after command failed: %w", err)
	}
	return nil
}

// expandAfter substitutes $target, $source and $current in an after
// command line.
func expandAfter(line, source, target, current string) string {
	return strings.NewReplacer(
		"$target", target,
		"$source", source,
		"$current", current,
	).Replace(line)
}

// currentDir is the directory of the running executable.
func currentDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func shellCommand(goos, line string) *exec.Cmd {
	if goos == "windows" {
		return exec.Command("cmd", "/C", line)
	}
	return exec.Command("sh", "-c", line)
}
