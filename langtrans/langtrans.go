// Package langtrans converts source files with declarative rewriting rules.
package langtrans

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/langtrans/internal"
	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

// Converter converts one file into another.
type Converter interface {
	ConvertFile(in, out string) error
}

// New loads the source and target rule files and builds an engine.
func New(source, target string, logger *zap.Logger) (*internal.Engine, error) {
	rs, err := ruleset.Load(source, target)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(rs, logger)
}

// Open builds an engine from a compiled bundle. A bundle older than the
// rule files it was compiled from still opens, with a warning.
func Open(bundlePath string, logger *zap.Logger) (*internal.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := internal.LoadBundle(bundlePath)
	if err != nil {
		return nil, err
	}
	if stale := b.Stale(); len(stale) > 0 {
		logger.Warn("rule files changed since the bundle was compiled", zap.Strings("files", stale))
	}
	rs, err := b.RuleSet()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", internal.BundlePath(bundlePath), err)
	}
	return internal.NewEngine(rs, logger)
}

// Compile checks that the rule files build and writes them to a bundle.
// It returns the path of the bundle.
func Compile(source, target, out string) (string, error) {
	rs, err := ruleset.Load(source, target)
	if err != nil {
		return "", err
	}
	if _, err := rs.Build(); err != nil {
		return "", err
	}
	return internal.SaveBundle(out, rs)
}

// Mapping tells ProcessPath which files to convert and where to write them.
type Mapping struct {
	// InExt selects the files converted below a directory.
	InExt string
	// OutExt replaces the extension of converted files. Empty keeps it.
	OutExt string
	// OutDir receives the outputs, keeping their path relative to the
	// processed directory. Empty writes them next to their input.
	OutDir string
}

var errOverwrite = errors.New("output would overwrite its input")

// Output returns where the conversion of in is written. root is the
// directory being processed, or in itself.
func (m Mapping) Output(root, in string) string {
	out := in
	if m.OutExt != "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + normalizeExt(m.OutExt)
	}
	if m.OutDir == "" {
		return out
	}
	rel, err := filepath.Rel(root, out)
	if err != nil || rel == "." {
		rel = filepath.Base(out)
	}
	return filepath.Join(m.OutDir, rel)
}

func normalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// ProcessPath converts path, a file or a directory. Below a directory every
// file with Mapping.InExt is converted concurrently. It stops at the first
// failed conversion or when ctx is done, and returns the outputs written.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	conv Converter,
	path string,
	m Mapping,
) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		out := m.Output(filepath.Dir(path), path)
		if out == path {
			return nil, fmt.Errorf("%s: %w", path, errOverwrite)
		}
		if err := conv.ConvertFile(path, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	files, err := collectFiles(path, normalizeExt(m.InExt))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if m.Output(path, f) == f {
			return nil, fmt.Errorf("%s: %w", f, errOverwrite)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		outputs  []string
	)

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

dispatch:
	for _, in := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(in string) {
			defer wg.Done()
			defer func() { <-sem }()

			out := m.Output(path, in)
			err := conv.ConvertFile(in, out)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("Error processing file", zap.String("file", in), zap.Error(err))
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				return
			}
			outputs = append(outputs, out)
			_ = bar.Add(1)
		}(in)
	}
	wg.Wait()
	fmt.Println()

	sort.Strings(outputs)
	if firstErr != nil {
		return outputs, firstErr
	}
	// without a failed file, only the parent context cancels ctx
	if err := ctx.Err(); err != nil && len(outputs) < len(files) {
		return outputs, err
	}
	return outputs, nil
}

func collectFiles(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (ext == "" || filepath.Ext(p) == ext) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}
