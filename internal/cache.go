package internal

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gnoswap-labs/langtrans/internal/ruleset"
)

// BundleExt is the extension of compiled rule sets.
const BundleExt = ".ltz"

// BundleFile is one rule file stored in a bundle.
type BundleFile struct {
	Role ruleset.Role
	Path string
	Data []byte
	Hash string
}

// Bundle is a compiled rule set. Files keeps the reading order of the
// loader, so the source and target files identify the rule set.
type Bundle struct {
	Files     []BundleFile
	CreatedAt time.Time
}

var errIncompleteBundle = errors.New("bundle has no source or target rules")

// BundlePath appends BundleExt to path unless it already ends with it.
func BundlePath(path string) string {
	if filepath.Ext(path) == BundleExt {
		return path
	}
	return path + BundleExt
}

// SaveBundle writes the files of rs to path and returns the path written.
func SaveBundle(path string, rs *ruleset.RuleSet) (string, error) {
	b := &Bundle{CreatedAt: time.Now()}
	for _, f := range rs.Files {
		b.Files = append(b.Files, BundleFile{
			Role: f.Role,
			Path: f.Path,
			Data: f.Data,
			Hash: hashBytes(f.Data),
		})
	}

	path = BundlePath(path)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create bundle file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(b); err != nil {
		return "", fmt.Errorf("failed to encode bundle file: %w", err)
	}
	return path, file.Close()
}

// LoadBundle reads a bundle written by SaveBundle.
func LoadBundle(path string) (*Bundle, error) {
	file, err := os.Open(BundlePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle file: %w", err)
	}
	defer file.Close()

	var b Bundle
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle file: %w", err)
	}
	return &b, nil
}

// RuleSet loads the rule set from the bundled bytes.
func (b *Bundle) RuleSet() (*ruleset.RuleSet, error) {
	files := make(ruleset.MapReader, len(b.Files))
	var source, target string
	for _, f := range b.Files {
		files[f.Path] = f.Data
		switch f.Role {
		case ruleset.RoleSource:
			source = f.Path
		case ruleset.RoleTarget:
			target = f.Path
		}
	}
	if source == "" || target == "" {
		return nil, errIncompleteBundle
	}
	return ruleset.LoadFrom(files, source, target)
}

// Stale returns the bundled files whose copy on disk changed since the
// bundle was written. Files no longer on disk are not reported.
func (b *Bundle) Stale() []string {
	var stale []string
	for _, f := range b.Files {
		hash, err := getFileHash(f.Path)
		if err != nil {
			continue
		}
		if hash != f.Hash {
			stale = append(stale, f.Path)
		}
	}
	return stale
}

func hashBytes(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
