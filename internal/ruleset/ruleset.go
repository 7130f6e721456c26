// Package ruleset reads rule files: the source rules (parts and settings),
// the target templates, and the variable and error files they refer to.
package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

const ext = ".yaml"

// Role tells what a rule file was read for.
type Role string

const (
	RoleSource  Role = "source"
	RoleTarget  Role = "target"
	RoleVarFile Role = "varfile"
	RoleErrFile Role = "errfile"
)

// File is one file read while loading a rule set.
type File struct {
	Role Role
	Path string
	Data []byte
}

// Reader reads rule files by path.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads from the file system.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MapReader serves files held in memory, keyed by path.
type MapReader map[string][]byte

func (m MapReader) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return data, nil
}

// RuleSet is everything needed to build a rule model.
type RuleSet struct {
	Settings    Settings
	Spec        rules.Spec
	Variables   *vars.Table
	Collections rules.Collections
	// Files lists every file read, in reading order.
	Files []File
}

// Build compiles the rule set into a model.
func (rs *RuleSet) Build() (*rules.Model, error) {
	return rules.Build(rs.Spec, rs.Collections, rs.Variables)
}

// Path appends the .yaml extension to names that have none.
func Path(name string) string {
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// Load reads a rule set from disk.
func Load(source, target string) (*RuleSet, error) {
	return LoadFrom(OSReader{}, source, target)
}

// LoadFrom reads the source and target rule files through r. Variable and
// error files named in the settings are resolved against the directory of
// the source rule file.
func LoadFrom(r Reader, source, target string) (*RuleSet, error) {
	rs := &RuleSet{}

	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	rs.Variables = builtin

	data, err := rs.read(r, RoleSource, Path(source))
	if err != nil {
		return nil, err
	}
	settings, parts, err := decodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Path(source), err)
	}
	rs.Settings = settings
	rs.Collections = settings.Collections

	dir := filepath.Dir(Path(source))
	if settings.VarFile != "" {
		path := resolve(dir, settings.VarFile)
		data, err := rs.read(r, RoleVarFile, path)
		if err != nil {
			return nil, err
		}
		table, err := decodeVariables(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rs.Variables.Merge(table)
	}
	rs.Variables.Merge(settings.Variables)

	if settings.ErrFile != "" {
		path := resolve(dir, settings.ErrFile)
		data, err := rs.read(r, RoleErrFile, path)
		if err != nil {
			return nil, err
		}
		if rs.Spec.Diagnostics, err = decodeErrFile(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	data, err = rs.read(r, RoleTarget, Path(target))
	if err != nil {
		return nil, err
	}
	templates, err := decodeTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Path(target), err)
	}

	if err := resolveAliases(parts, templates); err != nil {
		return nil, fmt.Errorf("%s: %w", Path(source), err)
	}
	rs.Spec.Parts = parts
	rs.Spec.Templates = templates
	return rs, nil
}

func (rs *RuleSet) read(r Reader, role Role, path string) ([]byte, error) {
	data, err := r.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s file not found: %w", role, err)
		}
		return nil, fmt.Errorf("failed to read %s file: %w", role, err)
	}
	rs.Files = append(rs.Files, File{Role: role, Path: path, Data: data})
	return data, nil
}

func resolve(dir, name string) string {
	name = Path(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// resolveAliases lets a part named _<c><base> without a template of its
// own reuse the tokens and the template of <base>.
func resolveAliases(parts []rules.PartSpec, templates map[string]string) error {
	index := make(map[string]int, len(parts))
	for i, p := range parts {
		index[p.Name] = i
	}
	for i, p := range parts {
		if _, ok := templates[p.Name]; ok || !strings.HasPrefix(p.Name, "_") || len(p.Name) < 3 {
			continue
		}
		base := p.Name[2:]
		j, ok := index[base]
		if !ok {
			return fmt.Errorf("%s for %s not found", base, p.Name)
		}
		parts[i].Tokens = append([]string(nil), parts[j].Tokens...)
		parts[i].HasTokens = parts[j].HasTokens
		if t, ok := templates[base]; ok {
			templates[p.Name] = t
		}
	}
	return nil
}
