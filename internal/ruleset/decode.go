package ruleset

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/langtrans/internal/rules"
	"github.com/gnoswap-labs/langtrans/internal/vars"
)

const settingsKey = "settings"

// Settings is the settings mapping of a source rule file.
type Settings struct {
	Lang   string
	Author string
	// After is the command offered once a conversion succeeds.
	After       After
	VarFile     string
	ErrFile     string
	Variables   *vars.Table
	Collections rules.Collections
}

type settingsDoc struct {
	Lang        string            `yaml:"lang"`
	Author      string            `yaml:"author"`
	After       After             `yaml:"after"`
	VarFile     string            `yaml:"varfile"`
	ErrFile     string            `yaml:"errfile"`
	Variables   yaml.Node         `yaml:"variables"`
	Collections rules.Collections `yaml:"collections"`
}

type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

func parseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// mapping returns the key/value pairs of n in document order. A null node
// is an empty mapping.
func mapping(n *yaml.Node) ([]pair, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	pairs := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, pair{key: n.Content[i], value: n.Content[i+1]})
	}
	return pairs, nil
}

// stringList accepts a single string or a sequence of strings.
func stringList(n *yaml.Node) ([]string, error) {
	switch {
	case isNull(n):
		return []string{}, nil
	case n.Kind == yaml.ScalarNode:
		return []string{n.Value}, nil
	case n.Kind == yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: expected a string", item.Line)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: expected a string or a list of strings", n.Line)
	}
}

func scalar(n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: expected a string", n.Line)
	}
	return n.Value, nil
}

// decodeSource reads the settings and the parts of a source rule file.
func decodeSource(data []byte) (Settings, []rules.PartSpec, error) {
	var settings Settings
	root, err := parseDocument(data)
	if err != nil {
		return settings, nil, err
	}
	pairs, err := mapping(root)
	if err != nil {
		return settings, nil, err
	}

	var parts []rules.PartSpec
	for _, p := range pairs {
		if p.key.Value == settingsKey {
			if settings, err = decodeSettings(p.value); err != nil {
				return settings, nil, err
			}
			continue
		}
		part, err := decodePart(p.key.Value, p.value)
		if err != nil {
			return settings, nil, err
		}
		parts = append(parts, part)
	}
	return settings, parts, nil
}

func decodeSettings(n *yaml.Node) (Settings, error) {
	var doc settingsDoc
	if !isNull(n) {
		if err := n.Decode(&doc); err != nil {
			return Settings{}, fmt.Errorf("settings: %w", err)
		}
	}
	variables, err := decodeTable(&doc.Variables)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: variables: %w", err)
	}
	return Settings{
		Lang:        doc.Lang,
		Author:      doc.Author,
		After:       doc.After,
		VarFile:     doc.VarFile,
		ErrFile:     doc.ErrFile,
		Variables:   variables,
		Collections: doc.Collections,
	}, nil
}

func decodePart(name string, n *yaml.Node) (rules.PartSpec, error) {
	ps := rules.PartSpec{Name: name}
	pairs, err := mapping(n)
	if err != nil {
		return ps, fmt.Errorf("part %s: %w", name, err)
	}

	for _, p := range pairs {
		key := p.key.Value
		switch key {
		case "regex":
			ps.Regex, err = scalar(p.value)
			ps.HasRegex = true
		case "tokens":
			ps.Tokens, err = stringList(p.value)
			ps.HasTokens = true
		case "global":
			var global bool
			err = p.value.Decode(&global)
			ps.Global = &global
		case "once":
			err = p.value.Decode(&ps.Once)
		case "unmatch":
			ps.Unmatch, err = stringList(p.value)
		case "next":
			ps.Next, err = stringList(p.value)
		case "doc":
			ps.Doc, err = scalar(p.value)
		default:
			if p.value.Kind != yaml.MappingNode {
				return ps, fmt.Errorf("part %s: line %d: unknown key %q", name, p.key.Line, key)
			}
			var ts rules.TokenSpec
			ts, err = decodeTokenOptions(key, p.value)
			ps.Options = append(ps.Options, ts)
		}
		if err != nil {
			return ps, fmt.Errorf("part %s: %s: %w", name, key, err)
		}
	}
	return ps, nil
}

func decodeTokenOptions(token string, n *yaml.Node) (rules.TokenSpec, error) {
	ts := rules.TokenSpec{Name: token}
	pairs, err := mapping(n)
	if err != nil {
		return ts, err
	}
	for _, p := range pairs {
		switch p.key.Value {
		case "replace":
			ts.Replace, err = decodeReplace(p.value)
		case "call":
			ts.Call, err = stringList(p.value)
		case "eachline":
			var s string
			s, err = scalar(p.value)
			ts.EachLine = &s
		case "default":
			var s string
			s, err = scalar(p.value)
			ts.Default = &s
		case "unmatch":
			ts.Unmatch, err = stringList(p.value)
		default:
			err = fmt.Errorf("line %d: unknown option %q", p.key.Line, p.key.Value)
		}
		if err != nil {
			return ts, err
		}
	}
	return ts, nil
}

// decodeReplace reads a list of [pattern, replacement] pairs. A bare
// string or a one-element list deletes what the pattern matches.
func decodeReplace(n *yaml.Node) ([][]string, error) {
	if isNull(n) {
		return [][]string{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list", n.Line)
	}
	out := make([][]string, 0, len(n.Content))
	for _, item := range n.Content {
		entry, err := stringList(item)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// decodeTemplates reads a target rule file.
func decodeTemplates(data []byte) (map[string]string, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	pairs, err := mapping(root)
	if err != nil {
		return nil, err
	}
	templates := make(map[string]string, len(pairs))
	for _, p := range pairs {
		t, err := scalar(p.value)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", p.key.Value, err)
		}
		templates[p.key.Value] = t
	}
	return templates, nil
}

// decodeVariables reads a variable file.
func decodeVariables(data []byte) (*vars.Table, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return decodeTable(root)
}

func decodeTable(n *yaml.Node) (*vars.Table, error) {
	t := &vars.Table{}
	if n == nil || n.Kind == 0 {
		return t, nil
	}
	pairs, err := mapping(n)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		v, err := scalar(p.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.key.Value, err)
		}
		t.Set(p.key.Value, v)
	}
	return t, nil
}

const outsideKey = "outside"

var errMissingDiagnostic = errors.New("expected a mapping of diagnostic names")

// decodeErrFile reads an error file. Diagnostics are grouped under part
// names; an outside mapping, per part or at the top level, holds the
// diagnostics checked against the whole input.
func decodeErrFile(data []byte) ([]rules.DiagnosticGroup, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	pairs, err := mapping(root)
	if err != nil {
		return nil, err
	}

	var groups []rules.DiagnosticGroup
	for _, p := range pairs {
		if p.key.Value == outsideKey {
			outside, err := decodeDiagnostics(p.value)
			if err != nil {
				return nil, fmt.Errorf("outside: %w", err)
			}
			groups = append(groups, rules.DiagnosticGroup{Outside: outside})
			continue
		}

		g := rules.DiagnosticGroup{Part: p.key.Value}
		entries, err := mapping(p.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.key.Value, errMissingDiagnostic)
		}
		for _, e := range entries {
			if e.key.Value == outsideKey {
				if g.Outside, err = decodeDiagnostics(e.value); err != nil {
					return nil, fmt.Errorf("%s: outside: %w", p.key.Value, err)
				}
				continue
			}
			d, err := decodeDiagnostic(e.key.Value, e.value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.key.Value, err)
			}
			g.Inside = append(g.Inside, d)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func decodeDiagnostics(n *yaml.Node) ([]rules.DiagnosticSpec, error) {
	pairs, err := mapping(n)
	if err != nil {
		return nil, errMissingDiagnostic
	}
	out := make([]rules.DiagnosticSpec, 0, len(pairs))
	for _, p := range pairs {
		d, err := decodeDiagnostic(p.key.Value, p.value)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeDiagnostic(name string, n *yaml.Node) (rules.DiagnosticSpec, error) {
	d := rules.DiagnosticSpec{Name: name}
	var doc struct {
		Regex string `yaml:"regex"`
		Msg   string `yaml:"msg"`
	}
	if n.Kind != yaml.MappingNode {
		return d, fmt.Errorf("diagnostic %s: line %d: expected regex and msg", name, n.Line)
	}
	if err := n.Decode(&doc); err != nil {
		return d, fmt.Errorf("diagnostic %s: %w", name, err)
	}
	d.Regex = doc.Regex
	d.Message = doc.Msg
	return d, nil
}
