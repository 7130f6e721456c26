package ruleset

import "fmt"

// Doc describes a source rule file for the doc command.
type Doc struct {
	Lang   string
	Author string
	Parts  []DocPart
}

// DocPart is one row of the part table.
type DocPart struct {
	Name   string
	Tokens []string
	Doc    string
}

// LoadDoc reads the documentation of a source rule file from disk.
func LoadDoc(source string) (*Doc, error) {
	return ReadDoc(OSReader{}, source)
}

// ReadDoc reads the documentation of a source rule file through r.
func ReadDoc(r Reader, source string) (*Doc, error) {
	path := Path(source)
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	settings, parts, err := decodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc := &Doc{Lang: settings.Lang, Author: settings.Author}
	for _, p := range parts {
		doc.Parts = append(doc.Parts, DocPart{Name: p.Name, Tokens: p.Tokens, Doc: p.Doc})
	}
	return doc, nil
}
