package rules

import (
	"fmt"
	"strings"
)

const collectionSigil = "$"

// CheckCollections expands every $name entry of calls into the items of
// that collection, keeping the order of both.
func CheckCollections(calls []string, collections Collections) ([]string, error) {
	out := make([]string, 0, len(calls))
	for _, call := range calls {
		name, ok := strings.CutPrefix(call, collectionSigil)
		if !ok {
			out = append(out, call)
			continue
		}
		items, found := collections[name]
		if !found {
			return nil, fmt.Errorf("%w: %s%s", ErrCollectionNotFound, collectionSigil, name)
		}
		out = append(out, items...)
	}
	return out, nil
}
