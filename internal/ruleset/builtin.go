package ruleset

import (
	_ "embed"
	"fmt"

	"github.com/gnoswap-labs/langtrans/internal/vars"
)

//go:embed builtin.yaml
var builtinVariables []byte

// Builtin returns a fresh table of the builtin variables.
func Builtin() (*vars.Table, error) {
	t, err := decodeVariables(builtinVariables)
	if err != nil {
		return nil, fmt.Errorf("builtin variables: %w", err)
	}
	return t, nil
}
