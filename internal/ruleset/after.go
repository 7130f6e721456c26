package ruleset

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// After is the command run after a successful conversion. It is written as
// a string, a list of commands or a mapping from OS name to either.
type After struct {
	Commands []string
	PerOS    map[string][]string
}

func (a *After) UnmarshalYAML(n *yaml.Node) error {
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		cmds, err := stringList(n)
		if err != nil {
			return fmt.Errorf("after: %w", err)
		}
		a.Commands = cmds
		return nil
	}

	pairs, err := mapping(n)
	if err != nil {
		return err
	}
	a.PerOS = make(map[string][]string, len(pairs))
	for _, p := range pairs {
		cmds, err := stringList(p.value)
		if err != nil {
			return fmt.Errorf("after: %s: %w", p.key.Value, err)
		}
		a.PerOS[strings.ToLower(p.key.Value)] = cmds
	}
	return nil
}

// IsZero reports whether no after command is configured.
func (a After) IsZero() bool {
	return len(a.Commands) == 0 && a.PerOS == nil
}

// Command returns the command line for the given OS name, with multiple
// commands joined by &&.
func (a After) Command(goos string) (string, error) {
	cmds := a.Commands
	if a.PerOS != nil {
		var ok bool
		if cmds, ok = a.PerOS[goos]; !ok {
			return "", fmt.Errorf("no after command for %s. OS name eg. linux, windows, darwin", goos)
		}
	}
	return strings.Join(cmds, " && "), nil
}
