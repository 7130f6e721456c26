// Package internal runs conversion jobs on top of the rewrite core.
//
// Key components:
//
// Engine: one loaded rule set with its built model. It converts strings and
// files and can keep converting a file while it changes.
//
// Bundle: a compiled rule set (.ltz). It holds the raw bytes and md5 hash of
// every rule file read while loading, so a rule set can be shipped as one
// file and reloaded without the originals.
//
// Usage:
//
//	rs, err := ruleset.Load("rules/py", "rules/go")
//	if err != nil {
//	    // handle error
//	}
//
//	engine, err := internal.NewEngine(rs, logger)
//	if err != nil {
//	    // handle error
//	}
//
//	if err := engine.ConvertFile("main.py", "main.go"); err != nil {
//	    fmt.Print(formatter.FormatError(err))
//	}
package internal
