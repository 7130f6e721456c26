package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound is returned when a $name reference names no
	// collection.
	ErrCollectionNotFound = errors.New("collection not found")

	errMissingRegex    = errors.New("regex not found")
	errMissingTokens   = errors.New("tokens not found")
	errMissingTemplate = errors.New("template not found")
	errUnknownToken    = errors.New("not found in tokens")
	errUnknownPart     = errors.New("unknown part")
	errGroupCount      = errors.New("number of token names is not equal to number of capture groups")
)

// SpecError reports a rule specification that cannot be compiled.
type SpecError struct {
	Part string
	// Location narrows the failure down within the part, e.g. an option.
	Location string
	Err      error
}

func (e *SpecError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	msg := e.Err.Error()
	if e.Location != "" {
		msg = e.Location + ": " + msg
	}
	if e.Part != "" {
		msg = fmt.Sprintf("part %s: %s", e.Part, msg)
	}
	return msg
}

func (e *SpecError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func specError(part, location string, err error) error {
	if err == nil {
		return nil
	}
	return &SpecError{Part: part, Location: location, Err: err}
}
