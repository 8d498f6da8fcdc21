package normalize

import "fmt"

// ParseError means an input could not be decoded and structured by any
// of the attempted encodings.
type ParseError struct {
	Kind string // "product master" or "analytics export"
	Err  error  // last attempt's failure, may be nil
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s CSV: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("failed to parse %s CSV", e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingKeyError means a required join-key column was absent after
// header renaming. It is fatal to that one input batch only.
type MissingKeyError struct {
	Column string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Column)
}
