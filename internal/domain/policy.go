package domain

import (
	"fmt"
	"strings"
)

// UpdateMode selects how present-but-empty update fields are treated.
type UpdateMode int

const (
	// UpdateLegacy ignores fields supplied with their zero value, so an
	// empty string or a zero amount never clears a stored value.
	UpdateLegacy UpdateMode = iota
	// UpdateExplicit applies every supplied field, zero values included.
	UpdateExplicit
)

func (m UpdateMode) String() string {
	if m == UpdateExplicit {
		return "explicit"
	}
	return "legacy"
}

func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return UpdateLegacy, nil
	case "explicit":
		return UpdateExplicit, nil
	}
	return UpdateLegacy, fmt.Errorf("unknown update mode %q", s)
}

// takes reports whether a field with the given presence and zeroness
// should overwrite the stored value.
func (m UpdateMode) takes(present, zero bool) bool {
	if !present {
		return false
	}
	return m == UpdateExplicit || !zero
}

// DeletePolicy decides what happens to dependent rows on delete.
type DeletePolicy int

const (
	// DeleteRestrict rejects the delete with ErrHasDependents.
	DeleteRestrict DeletePolicy = iota
	// DeleteCascade removes dependents in the same transaction.
	DeleteCascade
)

func (p DeletePolicy) String() string {
	if p == DeleteCascade {
		return "cascade"
	}
	return "restrict"
}

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "restrict":
		return DeleteRestrict, nil
	case "cascade":
		return DeleteCascade, nil
	}
	return DeleteRestrict, fmt.Errorf("unknown delete policy %q", s)
}
