package domain

import (
	"fmt"
	"strings"
)

// MissingColumnError reports that a required input column is absent from a
// table. It is fatal for the stage that raises it: per-row missing values are
// absorbed by documented defaults, but a structurally absent column means the
// upstream contract is broken.
type MissingColumnError struct {
	Stage   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("stage %s: required columns missing: %s", e.Stage, strings.Join(e.Columns, ", "))
}

// NewMissingColumnError builds the error, or nil when no columns are missing.
func NewMissingColumnError(stage string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return &MissingColumnError{Stage: stage, Columns: columns}
}
