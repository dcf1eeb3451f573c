package normalize

import (
	"fmt"

	"github.com/rickgao/prob-markets/internal/model"
)

// MalformedRecordError describes a source market that could not be
// normalized. Such records are dropped; the run continues.
type MalformedRecordError struct {
	Source model.Source
	ID     string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed %s record: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("malformed %s record %s: %s", e.Source, e.ID, e.Reason)
}

func malformed(src model.Source, id, format string, args ...any) error {
	return &MalformedRecordError{Source: src, ID: id, Reason: fmt.Sprintf(format, args...)}
}
