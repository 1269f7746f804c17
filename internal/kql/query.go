// Package kql assembles folder-scoped keyword query language (KQL)
// expressions for the remote content-search service.
package kql

import (
	"fmt"
	"strings"
)

// QueryIDLength is the exact hex length of a folder query identifier:
// the 24-byte payload of the published folder identifier layout.
const QueryIDLength = 48

const (
	clausePrefix    = "folderid:"
	clauseSeparator = " OR "
)

// InvalidQueryIDError identifies the candidate that failed validation
// during query assembly.
type InvalidQueryIDError struct {
	Value  string
	Reason string
}

func (e *InvalidQueryIDError) Error() string {
	return fmt.Sprintf("invalid folder query id %q: %s", e.Value, e.Reason)
}

// BuildFolderQuery joins folder query identifiers into a single
// boolean OR expression, preserving input order. Validation is
// all-or-nothing: if any candidate fails, no query is returned — a
// search that silently drops a requested folder is worse than a hard
// failure. An empty batch yields an empty string; callers decide what
// an unrestricted query means.
func BuildFolderQuery(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := validateQueryID(id); err != nil {
			return "", err
		}
		clauses = append(clauses, clausePrefix+id)
	}
	return strings.Join(clauses, clauseSeparator), nil
}

func validateQueryID(id string) error {
	if len(id) != QueryIDLength {
		return &InvalidQueryIDError{
			Value:  id,
			Reason: fmt.Sprintf("length %d, want %d", len(id), QueryIDLength),
		}
	}
	for _, r := range id {
		if !isHexDigit(r) {
			return &InvalidQueryIDError{
				Value:  id,
				Reason: fmt.Sprintf("non-hex character %q", r),
			}
		}
	}
	return nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}
