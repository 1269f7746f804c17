// Package folderid converts raw mailbox folder identifiers into the
// hexadecimal form the compliance-search query grammar accepts.
//
// The raw identifier is a base64-encoded binary structure: a 23-byte
// namespace header, the folder-identifying payload, and a 1-byte
// trailing marker. Only the payload participates in folderid: query
// clauses, rendered as uppercase hex.
package folderid

import (
	"encoding/base64"
	"fmt"
)

const (
	headerLen  = 23
	trailerLen = 1
)

// MalformedIdentifierError reports a raw identifier whose decoded form
// is too short to contain the fixed header and trailer.
type MalformedIdentifierError struct {
	Raw     string
	Decoded int
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf(
		"malformed folder identifier %q: decoded to %d bytes, need at least %d",
		e.Raw, e.Decoded, headerLen+trailerLen,
	)
}

// Transcode converts a raw base64 folder identifier into its canonical
// hexadecimal query form. An empty input is a no-op and yields an
// empty string so callers can skip folder records that carry no
// identifier without aborting the batch. The result is deterministic:
// the same input always yields the same string.
func Transcode(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	buf, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode folder identifier: %w", err)
	}
	if len(buf) < headerLen+trailerLen {
		return "", &MalformedIdentifierError{Raw: raw, Decoded: len(buf)}
	}
	payload := buf[headerLen : len(buf)-trailerLen]
	return fmt.Sprintf("%X", payload), nil
}
