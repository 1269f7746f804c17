package folderid

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// rawFromPayload wraps a payload in the fixed 23-byte header and
// 1-byte trailer and base64-encodes the result, the same byte
// arithmetic Transcode reverses.
func rawFromPayload(t *testing.T, payload []byte) string {
	t.Helper()
	buf := make([]byte, 0, headerLen+len(payload)+trailerLen)
	for i := 0; i < headerLen; i++ {
		buf = append(buf, byte(i+1))
	}
	buf = append(buf, payload...)
	buf = append(buf, 0x01)
	return base64.StdEncoding.EncodeToString(buf)
}

func TestTranscodeKnownVector(t *testing.T) {
	const want = "3C8349098F35E54D99689ADCB168C789000B047642A90000"
	payload, err := hex.DecodeString(want)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	raw := rawFromPayload(t, payload)
	if len(raw) != 64 {
		t.Fatalf("fixture should match the observed 64-char encoding, got %d", len(raw))
	}

	got, err := Transcode(raw)
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}
	if got != want {
		t.Fatalf("transcode mismatch: got %s want %s", got, want)
	}
	if len(got) != 48 {
		t.Fatalf("expected 48 hex characters, got %d", len(got))
	}
}

func TestTranscodeDeterministic(t *testing.T) {
	raw := rawFromPayload(t, []byte("twenty-four byte payload"))
	first, err := Transcode(raw)
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Transcode(raw)
		if err != nil {
			t.Fatalf("repeat %d failed: %v", i, err)
		}
		if again != first {
			t.Fatalf("repeat %d mismatch: got %s want %s", i, again, first)
		}
	}
	if first != strings.ToUpper(first) {
		t.Fatalf("expected uppercase hex, got %s", first)
	}
}

func TestTranscodeEmptyIsNoOp(t *testing.T) {
	got, err := Transcode("")
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if got != "" {
		t.Fatalf("empty input must produce nothing, got %q", got)
	}
}

func TestTranscodeInvalidBase64(t *testing.T) {
	if _, err := Transcode("!!not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestTranscodeShortDecodes(t *testing.T) {
	for _, n := range []int{0, 1, 10, headerLen, headerLen + trailerLen - 1} {
		raw := base64.StdEncoding.EncodeToString(make([]byte, n))
		got, err := Transcode(raw)
		if err == nil {
			t.Fatalf("decoded length %d: expected error, got %q", n, got)
		}
		var malformed *MalformedIdentifierError
		if !errors.As(err, &malformed) {
			t.Fatalf("decoded length %d: expected MalformedIdentifierError, got %v", n, err)
		}
		if malformed.Decoded != n {
			t.Fatalf("decoded length mismatch: got %d want %d", malformed.Decoded, n)
		}
	}
}

func TestTranscodeArbitraryPayloadLengths(t *testing.T) {
	// The byte arithmetic holds for any payload size; only the query
	// grammar constrains it to 24 bytes downstream.
	for _, n := range []int{1, 16, 24, 26} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(0xA0 + i)
		}
		raw := rawFromPayload(t, payload)
		got, err := Transcode(raw)
		if err != nil {
			t.Fatalf("payload %d: %v", n, err)
		}
		want := fmt.Sprintf("%X", payload)
		if got != want {
			t.Fatalf("payload %d: got %s want %s", n, got, want)
		}
	}
}
