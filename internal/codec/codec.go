// Package codec converts between the on-disk text of a save file and the
// JSON document it wraps.
//
// Nothing outside this package knows which compression scheme is in use;
// callers depend only on the Codec interface. The production scheme is
// LZString (the "compressToBase64" variant used by RPG Maker MV), and
// Identity passes JSON through unchanged for tests and raw exports.
package codec

import (
	"errors"
	"fmt"
)

// ErrDecode is matched by every decode failure.
var ErrDecode = errors.New("decode failed")

// Codec is a reversible transform between save-file text and a JSON string.
type Codec interface {
	// Decode turns save-file text into a JSON string.
	// An empty result is reported as a *DecodeError, never as "".
	Decode(text string) (string, error)

	// Encode turns a JSON string into save-file text.
	Encode(s string) (string, error)
}

// DecodeError describes malformed compressed input.
type DecodeError struct {
	// Offset is the input position where decoding failed, or -1 when the
	// failure is not tied to a position (e.g. an empty result).
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode failed at offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("decode failed: %s", e.Reason)
}

// Is reports ErrDecode so callers can use errors.Is.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Identity is a Codec that stores JSON text as-is.
type Identity struct{}

// Decode returns text unchanged, rejecting empty input.
func (Identity) Decode(text string) (string, error) {
	if text == "" {
		return "", &DecodeError{Offset: -1, Reason: "empty input"}
	}
	return text, nil
}

// Encode returns s unchanged.
func (Identity) Encode(s string) (string, error) {
	return s, nil
}
