// Package coerce turns text typed into the editor into a JSON scalar.
package coerce

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/danieljhkim/rpgsave/internal/document"
)

// Coerce converts raw text to a value. It never fails. Precedence, with
// case-insensitive literal matching:
//
//  1. "true" / "false" become booleans
//  2. "null" / "none" become null
//  3. an exact integer becomes a number
//  4. a finite float becomes a number
//  5. anything else stays the original string
//
// There is no way to force a numeric-looking text to stay a string.
func Coerce(text string) document.Value {
	switch strings.ToLower(text) {
	case "true":
		return document.NewBool(true)
	case "false":
		return document.NewBool(false)
	case "null", "none":
		return document.NewNull()
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return document.NewString(text)
	}

	if n, ok := new(big.Int).SetString(trimmed, 10); ok {
		return document.NewNumber(n.String())
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return document.NewFloat(f)
	}

	return document.NewString(text)
}

// Warn returns a message for text that will not be stored as a string, or
// "" when the text stays a string.
func Warn(text string) string {
	v := Coerce(text)
	if v.Kind() == document.String {
		return ""
	}
	return "\"" + text + "\" will be stored as " + v.Kind().String() + " " + v.String() +
		"; quoting is not supported to force a string"
}

// WarnOver is Warn for text replacing old. When a boolean replaces a number
// or the reverse, the message also names the previous type.
func WarnOver(old document.Value, text string) string {
	msg := Warn(text)
	kind := Coerce(text).Kind()
	if !(old.Kind() == document.Number && kind == document.Bool) &&
		!(old.Kind() == document.Bool && kind == document.Number) {
		return msg
	}
	return msg + "; the previous value " + old.String() + " was a " + old.Kind().String()
}
