package document

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPath is matched by every *PathError.
	ErrPath = errors.New("invalid path")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed JSON")

	// ErrPathSyntax indicates a textual path could not be parsed.
	ErrPathSyntax = errors.New("invalid path syntax")

	// ErrUnsupported indicates an operation the target container does not support.
	ErrUnsupported = errors.New("unsupported operation")
)

// PathErrorKind classifies why a path could not be resolved.
type PathErrorKind int

const (
	// MissingKey means an object has no member with the step's name.
	MissingKey PathErrorKind = iota
	// BadIndex means an array step is not a non-negative integer.
	BadIndex
	// OutOfRange means an array index is outside [0, len).
	OutOfRange
	// NotContainer means steps remain but the current value is a scalar.
	NotContainer
)

func (k PathErrorKind) String() string {
	switch k {
	case MissingKey:
		return "missing key"
	case BadIndex:
		return "bad index"
	case OutOfRange:
		return "index out of range"
	case NotContainer:
		return "not a container"
	default:
		return "unknown"
	}
}

// maxListedKeys bounds how many available keys an error message prints.
const maxListedKeys = 12

// PathError reports the step at which a path stopped resolving. Depth is
// the index of the failing step in Path; Walked is Path[:Depth].
type PathError struct {
	Kind  PathErrorKind
	Path  Path
	Depth int
	Step  string

	// Expected is the container kind the step was applied to, and Found the
	// kind actually present (NotContainer only).
	Expected Kind
	Found    Kind

	// Available lists the keys of the object at Walked (MissingKey only).
	Available []string

	// Len is the array length (OutOfRange only).
	Len int
}

// Walked returns the prefix of Path that resolved successfully.
func (e *PathError) Walked() Path {
	return e.Path[:e.Depth]
}

func (e *PathError) Error() string {
	at := e.Walked().String()
	switch e.Kind {
	case MissingKey:
		return fmt.Sprintf("key %q not found in object at %s (available: %s)", e.Step, at, listKeys(e.Available))
	case BadIndex:
		return fmt.Sprintf("step %q is not a valid index into array at %s", e.Step, at)
	case OutOfRange:
		return fmt.Sprintf("index %s out of range for array at %s (length %d)", e.Step, at, e.Len)
	case NotContainer:
		return fmt.Sprintf("cannot apply step %q at %s: expected object or array, found %s", e.Step, at, e.Found)
	default:
		return fmt.Sprintf("invalid path at %s", at)
	}
}

// Is reports ErrPath so callers can use errors.Is.
func (e *PathError) Is(target error) bool {
	return target == ErrPath
}

func listKeys(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	if len(keys) <= maxListedKeys {
		return strings.Join(keys, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(keys[:maxListedKeys], ", "), len(keys)-maxListedKeys)
}

// ParseError reports malformed JSON input.
type ParseError struct {
	// Offset is the byte offset into the input near the failure.
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse so callers can use errors.Is.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
