package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a location in a document. Each step is an object key or
// the decimal form of an array index. The empty path is the root.
type Path []string

// ParsePath reads a path in one of two textual forms: a JSON array of
// strings (["a","b","1"]) or a slash-separated list with JSON Pointer
// escapes (a/b/1, where ~1 is '/' and ~0 is '~'). A leading slash is
// optional. As in JSON Pointer, "" is the root and "/" is the empty key.
func ParsePath(s string) (Path, error) {
	if trimmed := strings.TrimSpace(s); strings.HasPrefix(trimmed, "[") {
		var steps []string
		if err := json.Unmarshal([]byte(trimmed), &steps); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPathSyntax, err)
		}
		return Path(steps), nil
	}

	if s == "" {
		return Path{}, nil
	}
	s = strings.TrimPrefix(s, "/")

	parts := strings.Split(s, "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		step, err := unescapeStep(part)
		if err != nil {
			return nil, err
		}
		p = append(p, step)
	}
	return p, nil
}

func unescapeStep(part string) (string, error) {
	if !strings.Contains(part, "~") {
		return part, nil
	}
	var b strings.Builder
	for i := 0; i < len(part); i++ {
		if part[i] != '~' {
			b.WriteByte(part[i])
			continue
		}
		if i+1 >= len(part) {
			return "", fmt.Errorf("%w: dangling '~' in %q", ErrPathSyntax, part)
		}
		switch part[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("%w: bad escape '~%c' in %q", ErrPathSyntax, part[i+1], part)
		}
		i++
	}
	return b.String(), nil
}

// Append returns a new path with step added; p is not modified.
func (p Path) Append(step string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}

// AppendIndex returns a new path with an array index added.
func (p Path) AppendIndex(i int) Path {
	return p.Append(strconv.Itoa(i))
}

// Parent returns the path without its last step. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final step, or "" for the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// IsRoot reports whether p is the empty path.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether two paths have the same steps.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Pointer renders p in the slash form accepted by ParsePath.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, step := range p {
		b.WriteByte('/')
		step = strings.ReplaceAll(step, "~", "~0")
		b.WriteString(strings.ReplaceAll(step, "/", "~1"))
	}
	return b.String()
}

// String renders p for messages, e.g. "a → b → 1".
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	return strings.Join(p, " → ")
}

// parseIndex validates an array step. ok is false when the step is not a
// non-negative decimal integer; overflow reports ok with n = -1 so callers
// treat it as out of range.
func parseIndex(step string) (n int, ok bool) {
	if step == "" {
		return 0, false
	}
	for i := 0; i < len(step); i++ {
		if step[i] < '0' || step[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(step)
	if err != nil {
		return -1, true
	}
	return n, true
}
