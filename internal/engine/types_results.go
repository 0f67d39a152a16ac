package engine

import (
	"time"

	"github.com/danieljhkim/rpgsave/internal/document"
)

// OpenResult describes a freshly opened save file.
type OpenResult struct {
	// Path is the absolute path of the file.
	Path string

	// Kind is the kind of the document root.
	Kind document.Kind

	// Size is the on-disk size in bytes.
	Size int

	// Fingerprint identifies the loaded bytes.
	Fingerprint string

	LoadedAt time.Time
}

// SaveResult describes a completed save.
type SaveResult struct {
	Path string

	// Backup is the .bak file, or "" when the file was new.
	Backup string

	Size    int
	SavedAt time.Time
}

// EditResult describes an edit request.
type EditResult struct {
	Path document.Path

	// Changed is false when the new value equals the old one; nothing was
	// recorded in that case.
	Changed bool

	// Old and New are the values before and after. Old is Null for an
	// inserted key.
	Old document.Value
	New document.Value

	// Inserted is true when the edit added a new object key.
	Inserted bool

	// Warning is set when the raw text was coerced to a non-string value.
	Warning string
}
