package persist

import "fmt"

// Stage names the step of a load that failed.
type Stage string

const (
	StageRead   Stage = "read"
	StageDecode Stage = "decode"
	StageParse  Stage = "parse"
)

// LoadError wraps a failure at one stage of Load.
type LoadError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// BackupError means the pre-save backup could not be made. The target file
// has not been touched.
type BackupError struct {
	Path   string
	Backup string
	Err    error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("failed to back up %s to %s: %v", e.Path, e.Backup, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// WriteError means the new content could not be written. Backup, when set,
// still holds the previous content.
type WriteError struct {
	Path   string
	Backup string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Backup != "" {
		return fmt.Sprintf("failed to write %s (previous content kept in %s): %v", e.Path, e.Backup, e.Err)
	}
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
