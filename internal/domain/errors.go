package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// CycleError is returned when moving a folder under itself or one of its
// descendants. The move is not applied.
type CycleError struct {
	FolderID    int64
	NewParentID int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("moving folder %d under folder %d would create a cycle", e.FolderID, e.NewParentID)
}

// Is allows errors.Is() to match against ErrValidation
func (e *CycleError) Is(target error) bool {
	return target == ErrValidation
}

// BackupError wraps a backup read/write failure with a human-readable
// operation description for the calling layer to present.
type BackupError struct {
	Op  string // "export" or "restore"
	Err error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s failed: %v", e.Op, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}
