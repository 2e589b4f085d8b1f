package library

import "fmt"

// SceneNotFoundError indicates that no scene with the requested ID exists
// in the scanned library.
type SceneNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *SceneNotFoundError) Error() string {
	return fmt.Sprintf("scene not found: id=%q", e.ID)
}

// DuplicateSceneError indicates that two directories declare the same
// scene ID.
type DuplicateSceneError struct {
	ID         string
	Dir        string
	ExistingAt string
}

// Error implements the error interface.
func (e *DuplicateSceneError) Error() string {
	return fmt.Sprintf("duplicate scene id %q: %s conflicts with %s", e.ID, e.Dir, e.ExistingAt)
}
