package domain

import "fmt"

// ViewingNotFoundError indicates that a viewing with the specified GUID
// could not be found in the repository.
type ViewingNotFoundError struct {
	GUID string
}

// Error implements the error interface.
func (e *ViewingNotFoundError) Error() string {
	return fmt.Sprintf("viewing not found: guid=%q", e.GUID)
}

// NoResumePointError indicates that a scene has no incomplete viewing to
// resume from.
type NoResumePointError struct {
	SceneID string
}

// Error implements the error interface.
func (e *NoResumePointError) Error() string {
	return fmt.Sprintf("no resume point for scene %q", e.SceneID)
}
