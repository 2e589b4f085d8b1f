// Package domain holds the viewing entity: one playback run of a scene,
// persisted so a visitor can resume where they left off.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Viewing records how far a visitor got through a scene's narration.
type Viewing struct {
	id        int64
	guid      string
	sceneID   string
	position  time.Duration
	completed bool
	createdAt time.Time
	updatedAt time.Time
}

// NewViewing creates a fresh viewing for a scene with a generated GUID.
func NewViewing(sceneID string) *Viewing {
	now := time.Now()
	return &Viewing{
		guid:      uuid.New().String(),
		sceneID:   sceneID,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteViewing rebuilds a viewing from persisted state. Only the
// repository layer should call this.
func ReconstituteViewing(
	id int64,
	guid string,
	sceneID string,
	position time.Duration,
	completed bool,
	createdAt time.Time,
	updatedAt time.Time,
) *Viewing {
	return &Viewing{
		id:        id,
		guid:      guid,
		sceneID:   sceneID,
		position:  position,
		completed: completed,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the database identity, 0 until first saved.
func (v *Viewing) ID() int64 { return v.id }

// SetID records the database identity after an insert.
func (v *Viewing) SetID(id int64) { v.id = id }

// GUID returns the viewing's stable identifier.
func (v *Viewing) GUID() string { return v.guid }

// SceneID returns the scene this viewing belongs to.
func (v *Viewing) SceneID() string { return v.sceneID }

// Position returns the last recorded playback position.
func (v *Viewing) Position() time.Duration { return v.position }

// Completed reports whether the narration played to the end.
func (v *Viewing) Completed() bool { return v.completed }

// CreatedAt returns when the viewing began.
func (v *Viewing) CreatedAt() time.Time { return v.createdAt }

// UpdatedAt returns when the viewing last changed.
func (v *Viewing) UpdatedAt() time.Time { return v.updatedAt }

// RecordPosition moves the resume point forward (or backward on restart).
func (v *Viewing) RecordPosition(position time.Duration) {
	v.position = position
	v.completed = false
	v.updatedAt = time.Now()
}

// MarkCompleted notes that the narration ended. Completed viewings are not
// offered as resume points.
func (v *Viewing) MarkCompleted() {
	v.completed = true
	v.updatedAt = time.Now()
}

// Resumable reports whether this viewing is worth offering as a resume
// point: it must be incomplete and have made some progress.
func (v *Viewing) Resumable() bool {
	return !v.completed && v.position > 0
}
