package sqlite

import (
	"time"

	"github.com/deadchur/ITC303-platARpus-v1/internal/viewing/domain"
)

// ViewingModel represents the database row for the viewings table. Fields
// map directly to SQL columns; position is stored in milliseconds and time
// values as Unix timestamps.
type ViewingModel struct {
	ID         int64
	GUID       string
	SceneID    string
	PositionMS int64
	Completed  bool
	CreatedAt  int64 // Unix timestamp
	UpdatedAt  int64 // Unix timestamp
}

// toViewingModel converts a domain Viewing entity to a database ViewingModel.
func toViewingModel(v *domain.Viewing) *ViewingModel {
	return &ViewingModel{
		ID:         v.ID(),
		GUID:       v.GUID(),
		SceneID:    v.SceneID(),
		PositionMS: v.Position().Milliseconds(),
		Completed:  v.Completed(),
		CreatedAt:  v.CreatedAt().Unix(),
		UpdatedAt:  v.UpdatedAt().Unix(),
	}
}

// toDomain converts a database ViewingModel to a domain Viewing entity.
func (m *ViewingModel) toDomain() *domain.Viewing {
	return domain.ReconstituteViewing(
		m.ID,
		m.GUID,
		m.SceneID,
		time.Duration(m.PositionMS)*time.Millisecond,
		m.Completed,
		time.Unix(m.CreatedAt, 0),
		time.Unix(m.UpdatedAt, 0),
	)
}
