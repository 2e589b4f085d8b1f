package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/deadchur/ITC303-platARpus-v1/internal/viewing/domain"
)

// viewingRepository implements domain.ViewingRepository using SQLite.
type viewingRepository struct {
	db *sql.DB
}

// newViewingRepository creates a new viewingRepository instance.
func newViewingRepository(db *sql.DB) *viewingRepository {
	return &viewingRepository{db: db}
}

// Ensure viewingRepository implements domain.ViewingRepository.
var _ domain.ViewingRepository = (*viewingRepository)(nil)

// Save persists a viewing to the database. For new viewings (ID == 0),
// inserts a new row and sets the viewing ID. For existing viewings
// (ID > 0), updates the existing row.
func (r *viewingRepository) Save(viewing *domain.Viewing) error {
	model := toViewingModel(viewing)

	if viewing.ID() == 0 {
		result, err := r.db.Exec(
			`INSERT INTO viewings (guid, scene_id, position_ms, completed, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			model.GUID, model.SceneID, model.PositionMS, model.Completed, model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert viewing: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		viewing.SetID(id)
		return nil
	}

	_, err := r.db.Exec(
		`UPDATE viewings SET position_ms = ?, completed = ?, updated_at = ? WHERE id = ?`,
		model.PositionMS, model.Completed, model.UpdatedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update viewing: %w", err)
	}
	return nil
}

// FindByGUID retrieves a viewing by its GUID. Returns ViewingNotFoundError
// if no matching viewing exists.
func (r *viewingRepository) FindByGUID(guid string) (*domain.Viewing, error) {
	var model ViewingModel
	err := r.db.QueryRow(
		`SELECT id, guid, scene_id, position_ms, completed, created_at, updated_at
		 FROM viewings
		 WHERE guid = ?`,
		guid,
	).Scan(&model.ID, &model.GUID, &model.SceneID, &model.PositionMS, &model.Completed, &model.CreatedAt, &model.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, &domain.ViewingNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find viewing by guid: %w", err)
	}
	return model.toDomain(), nil
}

// LatestResumable retrieves the most recently updated incomplete viewing
// for a scene. Returns NoResumePointError when every viewing of the scene
// is completed, has no progress, or none exist.
func (r *viewingRepository) LatestResumable(sceneID string) (*domain.Viewing, error) {
	var model ViewingModel
	err := r.db.QueryRow(
		`SELECT id, guid, scene_id, position_ms, completed, created_at, updated_at
		 FROM viewings
		 WHERE scene_id = ? AND completed = 0 AND position_ms > 0
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		sceneID,
	).Scan(&model.ID, &model.GUID, &model.SceneID, &model.PositionMS, &model.Completed, &model.CreatedAt, &model.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, &domain.NoResumePointError{SceneID: sceneID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume point: %w", err)
	}
	return model.toDomain(), nil
}

// ListForScene retrieves viewings for a scene, newest first. limit <= 0
// returns all of them.
func (r *viewingRepository) ListForScene(sceneID string, limit int) ([]*domain.Viewing, error) {
	query := `SELECT id, guid, scene_id, position_ms, completed, created_at, updated_at
			  FROM viewings
			  WHERE scene_id = ?
			  ORDER BY updated_at DESC`
	args := []any{sceneID}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var viewings []*domain.Viewing
	for rows.Next() {
		var model ViewingModel
		err := rows.Scan(&model.ID, &model.GUID, &model.SceneID, &model.PositionMS, &model.Completed, &model.CreatedAt, &model.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan viewing row: %w", err)
		}
		viewings = append(viewings, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating viewing rows: %w", err)
	}

	return viewings, nil
}

// DeleteForScene permanently removes all viewing records for a scene.
func (r *viewingRepository) DeleteForScene(sceneID string) error {
	_, err := r.db.Exec(
		`DELETE FROM viewings WHERE scene_id = ?`,
		sceneID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete viewings for scene: %w", err)
	}
	return nil
}

// Close releases any resources held by the repository. This is a no-op
// because the connection is owned by the DB struct.
func (r *viewingRepository) Close() error {
	return nil
}
