package domain

// ViewingRepository persists viewings.
type ViewingRepository interface {
	// Save inserts a new viewing (ID == 0) or updates an existing one.
	Save(viewing *Viewing) error

	// FindByGUID returns the viewing with the given GUID or a
	// ViewingNotFoundError.
	FindByGUID(guid string) (*Viewing, error)

	// LatestResumable returns the most recently updated incomplete viewing
	// for a scene, or a NoResumePointError.
	LatestResumable(sceneID string) (*Viewing, error)

	// ListForScene returns viewings for a scene, newest first. limit <= 0
	// means no limit.
	ListForScene(sceneID string, limit int) ([]*Viewing, error)

	// DeleteForScene removes all viewings for a scene.
	DeleteForScene(sceneID string) error

	// Close releases any resources held by the repository.
	Close() error
}
