package repositories

import "mixtape/internal/models"

// InteractionRepository manages like and save membership edges. Edge
// creation and the playlist's denormalized likes counter move together in
// one transaction; duplicate edges surface as Conflict and missing edges
// as NotFound.
type InteractionRepository interface {
	CreateLike(userID, playlistID string) error
	DeleteLike(userID, playlistID string) error
	// LikedSet reports, for one query, which of the given playlists the
	// user has liked.
	LikedSet(userID string, playlistIDs []string) (map[string]bool, error)

	CreateSave(userID, playlistID string) error
	DeleteSave(userID, playlistID string) error
	SavedSet(userID string, playlistIDs []string) (map[string]bool, error)

	// ListSaved pages through the playlists a user has saved, most
	// recently saved first.
	ListSaved(userID string, page, limit int) ([]models.Playlist, int64, error)
}
