package repositories

import "mixtape/internal/models"

// PositionUpdate assigns a song its new position during a reorder.
type PositionUpdate struct {
	ID       string `json:"id" validate:"required"`
	Position int    `json:"position" validate:"required,gte=1"`
}

// SongRepository defines the interface for song data access. Every write
// preserves the invariant that positions within a playlist form a dense
// ascending sequence starting at 1.
type SongRepository interface {
	GetByID(id string) (*models.Song, error)
	ListByPlaylist(playlistID string) ([]models.Song, error)
	CountByPlaylist(playlistID string) (int64, error)
	// Create appends the song at the end of its playlist.
	Create(song *models.Song) error
	// CreateBatch appends all songs in order, atomically: either the
	// whole batch lands or none of it does.
	CreateBatch(playlistID string, songs []*models.Song) error
	Update(song *models.Song) error
	// Delete removes the song and renumbers the rest of the playlist.
	Delete(id string) error
	// Reorder applies the given positions, which must be a permutation of
	// 1..N over exactly the playlist's songs.
	Reorder(playlistID string, updates []PositionUpdate) error
}
