package repositories

import "mixtape/internal/models"

// Sort orders accepted by playlist listings.
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

// PlaylistListOptions filters and pages a playlist listing.
type PlaylistListOptions struct {
	UserID string // only playlists owned by this user
	Tag    string // only playlists carrying this exact tag (lowercased)
	Sort   string // SortRecent (default) or SortPopular
	// ViewerID widens visibility: private playlists owned by the viewer
	// are included. Everyone else only sees public playlists.
	ViewerID string
	Page     int
	Limit    int
}

// TagCount pairs a tag name with how many public playlists carry it.
type TagCount struct {
	Name          string `json:"name"`
	PlaylistCount int64  `json:"playlistCount"`
}

// PlaylistRepository defines the interface for playlist data access.
// Creation and deletion keep the owner's denormalized playlist count and
// the normalized tag rows in step within one transaction.
type PlaylistRepository interface {
	Create(playlist *models.Playlist) error
	GetByID(id string) (*models.Playlist, error)
	Update(playlist *models.Playlist) error
	// Delete cascades to the playlist's songs, likes, saves, tag rows and
	// notifications, and decrements the owner's playlist count.
	Delete(id string) error
	List(opts PlaylistListOptions) ([]models.Playlist, int64, error)
	// Search lists public playlists whose title, description or any tag
	// contains the query, case-insensitively.
	Search(query, sort string, limit, offset int) ([]models.Playlist, int64, error)
	// SuggestTitles lists public playlists whose title starts with prefix.
	SuggestTitles(prefix string, limit int) ([]models.Playlist, error)
	// TagCounts aggregates public-playlist tags starting with prefix,
	// most used first. An empty prefix aggregates all tags.
	TagCounts(prefix string, limit int) ([]TagCount, error)
	// SongCounts returns the number of songs per playlist for the given
	// id set in one query.
	SongCounts(playlistIDs []string) (map[string]int, error)
}
