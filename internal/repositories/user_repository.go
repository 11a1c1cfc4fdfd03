package repositories

import "mixtape/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user and cascades to owned playlists (with their
	// songs, likes, saves and tags), the user's own likes/saves, follow
	// edges, notifications and search history, keeping like counters
	// consistent.
	Delete(id string) error
	// Search lists users whose username or bio contains the query,
	// case-insensitively. Empty query lists all users.
	Search(query string, limit, offset int) ([]models.User, int64, error)
	// Discover lists users other than excludeID, most prolific first.
	Discover(excludeID string, limit int) ([]models.User, error)
	// SuggestUsernames lists usernames starting with prefix,
	// case-insensitively.
	SuggestUsernames(prefix string, limit int) ([]models.User, error)
	UsernameExists(username string) (bool, error)
}
