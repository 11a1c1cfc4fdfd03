package models

import "time"

// Song is an external track link inside a playlist. Positions within a
// playlist are a dense 1-based sequence; deletion renumbers the remainder.
type Song struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlaylistID   string    `json:"playlistId" gorm:"type:varchar(36);not null;index:idx_song_playlist_position"`
	Title        string    `json:"title" gorm:"type:varchar(200);not null"`
	Artist       string    `json:"artist" gorm:"type:varchar(200)"`
	URL          string    `json:"url" gorm:"not null"`
	Platform     string    `json:"platform" gorm:"type:varchar(50)"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Position     int       `json:"position" gorm:"not null;index:idx_song_playlist_position"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
