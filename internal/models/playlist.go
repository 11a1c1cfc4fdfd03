package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tags is the playlist tag list as presented to clients, stored as a JSON
// text column. Query-side tag lookups go through the normalized
// playlist_tags table instead.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type %T for Tags", value)
	}
}

// Playlist is a user-owned collection of song links.
type Playlist struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	Title        string    `json:"title" gorm:"type:varchar(100);not null"`
	Description  string    `json:"description" gorm:"type:varchar(500)"`
	Gradient     string    `json:"gradient" gorm:"type:varchar(100)"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Tags         Tags      `json:"tags" gorm:"type:text"`
	LikesCount   int       `json:"likesCount" gorm:"not null;default:0"`
	IsPublic     bool      `json:"isPublic" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// MaxPlaylistTags caps how many tags a playlist may carry.
const MaxPlaylistTags = 5

// PlaylistTag is the normalized, lowercased tag row used for tag filtering,
// prefix search and per-tag counts. Rewritten whenever a playlist's tag
// list changes.
type PlaylistTag struct {
	PlaylistID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_tag;primaryKey"`
	Name       string `gorm:"type:varchar(50);not null;uniqueIndex:idx_playlist_tag;primaryKey;index"`
}

// PlaylistLike is a membership edge: its existence means the user likes the
// playlist. Duplicate likes are rejected by the composite unique index.
type PlaylistLike struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_like_user_playlist"`
	PlaylistID string    `json:"playlistId" gorm:"type:varchar(36);not null;uniqueIndex:idx_like_user_playlist;index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// SavedPlaylist is a membership edge for a user's saved library.
type SavedPlaylist struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_save_user_playlist"`
	PlaylistID string    `json:"playlistId" gorm:"type:varchar(36);not null;uniqueIndex:idx_save_user_playlist;index"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// SavedSong mirrors SavedPlaylist for individual songs. In the schema for
// forward compatibility; no endpoints expose it yet.
type SavedSong struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_save_user_song"`
	SongID    string    `json:"songId" gorm:"type:varchar(36);not null;uniqueIndex:idx_save_user_song"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
