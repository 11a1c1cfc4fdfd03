package models

import "time"

// Notification types.
const (
	NotificationPlaylistLike = "playlist_like"
	NotificationPlaylistSave = "playlist_save"
)

// NotificationTTL is how long a notification lives before the sweep
// removes it.
const NotificationTTL = 5 * 24 * time.Hour

// Notification records that an actor liked or saved one of the recipient's
// playlists. The composite unique index suppresses duplicate spam for the
// same (recipient, type, actor, playlist) event.
type Notification struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_notification_key;index"`
	Type       string    `json:"type" gorm:"type:varchar(50);not null;uniqueIndex:idx_notification_key"`
	ActorID    string    `json:"actorId" gorm:"type:varchar(36);not null;uniqueIndex:idx_notification_key"`
	PlaylistID string    `json:"playlistId" gorm:"type:varchar(36);not null;uniqueIndex:idx_notification_key"`
	Read       bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

// RecentSearch is a per-user search history row, recorded when an
// authenticated viewer runs a universal search.
type RecentSearch struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	Query     string    `json:"query" gorm:"type:varchar(200);not null"`
	Type      string    `json:"type" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
