package repositories

import (
	"time"

	"mixtape/internal/models"
)

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	// Create inserts the notification; a duplicate of the
	// (recipient, type, actor, playlist) key surfaces as Conflict.
	Create(notification *models.Notification) error
	// DeleteByKey removes the notification matching the uniqueness key,
	// if any.
	DeleteByKey(userID, notifType, actorID, playlistID string) error
	List(userID string, page, limit int, unreadOnly bool) ([]models.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	MarkAllRead(userID string) error
	// Delete removes one of the user's own notifications.
	Delete(id, userID string) error
	// SweepExpired deletes every notification created before the cutoff.
	// Idempotent; returns how many rows were removed.
	SweepExpired(before time.Time) (int64, error)
}

// SearchHistoryRepository records per-user recent searches.
type SearchHistoryRepository interface {
	// Record stores a search, replacing any identical earlier entry and
	// trimming the history to its cap.
	Record(userID, query, searchType string) error
	List(userID string) ([]models.RecentSearch, error)
	Clear(userID string) error
	Delete(id, userID string) error
}
