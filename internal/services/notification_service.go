package services

import (
	"time"

	"mixtape/internal/apperrors"
	"mixtape/internal/logger"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/pkg/events"
)

// NotificationService creates and serves engagement notifications.
// Creation and retraction are side effects of likes and saves and must
// never fail the primary operation.
type NotificationService struct {
	repo      repositories.NotificationRepository
	publisher *events.Client // optional; nil disables event publishing
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, publisher *events.Client) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher}
}

// Notify records that actor performed notifType on the recipient's
// playlist. Self-actions are silently skipped, duplicates are treated as
// success, and any other failure is logged, never surfaced.
func (s *NotificationService) Notify(recipientID, notifType, actorID, playlistID string) {
	if recipientID == actorID {
		return
	}

	notification := &models.Notification{
		UserID:     recipientID,
		Type:       notifType,
		ActorID:    actorID,
		PlaylistID: playlistID,
	}
	err := s.repo.Create(notification)
	if apperrors.IsKind(err, apperrors.KindConflict) {
		return
	}
	if err != nil {
		logger.Error("failed to create notification", "type", notifType, "recipient", recipientID, "error", err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.Publish("notification.created", map[string]interface{}{
			"recipientId": recipientID,
			"type":        notifType,
			"actorId":     actorID,
			"playlistId":  playlistID,
		}); err != nil {
			logger.Warn("failed to publish notification event", "type", notifType, "error", err)
		}
	}
}

// Retract best-effort deletes the notification for an undone action.
func (s *NotificationService) Retract(recipientID, notifType, actorID, playlistID string) {
	if recipientID == actorID {
		return
	}
	if err := s.repo.DeleteByKey(recipientID, notifType, actorID, playlistID); err != nil {
		logger.Warn("failed to retract notification", "type", notifType, "recipient", recipientID, "error", err)
	}
}

// List pages the user's notifications, sweeping expired rows first.
func (s *NotificationService) List(userID string, page, limit int, unreadOnly bool) ([]models.Notification, Pagination, error) {
	page, limit = ClampPage(page, limit, DefaultListLimit, MaxListLimit)

	if _, err := s.SweepExpired(time.Now()); err != nil {
		logger.Warn("notification sweep failed", "error", err)
	}

	notifications, total, err := s.repo.List(userID, page, limit, unreadOnly)
	if err != nil {
		return nil, Pagination{}, err
	}
	return notifications, NewPagination(page, limit, total), nil
}

// SweepExpired removes notifications older than the retention window as of
// now. Idempotent.
func (s *NotificationService) SweepExpired(now time.Time) (int64, error) {
	return s.repo.SweepExpired(now.Add(-models.NotificationTTL))
}

// UnreadCount returns how many unread notifications the user has.
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	return s.repo.UnreadCount(userID)
}

// MarkAllRead flags every notification of the user as read.
func (s *NotificationService) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}

// Delete removes one of the user's own notifications.
func (s *NotificationService) Delete(id, userID string) error {
	return s.repo.Delete(id, userID)
}
