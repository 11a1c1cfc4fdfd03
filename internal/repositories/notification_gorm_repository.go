package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	err := r.db.Create(notification).Error
	return apperrors.FromStore(err, "notification not found", "notification already exists")
}

func (r *GORMNotificationRepository) DeleteByKey(userID, notifType, actorID, playlistID string) error {
	err := r.db.Where(
		"user_id = ? AND type = ? AND actor_id = ? AND playlist_id = ?",
		userID, notifType, actorID, playlistID,
	).Delete(&models.Notification{}).Error
	return apperrors.FromStore(err, "", "")
}

func (r *GORMNotificationRepository) List(userID string, page, limit int, unreadOnly bool) ([]models.Notification, int64, error) {
	q := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}

	var notifications []models.Notification
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	return notifications, total, nil
}

func (r *GORMNotificationRepository) UnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.FromStore(err, "", "")
	}
	return count, nil
}

func (r *GORMNotificationRepository) MarkAllRead(userID string) error {
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		UpdateColumn("read", true).Error
	return apperrors.FromStore(err, "", "")
}

func (r *GORMNotificationRepository) Delete(id, userID string) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("notification not found")
	}
	return nil
}

func (r *GORMNotificationRepository) SweepExpired(before time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", before).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, apperrors.FromStore(res.Error, "", "")
	}
	return res.RowsAffected, nil
}

// maxRecentSearches caps per-user search history.
const maxRecentSearches = 10

// GORMSearchHistoryRepository is a GORM implementation of SearchHistoryRepository.
type GORMSearchHistoryRepository struct {
	db *gorm.DB
}

// NewGORMSearchHistoryRepository creates a new instance of GORMSearchHistoryRepository.
func NewGORMSearchHistoryRepository(db *gorm.DB) *GORMSearchHistoryRepository {
	return &GORMSearchHistoryRepository{db: db}
}

func (r *GORMSearchHistoryRepository) Record(userID, query, searchType string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND query = ? AND type = ?", userID, query, searchType).
			Delete(&models.RecentSearch{}).Error; err != nil {
			return err
		}
		entry := models.RecentSearch{
			ID:     uuid.New().String(),
			UserID: userID,
			Query:  query,
			Type:   searchType,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Trim the tail beyond the history cap.
		var stale []string
		err := tx.Model(&models.RecentSearch{}).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Offset(maxRecentSearches).
			Pluck("id", &stale).Error
		if err != nil {
			return err
		}
		if len(stale) > 0 {
			return tx.Where("id IN ?", stale).Delete(&models.RecentSearch{}).Error
		}
		return nil
	})
	return apperrors.FromStore(err, "", "")
}

func (r *GORMSearchHistoryRepository) List(userID string) ([]models.RecentSearch, error) {
	var searches []models.RecentSearch
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(maxRecentSearches).
		Find(&searches).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return searches, nil
}

func (r *GORMSearchHistoryRepository) Clear(userID string) error {
	err := r.db.Where("user_id = ?", userID).Delete(&models.RecentSearch{}).Error
	return apperrors.FromStore(err, "", "")
}

func (r *GORMSearchHistoryRepository) Delete(id, userID string) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.RecentSearch{})
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("search entry not found")
	}
	return nil
}
