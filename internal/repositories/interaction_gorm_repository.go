package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
)

// GORMInteractionRepository is a GORM implementation of InteractionRepository.
type GORMInteractionRepository struct {
	db *gorm.DB
}

// NewGORMInteractionRepository creates a new instance of GORMInteractionRepository.
func NewGORMInteractionRepository(db *gorm.DB) *GORMInteractionRepository {
	return &GORMInteractionRepository{db: db}
}

func (r *GORMInteractionRepository) CreateLike(userID, playlistID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		like := models.PlaylistLike{
			ID:         uuid.New().String(),
			UserID:     userID,
			PlaylistID: playlistID,
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Playlist{}).Where("id = ?", playlistID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	return apperrors.FromStore(err, "playlist not found", "playlist already liked")
}

func (r *GORMInteractionRepository) DeleteLike(userID, playlistID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND playlist_id = ?", userID, playlistID).
			Delete(&models.PlaylistLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Playlist{}).Where("id = ?", playlistID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return apperrors.FromStore(err, "like not found", "")
}

func (r *GORMInteractionRepository) LikedSet(userID string, playlistIDs []string) (map[string]bool, error) {
	return r.existsSet(&models.PlaylistLike{}, userID, playlistIDs)
}

func (r *GORMInteractionRepository) CreateSave(userID, playlistID string) error {
	save := models.SavedPlaylist{
		ID:         uuid.New().String(),
		UserID:     userID,
		PlaylistID: playlistID,
	}
	err := r.db.Create(&save).Error
	return apperrors.FromStore(err, "playlist not found", "playlist already saved")
}

func (r *GORMInteractionRepository) DeleteSave(userID, playlistID string) error {
	res := r.db.Where("user_id = ? AND playlist_id = ?", userID, playlistID).
		Delete(&models.SavedPlaylist{})
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "", "")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("save not found")
	}
	return nil
}

func (r *GORMInteractionRepository) SavedSet(userID string, playlistIDs []string) (map[string]bool, error) {
	return r.existsSet(&models.SavedPlaylist{}, userID, playlistIDs)
}

func (r *GORMInteractionRepository) existsSet(model interface{}, userID string, playlistIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(playlistIDs))
	if userID == "" || len(playlistIDs) == 0 {
		return set, nil
	}

	var ids []string
	err := r.db.Model(model).
		Where("user_id = ? AND playlist_id IN ?", userID, playlistIDs).
		Pluck("playlist_id", &ids).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *GORMInteractionRepository) ListSaved(userID string, page, limit int) ([]models.Playlist, int64, error) {
	base := r.db.Model(&models.SavedPlaylist{}).Where("saved_playlists.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}

	var playlists []models.Playlist
	err := r.db.Model(&models.Playlist{}).
		Joins("JOIN saved_playlists ON saved_playlists.playlist_id = playlists.id").
		Where("saved_playlists.user_id = ?", userID).
		Order("saved_playlists.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&playlists).Error
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	return playlists, total, nil
}
