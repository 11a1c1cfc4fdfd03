package repositories

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := r.db.Create(user).Error
	return apperrors.FromStore(err, "user not found", "email or username already taken")
}

func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "user not found", "")
	}
	return &user, nil
}

func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, apperrors.FromStore(err, "user not found", "")
	}
	return &user, nil
}

func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, apperrors.FromStore(err, "user not found", "")
	}
	return &user, nil
}

func (r *GORMUserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "google_id = ?", googleID).Error; err != nil {
		return nil, apperrors.FromStore(err, "user not found", "")
	}
	return &user, nil
}

func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "user not found", "email or username already taken")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (r *GORMUserRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var playlistIDs []string
		if err := tx.Model(&models.Playlist{}).Where("user_id = ?", id).Pluck("id", &playlistIDs).Error; err != nil {
			return err
		}

		if len(playlistIDs) > 0 {
			for _, child := range []interface{}{
				&models.Song{}, &models.PlaylistLike{}, &models.SavedPlaylist{},
				&models.PlaylistTag{}, &models.Notification{},
			} {
				if err := tx.Where("playlist_id IN ?", playlistIDs).Delete(child).Error; err != nil {
					return err
				}
			}
		}

		// Keep counters honest on playlists this user liked before the
		// like edges disappear below.
		likedSub := tx.Model(&models.PlaylistLike{}).Select("playlist_id").Where("user_id = ?", id)
		if err := tx.Model(&models.Playlist{}).Where("id IN (?)", likedSub).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.PlaylistLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SavedPlaylist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SavedSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.UserFollow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR actor_id = ?", id, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RecentSearch{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Playlist{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return apperrors.FromStore(err, "user not found", "")
}

func (r *GORMUserRepository) Search(query string, limit, offset int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(bio) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	return users, total, nil
}

func (r *GORMUserRepository) Discover(excludeID string, limit int) ([]models.User, error) {
	q := r.db.Model(&models.User{})
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var users []models.User
	err := q.Order("playlist_count DESC, created_at DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return users, nil
}

func (r *GORMUserRepository) SuggestUsernames(prefix string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("LOWER(username) LIKE ?", strings.ToLower(prefix)+"%").
		Order("username ASC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return users, nil
}

func (r *GORMUserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, apperrors.FromStore(err, "", "")
	}
	return count > 0, nil
}
