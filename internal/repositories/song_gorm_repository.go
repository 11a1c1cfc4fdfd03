package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
)

// GORMSongRepository is a GORM implementation of SongRepository.
type GORMSongRepository struct {
	db *gorm.DB
}

// NewGORMSongRepository creates a new instance of GORMSongRepository.
func NewGORMSongRepository(db *gorm.DB) *GORMSongRepository {
	return &GORMSongRepository{db: db}
}

func (r *GORMSongRepository) GetByID(id string) (*models.Song, error) {
	var song models.Song
	if err := r.db.First(&song, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "song not found", "")
	}
	return &song, nil
}

func (r *GORMSongRepository) ListByPlaylist(playlistID string) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Where("playlist_id = ?", playlistID).Order("position ASC").Find(&songs).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return songs, nil
}

func (r *GORMSongRepository) CountByPlaylist(playlistID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Song{}).Where("playlist_id = ?", playlistID).Count(&count).Error
	if err != nil {
		return 0, apperrors.FromStore(err, "", "")
	}
	return count, nil
}

func (r *GORMSongRepository) Create(song *models.Song) error {
	if song.ID == "" {
		song.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Song{}).Where("playlist_id = ?", song.PlaylistID).Count(&count).Error; err != nil {
			return err
		}
		song.Position = int(count) + 1
		return tx.Create(song).Error
	})
	return apperrors.FromStore(err, "playlist not found", "song already exists")
}

func (r *GORMSongRepository) CreateBatch(playlistID string, songs []*models.Song) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Song{}).Where("playlist_id = ?", playlistID).Count(&count).Error; err != nil {
			return err
		}
		position := int(count)
		for _, song := range songs {
			if song.ID == "" {
				song.ID = uuid.New().String()
			}
			position++
			song.PlaylistID = playlistID
			song.Position = position
			if err := tx.Create(song).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return apperrors.FromStore(err, "playlist not found", "song already exists")
}

func (r *GORMSongRepository) Update(song *models.Song) error {
	res := r.db.Save(song)
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "song not found", "")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("song not found")
	}
	return nil
}

func (r *GORMSongRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var song models.Song
		if err := tx.First(&song, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Song{}, "id = ?", id).Error; err != nil {
			return err
		}
		// Close the gap so positions stay dense.
		return tx.Model(&models.Song{}).
			Where("playlist_id = ? AND position > ?", song.PlaylistID, song.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	return apperrors.FromStore(err, "song not found", "")
}

func (r *GORMSongRepository) Reorder(playlistID string, updates []PositionUpdate) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			res := tx.Model(&models.Song{}).
				Where("id = ? AND playlist_id = ?", update.ID, playlistID).
				UpdateColumn("position", update.Position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	return apperrors.FromStore(err, "song not found in playlist", "")
}
