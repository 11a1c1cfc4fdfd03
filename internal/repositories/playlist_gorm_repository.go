package repositories

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
)

// GORMPlaylistRepository is a GORM implementation of PlaylistRepository.
type GORMPlaylistRepository struct {
	db *gorm.DB
}

// NewGORMPlaylistRepository creates a new instance of GORMPlaylistRepository.
func NewGORMPlaylistRepository(db *gorm.DB) *GORMPlaylistRepository {
	return &GORMPlaylistRepository{db: db}
}

// normalizeTags lowercases and dedupes a tag list for the playlist_tags rows.
func normalizeTags(tags models.Tags) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func replaceTagRows(tx *gorm.DB, playlistID string, tags models.Tags) error {
	if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistTag{}).Error; err != nil {
		return err
	}
	for _, name := range normalizeTags(tags) {
		if err := tx.Create(&models.PlaylistTag{PlaylistID: playlistID, Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GORMPlaylistRepository) Create(playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(playlist).Error; err != nil {
			return err
		}
		if err := replaceTagRows(tx, playlist.ID, playlist.Tags); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", playlist.UserID).
			UpdateColumn("playlist_count", gorm.Expr("playlist_count + 1")).Error
	})
	return apperrors.FromStore(err, "playlist not found", "playlist already exists")
}

func (r *GORMPlaylistRepository) GetByID(id string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.First(&playlist, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "playlist not found", "")
	}
	return &playlist, nil
}

func (r *GORMPlaylistRepository) Update(playlist *models.Playlist) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Save(playlist)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceTagRows(tx, playlist.ID, playlist.Tags)
	})
	return apperrors.FromStore(err, "playlist not found", "")
}

func (r *GORMPlaylistRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.First(&playlist, "id = ?", id).Error; err != nil {
			return err
		}

		for _, child := range []interface{}{
			&models.Song{}, &models.PlaylistLike{}, &models.SavedPlaylist{},
			&models.PlaylistTag{}, &models.Notification{},
		} {
			if err := tx.Where("playlist_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Playlist{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", playlist.UserID).
			UpdateColumn("playlist_count", gorm.Expr("playlist_count - 1")).Error
	})
	return apperrors.FromStore(err, "playlist not found", "")
}

func (r *GORMPlaylistRepository) List(opts PlaylistListOptions) ([]models.Playlist, int64, error) {
	q := r.db.Model(&models.Playlist{})

	if opts.ViewerID != "" {
		q = q.Where("is_public = ? OR user_id = ?", true, opts.ViewerID)
	} else {
		q = q.Where("is_public = ?", true)
	}
	if opts.UserID != "" {
		q = q.Where("user_id = ?", opts.UserID)
	}
	if opts.Tag != "" {
		tagSub := r.db.Model(&models.PlaylistTag{}).Select("playlist_id").
			Where("name = ?", strings.ToLower(opts.Tag))
		q = q.Where("id IN (?)", tagSub)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}

	q = q.Order(orderClause(opts.Sort))
	if opts.Limit > 0 {
		q = q.Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit)
	}

	var playlists []models.Playlist
	if err := q.Find(&playlists).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	return playlists, total, nil
}

func orderClause(sort string) string {
	if sort == SortPopular {
		return "likes_count DESC, created_at DESC"
	}
	return "created_at DESC"
}

func (r *GORMPlaylistRepository) Search(query, sort string, limit, offset int) ([]models.Playlist, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	tagSub := r.db.Model(&models.PlaylistTag{}).Select("playlist_id").Where("name LIKE ?", pattern)

	q := r.db.Model(&models.Playlist{}).
		Where("is_public = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR id IN (?)", pattern, pattern, tagSub)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}

	var playlists []models.Playlist
	err := q.Order(orderClause(sort)).Offset(offset).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	return playlists, total, nil
}

func (r *GORMPlaylistRepository) SuggestTitles(prefix string, limit int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.db.Where("is_public = ?", true).
		Where("LOWER(title) LIKE ?", strings.ToLower(prefix)+"%").
		Order("likes_count DESC, created_at DESC").Limit(limit).
		Find(&playlists).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return playlists, nil
}

func (r *GORMPlaylistRepository) TagCounts(prefix string, limit int) ([]TagCount, error) {
	q := r.db.Model(&models.PlaylistTag{}).
		Select("playlist_tags.name AS name, COUNT(*) AS playlist_count").
		Joins("JOIN playlists ON playlists.id = playlist_tags.playlist_id").
		Where("playlists.is_public = ?", true)
	if prefix != "" {
		q = q.Where("playlist_tags.name LIKE ?", strings.ToLower(prefix)+"%")
	}

	var counts []TagCount
	err := q.Group("playlist_tags.name").
		Order("playlist_count DESC, name ASC").Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	return counts, nil
}

func (r *GORMPlaylistRepository) SongCounts(playlistIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PlaylistID string
		Count      int
	}
	err := r.db.Model(&models.Song{}).
		Select("playlist_id, COUNT(*) AS count").
		Where("playlist_id IN ?", playlistIDs).
		Group("playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	for _, row := range rows {
		counts[row.PlaylistID] = row.Count
	}
	return counts, nil
}
