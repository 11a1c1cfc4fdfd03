package repositories

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mixtape/internal/logger"
	"mixtape/internal/models"
)

// Open connects to Postgres and runs migrations. TranslateError is on so
// unique-index violations surface as gorm.ErrDuplicatedKey everywhere.
func Open(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(log, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the full schema, including the follow and
// saved-song edges that have no endpoints yet.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserFollow{},
		&models.Playlist{},
		&models.PlaylistTag{},
		&models.PlaylistLike{},
		&models.SavedPlaylist{},
		&models.SavedSong{},
		&models.Song{},
		&models.Notification{},
		&models.RecentSearch{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
