package services

import (
	"mime/multipart"

	"mixtape/internal/apperrors"
	"mixtape/internal/logger"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/storage"
)

// DefaultListLimit and MaxListLimit bound playlist and user listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 50
)

// CreatePlaylistInput carries a validated create request.
type CreatePlaylistInput struct {
	Title       string
	Description string
	Gradient    string
	Tags        []string
	IsPublic    *bool // nil defaults to public
}

// UpdatePlaylistInput carries a validated update request; nil fields are
// left untouched.
type UpdatePlaylistInput struct {
	Title       *string
	Description *string
	Gradient    *string
	Tags        *[]string
	IsPublic    *bool
}

// PlaylistService handles playlist CRUD, visibility, interactions and
// listing decoration.
type PlaylistService struct {
	playlistRepo    repositories.PlaylistRepository
	songRepo        repositories.SongRepository
	interactionRepo repositories.InteractionRepository
	notifications   *NotificationService
	store           storage.Storage
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(
	playlistRepo repositories.PlaylistRepository,
	songRepo repositories.SongRepository,
	interactionRepo repositories.InteractionRepository,
	notifications *NotificationService,
	store storage.Storage,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo:    playlistRepo,
		songRepo:        songRepo,
		interactionRepo: interactionRepo,
		notifications:   notifications,
		store:           store,
	}
}

// Create makes a new playlist owned by ownerID.
func (s *PlaylistService) Create(ownerID string, input CreatePlaylistInput) (*PlaylistView, error) {
	if len(input.Tags) > models.MaxPlaylistTags {
		return nil, apperrors.Validation("a playlist can carry at most 5 tags")
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}
	playlist := &models.Playlist{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Gradient:    input.Gradient,
		Tags:        models.Tags(input.Tags),
		IsPublic:    isPublic,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}
	return &PlaylistView{Playlist: *playlist}, nil
}

// Get returns one playlist with its songs. Private playlists are
// not-found for everyone but their owner.
func (s *PlaylistService) Get(id, viewerID string) (*PlaylistDetail, error) {
	playlist, err := s.playlistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(playlist, viewerID) {
		return nil, apperrors.NotFound("playlist not found")
	}

	views, err := decoratePlaylists(s.playlistRepo, s.interactionRepo, viewerID, []models.Playlist{*playlist})
	if err != nil {
		return nil, err
	}
	songs, err := s.songRepo.ListByPlaylist(id)
	if err != nil {
		return nil, err
	}
	return &PlaylistDetail{PlaylistView: views[0], Songs: songs}, nil
}

// List pages playlists with the shared decoration.
func (s *PlaylistService) List(opts repositories.PlaylistListOptions) ([]PlaylistView, Pagination, error) {
	opts.Page, opts.Limit = ClampPage(opts.Page, opts.Limit, DefaultListLimit, MaxListLimit)

	playlists, total, err := s.playlistRepo.List(opts)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := decoratePlaylists(s.playlistRepo, s.interactionRepo, opts.ViewerID, playlists)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, NewPagination(opts.Page, opts.Limit, total), nil
}

// Update applies an owner's changes.
func (s *PlaylistService) Update(viewerID, id string, input UpdatePlaylistInput) (*PlaylistView, error) {
	playlist, err := s.ownedPlaylist(viewerID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		playlist.Title = *input.Title
	}
	if input.Description != nil {
		playlist.Description = *input.Description
	}
	if input.Gradient != nil {
		playlist.Gradient = *input.Gradient
	}
	if input.Tags != nil {
		if len(*input.Tags) > models.MaxPlaylistTags {
			return nil, apperrors.Validation("a playlist can carry at most 5 tags")
		}
		playlist.Tags = models.Tags(*input.Tags)
	}
	if input.IsPublic != nil {
		playlist.IsPublic = *input.IsPublic
	}

	if err := s.playlistRepo.Update(playlist); err != nil {
		return nil, err
	}
	views, err := decoratePlaylists(s.playlistRepo, s.interactionRepo, viewerID, []models.Playlist{*playlist})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes an owned playlist with its cascade.
func (s *PlaylistService) Delete(viewerID, id string) error {
	playlist, err := s.ownedPlaylist(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(id); err != nil {
		return err
	}
	if playlist.ThumbnailURL != "" && s.store != nil {
		if err := s.store.Remove(playlist.ThumbnailURL); err != nil {
			logger.Warn("failed to remove playlist thumbnail", "playlist", id, "error", err)
		}
	}
	return nil
}

// Like records a like edge and notifies the owner. Liking twice is a
// Conflict.
func (s *PlaylistService) Like(viewerID, id string) error {
	playlist, err := s.visiblePlaylist(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.interactionRepo.CreateLike(viewerID, id); err != nil {
		return err
	}
	s.notifications.Notify(playlist.UserID, models.NotificationPlaylistLike, viewerID, id)
	return nil
}

// Unlike removes a like edge; unliking a never-liked playlist is NotFound.
func (s *PlaylistService) Unlike(viewerID, id string) error {
	playlist, err := s.visiblePlaylist(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.interactionRepo.DeleteLike(viewerID, id); err != nil {
		return err
	}
	s.notifications.Retract(playlist.UserID, models.NotificationPlaylistLike, viewerID, id)
	return nil
}

// Save records a save edge and notifies the owner.
func (s *PlaylistService) Save(viewerID, id string) error {
	playlist, err := s.visiblePlaylist(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.interactionRepo.CreateSave(viewerID, id); err != nil {
		return err
	}
	s.notifications.Notify(playlist.UserID, models.NotificationPlaylistSave, viewerID, id)
	return nil
}

// Unsave removes a save edge.
func (s *PlaylistService) Unsave(viewerID, id string) error {
	playlist, err := s.visiblePlaylist(viewerID, id)
	if err != nil {
		return err
	}
	if err := s.interactionRepo.DeleteSave(viewerID, id); err != nil {
		return err
	}
	s.notifications.Retract(playlist.UserID, models.NotificationPlaylistSave, viewerID, id)
	return nil
}

// Saved pages the viewer's saved playlists.
func (s *PlaylistService) Saved(viewerID string, page, limit int) ([]PlaylistView, Pagination, error) {
	page, limit = ClampPage(page, limit, DefaultListLimit, MaxListLimit)
	playlists, total, err := s.interactionRepo.ListSaved(viewerID, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	views, err := decoratePlaylists(s.playlistRepo, s.interactionRepo, viewerID, playlists)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, NewPagination(page, limit, total), nil
}

// UploadThumbnail stores a new cover image for an owned playlist.
func (s *PlaylistService) UploadThumbnail(viewerID, id string, file *multipart.FileHeader) (*models.Playlist, error) {
	playlist, err := s.ownedPlaylist(viewerID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Save("thumbnails", file)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	old := playlist.ThumbnailURL
	playlist.ThumbnailURL = url
	if err := s.playlistRepo.Update(playlist); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.store.Remove(old); err != nil {
			logger.Warn("failed to remove old thumbnail", "playlist", id, "error", err)
		}
	}
	return playlist, nil
}

// DeleteThumbnail clears an owned playlist's cover image.
func (s *PlaylistService) DeleteThumbnail(viewerID, id string) (*models.Playlist, error) {
	playlist, err := s.ownedPlaylist(viewerID, id)
	if err != nil {
		return nil, err
	}
	old := playlist.ThumbnailURL
	playlist.ThumbnailURL = ""
	if err := s.playlistRepo.Update(playlist); err != nil {
		return nil, err
	}
	if old != "" && s.store != nil {
		if err := s.store.Remove(old); err != nil {
			logger.Warn("failed to remove thumbnail", "playlist", id, "error", err)
		}
	}
	return playlist, nil
}

// visiblePlaylist loads a playlist subject to the visibility rule.
func (s *PlaylistService) visiblePlaylist(viewerID, id string) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(playlist, viewerID) {
		return nil, apperrors.NotFound("playlist not found")
	}
	return playlist, nil
}

// ownedPlaylist loads a playlist and enforces ownership for mutation.
// Private playlists stay indistinguishable from missing ones for
// non-owners.
func (s *PlaylistService) ownedPlaylist(viewerID, id string) (*models.Playlist, error) {
	playlist, err := s.visiblePlaylist(viewerID, id)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != viewerID {
		return nil, apperrors.Forbidden("you do not own this playlist")
	}
	return playlist, nil
}
