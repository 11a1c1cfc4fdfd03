package services

import (
	"context"

	"mixtape/internal/apperrors"
	"mixtape/internal/models"
	"mixtape/internal/platform"
	"mixtape/internal/repositories"
)

// SongInput carries a validated song create/update request.
type SongInput struct {
	Title        string
	Artist       string
	URL          string
	Platform     string // auto-detected when empty
	ThumbnailURL string
}

// SongService handles song CRUD inside playlists, keeping positions dense
// and resolving platforms and thumbnails on the way in.
type SongService struct {
	songRepo     repositories.SongRepository
	playlistRepo repositories.PlaylistRepository
	enricher     *platform.Enricher // optional richer metadata source
}

// NewSongService creates a new SongService.
func NewSongService(songRepo repositories.SongRepository, playlistRepo repositories.PlaylistRepository, enricher *platform.Enricher) *SongService {
	return &SongService{
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		enricher:     enricher,
	}
}

// List returns a playlist's songs in position order, subject to the
// playlist's visibility.
func (s *SongService) List(playlistID, viewerID string) ([]models.Song, error) {
	if _, err := s.visiblePlaylist(viewerID, playlistID); err != nil {
		return nil, err
	}
	return s.songRepo.ListByPlaylist(playlistID)
}

// Add appends a song to an owned playlist.
func (s *SongService) Add(ctx context.Context, viewerID, playlistID string, input SongInput) (*models.Song, error) {
	if _, err := s.ownedPlaylist(viewerID, playlistID); err != nil {
		return nil, err
	}

	song := s.buildSong(ctx, playlistID, input)
	if err := s.songRepo.Create(song); err != nil {
		return nil, err
	}
	return song, nil
}

// AddBatch appends several songs atomically: either every song lands or
// none does.
func (s *SongService) AddBatch(ctx context.Context, viewerID, playlistID string, inputs []SongInput) ([]models.Song, error) {
	if len(inputs) == 0 {
		return nil, apperrors.Validation("song batch is empty")
	}
	if _, err := s.ownedPlaylist(viewerID, playlistID); err != nil {
		return nil, err
	}

	songs := make([]*models.Song, len(inputs))
	for i, input := range inputs {
		songs[i] = s.buildSong(ctx, playlistID, input)
	}
	if err := s.songRepo.CreateBatch(playlistID, songs); err != nil {
		return nil, err
	}

	out := make([]models.Song, len(songs))
	for i, song := range songs {
		out[i] = *song
	}
	return out, nil
}

// Update edits a song through its parent playlist's ownership check.
func (s *SongService) Update(ctx context.Context, viewerID, songID string, input SongInput) (*models.Song, error) {
	song, err := s.songRepo.GetByID(songID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedPlaylist(viewerID, song.PlaylistID); err != nil {
		return nil, err
	}

	urlChanged := input.URL != "" && input.URL != song.URL
	if input.Title != "" {
		song.Title = input.Title
	}
	if input.Artist != "" {
		song.Artist = input.Artist
	}
	if input.URL != "" {
		song.URL = input.URL
	}
	switch {
	case input.Platform != "":
		song.Platform = input.Platform
	case urlChanged:
		song.Platform = platform.Detect(song.URL)
	}
	switch {
	case input.ThumbnailURL != "":
		song.ThumbnailURL = input.ThumbnailURL
	case urlChanged:
		song.ThumbnailURL = s.resolveThumbnail(ctx, song.URL, song.Platform)
	}

	if err := s.songRepo.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// Delete removes a song; the playlist renumbers to stay dense.
func (s *SongService) Delete(viewerID, songID string) error {
	song, err := s.songRepo.GetByID(songID)
	if err != nil {
		return err
	}
	if _, err := s.ownedPlaylist(viewerID, song.PlaylistID); err != nil {
		return err
	}
	return s.songRepo.Delete(songID)
}

// Reorder applies a full position permutation to an owned playlist.
func (s *SongService) Reorder(viewerID, playlistID string, updates []repositories.PositionUpdate) ([]models.Song, error) {
	if _, err := s.ownedPlaylist(viewerID, playlistID); err != nil {
		return nil, err
	}

	count, err := s.songRepo.CountByPlaylist(playlistID)
	if err != nil {
		return nil, err
	}
	if int64(len(updates)) != count {
		return nil, apperrors.Validation("reorder must cover every song in the playlist")
	}
	seenIDs := make(map[string]bool, len(updates))
	seenPositions := make(map[int]bool, len(updates))
	for _, update := range updates {
		if update.Position < 1 || update.Position > len(updates) {
			return nil, apperrors.Validation("positions must form the sequence 1..N")
		}
		if seenIDs[update.ID] || seenPositions[update.Position] {
			return nil, apperrors.Validation("duplicate song or position in reorder")
		}
		seenIDs[update.ID] = true
		seenPositions[update.Position] = true
	}

	if err := s.songRepo.Reorder(playlistID, updates); err != nil {
		return nil, err
	}
	return s.songRepo.ListByPlaylist(playlistID)
}

func (s *SongService) buildSong(ctx context.Context, playlistID string, input SongInput) *models.Song {
	plat := input.Platform
	if plat == "" {
		plat = platform.Detect(input.URL)
	}
	thumbnail := input.ThumbnailURL
	if thumbnail == "" {
		thumbnail = s.resolveThumbnail(ctx, input.URL, plat)
	}
	return &models.Song{
		PlaylistID:   playlistID,
		Title:        input.Title,
		Artist:       input.Artist,
		URL:          input.URL,
		Platform:     plat,
		ThumbnailURL: thumbnail,
	}
}

// resolveThumbnail prefers the deterministic YouTube thumbnail and falls
// back to best-effort enrichment. Missing thumbnails are fine.
func (s *SongService) resolveThumbnail(ctx context.Context, url, plat string) string {
	if thumb := platform.Thumbnail(url, plat); thumb != "" {
		return thumb
	}
	if s.enricher != nil {
		if meta := s.enricher.Enrich(ctx, url, plat); meta != nil {
			return meta.ThumbnailURL
		}
	}
	return ""
}

func (s *SongService) visiblePlaylist(viewerID, playlistID string) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(playlistID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(playlist, viewerID) {
		return nil, apperrors.NotFound("playlist not found")
	}
	return playlist, nil
}

func (s *SongService) ownedPlaylist(viewerID, playlistID string) (*models.Playlist, error) {
	playlist, err := s.visiblePlaylist(viewerID, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != viewerID {
		return nil, apperrors.Forbidden("you do not own this playlist")
	}
	return playlist, nil
}
