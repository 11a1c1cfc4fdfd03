package services

import (
	"mixtape/internal/models"
	"mixtape/internal/repositories"
)

// Pagination is the shared paging metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination fills in the derived total-page count.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// ClampPage normalizes a page/limit pair against a maximum limit.
func ClampPage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// PlaylistView is a playlist plus the derived fields every listing carries.
// IsLiked and IsSaved are always false for anonymous viewers.
type PlaylistView struct {
	models.Playlist
	SongCount int  `json:"songCount"`
	IsLiked   bool `json:"isLiked"`
	IsSaved   bool `json:"isSaved"`
}

// PlaylistDetail is a single playlist with its songs in position order.
type PlaylistDetail struct {
	PlaylistView
	Songs []models.Song `json:"songs"`
}

// decoratePlaylists attaches song counts and per-viewer like/save flags to
// a page of playlists using one batched query per concern.
func decoratePlaylists(
	playlistRepo repositories.PlaylistRepository,
	interactionRepo repositories.InteractionRepository,
	viewerID string,
	playlists []models.Playlist,
) ([]PlaylistView, error) {
	ids := make([]string, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID
	}

	songCounts, err := playlistRepo.SongCounts(ids)
	if err != nil {
		return nil, err
	}
	likedSet, err := interactionRepo.LikedSet(viewerID, ids)
	if err != nil {
		return nil, err
	}
	savedSet, err := interactionRepo.SavedSet(viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PlaylistView, len(playlists))
	for i, p := range playlists {
		views[i] = PlaylistView{
			Playlist:  p,
			SongCount: songCounts[p.ID],
			IsLiked:   likedSet[p.ID],
			IsSaved:   savedSet[p.ID],
		}
	}
	return views, nil
}

// visibleTo implements the visibility rule: a private playlist exists only
// for its owner.
func visibleTo(p *models.Playlist, viewerID string) bool {
	return p.IsPublic || p.UserID == viewerID
}
