package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mixtape/internal/apperrors"
	"mixtape/internal/cache"
	"mixtape/internal/logger"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
)

// Search types accepted by the universal endpoint.
const (
	SearchTypeAll       = "all"
	SearchTypeUsers     = "users"
	SearchTypePlaylists = "playlists"
	SearchTypeTags      = "tags"
)

const (
	// MaxSearchLimit caps universal search result pages.
	MaxSearchLimit     = 20
	defaultSearchLimit = 10
	searchCacheTTL     = 5 * time.Minute
	suggestionLimit    = 3
	trendingTagLimit   = 10
)

// SearchResults is the universal search response body. Only the sections
// matching the requested type are populated.
type SearchResults struct {
	Users     []models.User           `json:"users,omitempty"`
	Playlists []PlaylistView          `json:"playlists,omitempty"`
	Tags      []repositories.TagCount `json:"tags,omitempty"`
}

// Suggestion is one typeahead entry, tagged with its kind.
type Suggestion struct {
	Kind          string `json:"kind"` // "user", "playlist" or "tag"
	Value         string `json:"value"`
	PlaylistCount int64  `json:"playlistCount,omitempty"`
}

// SearchService answers search and discovery queries, memoizing result
// pages in a short-lived cache. Cached pages may briefly serve another
// viewer's personalization flags; the 5-minute TTL bounds that staleness.
type SearchService struct {
	userRepo        repositories.UserRepository
	playlistRepo    repositories.PlaylistRepository
	interactionRepo repositories.InteractionRepository
	historyRepo     repositories.SearchHistoryRepository
	cache           cache.Cache
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	userRepo repositories.UserRepository,
	playlistRepo repositories.PlaylistRepository,
	interactionRepo repositories.InteractionRepository,
	historyRepo repositories.SearchHistoryRepository,
	resultCache cache.Cache,
) *SearchService {
	return &SearchService{
		userRepo:        userRepo,
		playlistRepo:    playlistRepo,
		interactionRepo: interactionRepo,
		historyRepo:     historyRepo,
		cache:           resultCache,
	}
}

// Universal runs a search across the requested entity types. A cache hit
// short-circuits the whole fan-out.
func (s *SearchService) Universal(ctx context.Context, viewerID, query, searchType, sort string, limit, offset int) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, apperrors.Validation("search query must be at least 2 characters")
	}
	if searchType == "" {
		searchType = SearchTypeAll
	}
	switch searchType {
	case SearchTypeAll, SearchTypeUsers, SearchTypePlaylists, SearchTypeTags:
	default:
		return nil, apperrors.Validation("unknown search type: " + searchType)
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	if viewerID != "" {
		if err := s.historyRepo.Record(viewerID, query, searchType); err != nil {
			logger.Warn("failed to record search history", "user", viewerID, "error", err)
		}
	}

	key := searchCacheKey(searchType, query, sort, limit, offset)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var results SearchResults
		if err := json.Unmarshal([]byte(cached), &results); err == nil {
			return &results, nil
		}
	}

	results := &SearchResults{}
	var err error
	if searchType == SearchTypeAll || searchType == SearchTypeUsers {
		results.Users, _, err = s.userRepo.Search(query, limit, offset)
		if err != nil {
			return nil, err
		}
	}
	if searchType == SearchTypeAll || searchType == SearchTypePlaylists {
		playlists, _, err := s.playlistRepo.Search(query, sortOrDefault(sort), limit, offset)
		if err != nil {
			return nil, err
		}
		results.Playlists, err = decoratePlaylists(s.playlistRepo, s.interactionRepo, viewerID, playlists)
		if err != nil {
			return nil, err
		}
	}
	if searchType == SearchTypeAll || searchType == SearchTypeTags {
		results.Tags, err = s.tagMatches(query, limit)
		if err != nil {
			return nil, err
		}
	}

	if encoded, err := json.Marshal(results); err == nil {
		s.cache.Set(ctx, key, string(encoded), searchCacheTTL)
	}
	return results, nil
}

func searchCacheKey(searchType, query, sort string, limit, offset int) string {
	key := fmt.Sprintf("search:%s:%s:%d:%d", searchType, strings.ToLower(query), limit, offset)
	if sort != "" {
		key += ":" + sort
	}
	return key
}

// sortOrDefault maps the client sort to a listing order; "relevant" and
// anything unknown fall back to newest first.
func sortOrDefault(sort string) string {
	switch sort {
	case repositories.SortRecent, repositories.SortPopular:
		return sort
	default:
		return repositories.SortRecent
	}
}

// tagMatches aggregates prefix-matching tags into (name, playlistCount)
// pairs, most used first.
func (s *SearchService) tagMatches(query string, limit int) ([]repositories.TagCount, error) {
	return s.playlistRepo.TagCounts(query, limit)
}

// Suggestions returns up to three username, title and tag prefix matches
// for the typeahead.
func (s *SearchService) Suggestions(query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validation("search query is required")
	}

	users, err := s.userRepo.SuggestUsernames(query, suggestionLimit)
	if err != nil {
		return nil, err
	}
	playlists, err := s.playlistRepo.SuggestTitles(query, suggestionLimit)
	if err != nil {
		return nil, err
	}
	tags, err := s.playlistRepo.TagCounts(query, suggestionLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, 3*suggestionLimit)
	for _, user := range users {
		suggestions = append(suggestions, Suggestion{Kind: "user", Value: user.Username})
	}
	for _, playlist := range playlists {
		suggestions = append(suggestions, Suggestion{Kind: "playlist", Value: playlist.Title})
	}
	for _, tag := range tags {
		suggestions = append(suggestions, Suggestion{Kind: "tag", Value: tag.Name, PlaylistCount: tag.PlaylistCount})
	}
	return suggestions, nil
}

// Trending returns the most used public tags.
func (s *SearchService) Trending() ([]repositories.TagCount, error) {
	return s.playlistRepo.TagCounts("", trendingTagLimit)
}

// Recent lists the viewer's search history, newest first.
func (s *SearchService) Recent(viewerID string) ([]models.RecentSearch, error) {
	return s.historyRepo.List(viewerID)
}

// ClearRecent wipes the viewer's search history.
func (s *SearchService) ClearRecent(viewerID string) error {
	return s.historyRepo.Clear(viewerID)
}

// DeleteRecent removes one history entry owned by the viewer.
func (s *SearchService) DeleteRecent(id, viewerID string) error {
	return s.historyRepo.Delete(id, viewerID)
}
