package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mixtape/internal/apperrors"
	"mixtape/internal/cache"
	"mixtape/internal/models"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
)

// MockPlaylistRepository is a mock implementation of
// repositories.PlaylistRepository.
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) Create(playlist *models.Playlist) error {
	args := m.Called(playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) GetByID(id string) (*models.Playlist, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) Update(playlist *models.Playlist) error {
	args := m.Called(playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPlaylistRepository) List(opts repositories.PlaylistListOptions) ([]models.Playlist, int64, error) {
	args := m.Called(opts)
	return args.Get(0).([]models.Playlist), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlaylistRepository) Search(query, sort string, limit, offset int) ([]models.Playlist, int64, error) {
	args := m.Called(query, sort, limit, offset)
	return args.Get(0).([]models.Playlist), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlaylistRepository) SuggestTitles(prefix string, limit int) ([]models.Playlist, error) {
	args := m.Called(prefix, limit)
	return args.Get(0).([]models.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) TagCounts(prefix string, limit int) ([]repositories.TagCount, error) {
	args := m.Called(prefix, limit)
	return args.Get(0).([]repositories.TagCount), args.Error(1)
}

func (m *MockPlaylistRepository) SongCounts(playlistIDs []string) (map[string]int, error) {
	args := m.Called(playlistIDs)
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockInteractionRepository is a mock implementation of
// repositories.InteractionRepository.
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) CreateLike(userID, playlistID string) error {
	args := m.Called(userID, playlistID)
	return args.Error(0)
}

func (m *MockInteractionRepository) DeleteLike(userID, playlistID string) error {
	args := m.Called(userID, playlistID)
	return args.Error(0)
}

func (m *MockInteractionRepository) LikedSet(userID string, playlistIDs []string) (map[string]bool, error) {
	args := m.Called(userID, playlistIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockInteractionRepository) CreateSave(userID, playlistID string) error {
	args := m.Called(userID, playlistID)
	return args.Error(0)
}

func (m *MockInteractionRepository) DeleteSave(userID, playlistID string) error {
	args := m.Called(userID, playlistID)
	return args.Error(0)
}

func (m *MockInteractionRepository) SavedSet(userID string, playlistIDs []string) (map[string]bool, error) {
	args := m.Called(userID, playlistIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockInteractionRepository) ListSaved(userID string, page, limit int) ([]models.Playlist, int64, error) {
	args := m.Called(userID, page, limit)
	return args.Get(0).([]models.Playlist), args.Get(1).(int64), args.Error(2)
}

// MockSearchHistoryRepository is a mock implementation of
// repositories.SearchHistoryRepository.
type MockSearchHistoryRepository struct {
	mock.Mock
}

func (m *MockSearchHistoryRepository) Record(userID, query, searchType string) error {
	args := m.Called(userID, query, searchType)
	return args.Error(0)
}

func (m *MockSearchHistoryRepository) List(userID string) ([]models.RecentSearch, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.RecentSearch), args.Error(1)
}

func (m *MockSearchHistoryRepository) Clear(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockSearchHistoryRepository) Delete(id, userID string) error {
	args := m.Called(id, userID)
	return args.Error(0)
}

func newSearchFixture() (*services.SearchService, *MockUserRepository, *MockPlaylistRepository, *MockInteractionRepository, *MockSearchHistoryRepository) {
	userRepo := new(MockUserRepository)
	playlistRepo := new(MockPlaylistRepository)
	interactionRepo := new(MockInteractionRepository)
	historyRepo := new(MockSearchHistoryRepository)
	svc := services.NewSearchService(userRepo, playlistRepo, interactionRepo, historyRepo, cache.NewMemoryCache())
	return svc, userRepo, playlistRepo, interactionRepo, historyRepo
}

func TestSearchService_UniversalRejectsShortQuery(t *testing.T) {
	svc, _, _, _, _ := newSearchFixture()

	for _, q := range []string{"", "a", "  a  "} {
		_, err := svc.Universal(context.Background(), "", q, services.SearchTypeAll, "", 10, 0)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "query %q", q)
	}
}

func TestSearchService_UniversalRejectsUnknownType(t *testing.T) {
	svc, _, _, _, _ := newSearchFixture()

	_, err := svc.Universal(context.Background(), "", "lofi", "albums", "", 10, 0)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSearchService_UniversalFansOut(t *testing.T) {
	svc, userRepo, playlistRepo, interactionRepo, _ := newSearchFixture()

	playlists := []models.Playlist{{ID: "p1", Title: "lofi beats", IsPublic: true}}
	userRepo.On("Search", "lofi", 10, 0).Return([]models.User{{ID: "u1", Username: "lofigirl"}}, int64(1), nil).Once()
	playlistRepo.On("Search", "lofi", repositories.SortRecent, 10, 0).Return(playlists, int64(1), nil).Once()
	playlistRepo.On("SongCounts", []string{"p1"}).Return(map[string]int{"p1": 4}, nil).Once()
	interactionRepo.On("LikedSet", "", []string{"p1"}).Return(map[string]bool{}, nil).Once()
	interactionRepo.On("SavedSet", "", []string{"p1"}).Return(map[string]bool{}, nil).Once()
	playlistRepo.On("TagCounts", "lofi", 10).Return([]repositories.TagCount{{Name: "lofi", PlaylistCount: 7}}, nil).Once()

	results, err := svc.Universal(context.Background(), "", "lofi", services.SearchTypeAll, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, results.Users, 1)
	require.Len(t, results.Playlists, 1)
	assert.Equal(t, 4, results.Playlists[0].SongCount)
	assert.Len(t, results.Tags, 1)
	userRepo.AssertExpectations(t)
	playlistRepo.AssertExpectations(t)
}

func TestSearchService_UniversalCacheHitShortCircuits(t *testing.T) {
	svc, userRepo, playlistRepo, interactionRepo, _ := newSearchFixture()

	userRepo.On("Search", "lofi", 10, 0).Return([]models.User{{ID: "u1"}}, int64(1), nil).Once()
	playlistRepo.On("Search", "lofi", repositories.SortRecent, 10, 0).Return([]models.Playlist{}, int64(0), nil).Once()
	playlistRepo.On("SongCounts", []string{}).Return(map[string]int{}, nil).Once()
	interactionRepo.On("LikedSet", "", []string{}).Return(map[string]bool{}, nil).Once()
	interactionRepo.On("SavedSet", "", []string{}).Return(map[string]bool{}, nil).Once()
	playlistRepo.On("TagCounts", "lofi", 10).Return([]repositories.TagCount{}, nil).Once()

	first, err := svc.Universal(context.Background(), "", "lofi", services.SearchTypeAll, "", 0, 0)
	require.NoError(t, err)

	// Second identical query must come from the cache: every repository
	// expectation above is Once().
	second, err := svc.Universal(context.Background(), "", "lofi", services.SearchTypeAll, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, len(first.Users), len(second.Users))
	userRepo.AssertNumberOfCalls(t, "Search", 1)
	playlistRepo.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchService_UniversalRecordsHistoryForViewer(t *testing.T) {
	svc, userRepo, _, _, historyRepo := newSearchFixture()

	historyRepo.On("Record", "u9", "synthwave", services.SearchTypeUsers).Return(nil).Once()
	userRepo.On("Search", "synthwave", 10, 0).Return([]models.User{}, int64(0), nil).Once()

	_, err := svc.Universal(context.Background(), "u9", "synthwave", services.SearchTypeUsers, "", 0, 0)
	require.NoError(t, err)
	historyRepo.AssertExpectations(t)
}

func TestSearchService_UniversalClampsLimitAndKeepsOffset(t *testing.T) {
	svc, userRepo, _, _, _ := newSearchFixture()

	// An oversized limit is capped server-side; an offset that is not a
	// multiple of the limit is passed through untouched.
	userRepo.On("Search", "lofi", services.MaxSearchLimit, 5).
		Return([]models.User{}, int64(0), nil).Once()

	_, err := svc.Universal(context.Background(), "", "lofi", services.SearchTypeUsers, "", 500, 5)
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestSearchService_Suggestions(t *testing.T) {
	svc, userRepo, playlistRepo, _, _ := newSearchFixture()

	userRepo.On("SuggestUsernames", "lo", 3).Return([]models.User{{Username: "lofigirl"}}, nil).Once()
	playlistRepo.On("SuggestTitles", "lo", 3).Return([]models.Playlist{{Title: "Lo-fi focus"}}, nil).Once()
	playlistRepo.On("TagCounts", "lo", 3).Return([]repositories.TagCount{{Name: "lofi", PlaylistCount: 7}}, nil).Once()

	suggestions, err := svc.Suggestions("lo")
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, services.Suggestion{Kind: "user", Value: "lofigirl"}, suggestions[0])
	assert.Equal(t, services.Suggestion{Kind: "playlist", Value: "Lo-fi focus"}, suggestions[1])
	assert.Equal(t, services.Suggestion{Kind: "tag", Value: "lofi", PlaylistCount: 7}, suggestions[2])

	_, err = svc.Suggestions("   ")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
