package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/middleware"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
)

// DiscoverHandler handles the feed and discovery listings.
type DiscoverHandler struct {
	playlistService *services.PlaylistService
	userService     *services.UserService
}

// NewDiscoverHandler creates a new DiscoverHandler.
func NewDiscoverHandler(playlistService *services.PlaylistService, userService *services.UserService) *DiscoverHandler {
	return &DiscoverHandler{
		playlistService: playlistService,
		userService:     userService,
	}
}

// RegisterRoutes registers the feed and discover routes with the Fiber app.
func (h *DiscoverHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	router.Get("/feed", optionalAuth, h.HandleFeed)

	discover := router.Group("/discover")
	discover.Get("/users", requireAuth, h.HandleDiscoverUsers)
	discover.Get("/playlists", optionalAuth, h.HandleDiscoverPlaylists)
	discover.Get("/tags/:tag", optionalAuth, h.HandleTag)
}

// HandleFeed lists playlists newest first, regardless of viewer.
func (h *DiscoverHandler) HandleFeed(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.List(repositories.PlaylistListOptions{
		Sort:     repositories.SortRecent,
		ViewerID: middleware.Viewer(c),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}

// HandleDiscoverUsers lists users to follow, excluding the viewer.
func (h *DiscoverHandler) HandleDiscoverUsers(c *fiber.Ctx) error {
	users, err := h.userService.Discover(middleware.Viewer(c), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"users": users})
}

// HandleDiscoverPlaylists lists trending playlists: most liked first,
// newest breaking ties.
func (h *DiscoverHandler) HandleDiscoverPlaylists(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.List(repositories.PlaylistListOptions{
		Sort:     repositories.SortPopular,
		ViewerID: middleware.Viewer(c),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}

// HandleTag lists playlists carrying the exact tag, most liked first.
func (h *DiscoverHandler) HandleTag(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.List(repositories.PlaylistListOptions{
		Tag:      c.Params("tag"),
		Sort:     repositories.SortPopular,
		ViewerID: middleware.Viewer(c),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}
