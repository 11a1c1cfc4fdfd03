package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/middleware"
	"mixtape/internal/services"
)

// SearchHandler handles HTTP requests for search and suggestions.
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// RegisterRoutes registers the search routes with the Fiber app.
func (h *SearchHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	search := router.Group("/search")
	search.Get("/", optionalAuth, h.handleTyped(""))
	search.Get("/users", optionalAuth, h.handleTyped(services.SearchTypeUsers))
	search.Get("/playlists", optionalAuth, h.handleTyped(services.SearchTypePlaylists))
	search.Get("/tags", optionalAuth, h.handleTyped(services.SearchTypeTags))
	search.Get("/suggestions", h.HandleSuggestions)
	search.Get("/trending", h.HandleTrending)
	search.Get("/recent", requireAuth, h.HandleRecent)
	search.Delete("/recent", requireAuth, h.HandleClearRecent)
	search.Delete("/recent/:id", requireAuth, h.HandleDeleteRecent)
}

// handleTyped serves the universal endpoint and its per-type variants.
// The variants pin the type; the universal endpoint reads it from the
// query string.
func (h *SearchHandler) handleTyped(fixedType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		searchType := fixedType
		if searchType == "" {
			searchType = c.Query("type", services.SearchTypeAll)
		}
		results, err := h.searchService.Universal(
			c.Context(),
			middleware.Viewer(c),
			c.Query("q"),
			searchType,
			c.Query("sort"),
			c.QueryInt("limit", 0),
			c.QueryInt("offset", 0),
		)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, results)
	}
}

// HandleSuggestions returns typeahead entries for a prefix.
func (h *SearchHandler) HandleSuggestions(c *fiber.Ctx) error {
	suggestions, err := h.searchService.Suggestions(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"suggestions": suggestions})
}

// HandleTrending returns the most used public tags.
func (h *SearchHandler) HandleTrending(c *fiber.Ctx) error {
	tags, err := h.searchService.Trending()
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"tags": tags})
}

// HandleRecent lists the viewer's search history.
func (h *SearchHandler) HandleRecent(c *fiber.Ctx) error {
	searches, err := h.searchService.Recent(middleware.Viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"searches": searches})
}

// HandleClearRecent wipes the viewer's search history.
func (h *SearchHandler) HandleClearRecent(c *fiber.Ctx) error {
	if err := h.searchService.ClearRecent(middleware.Viewer(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "search history cleared")
}

// HandleDeleteRecent removes one history entry.
func (h *SearchHandler) HandleDeleteRecent(c *fiber.Ctx) error {
	if err := h.searchService.DeleteRecent(c.Params("id"), middleware.Viewer(c)); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "search entry deleted")
}
