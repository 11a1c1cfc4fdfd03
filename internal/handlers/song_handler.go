package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/middleware"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
)

// SongHandler handles HTTP requests for songs within playlists.
type SongHandler struct {
	songService *services.SongService
	validate    *validator.Validate
}

// NewSongHandler creates a new SongHandler.
func NewSongHandler(songService *services.SongService) *SongHandler {
	return &SongHandler{
		songService: songService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the song routes with the Fiber app.
func (h *SongHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	router.Get("/playlists/:id/songs", optionalAuth, h.HandleList)
	router.Post("/playlists/:id/songs", requireAuth, h.HandleAdd)
	router.Post("/playlists/:id/songs/batch", requireAuth, h.HandleAddBatch)
	router.Put("/playlists/:id/songs/reorder", requireAuth, h.HandleReorder)
	router.Put("/songs/:id", requireAuth, h.HandleUpdate)
	router.Delete("/songs/:id", requireAuth, h.HandleDelete)
}

// HandleList returns a playlist's songs in position order.
func (h *SongHandler) HandleList(c *fiber.Ctx) error {
	songs, err := h.songService.List(c.Params("id"), middleware.Viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"songs": songs})
}

// SongRequest is the body for song create and update calls.
type SongRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Artist       string `json:"artist" validate:"omitempty,max=200"`
	URL          string `json:"url" validate:"required,url"`
	Platform     string `json:"platform" validate:"omitempty,max=50"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
}

func (r SongRequest) toInput() services.SongInput {
	return services.SongInput{
		Title:        r.Title,
		Artist:       r.Artist,
		URL:          r.URL,
		Platform:     r.Platform,
		ThumbnailURL: r.ThumbnailURL,
	}
}

// HandleAdd appends one song to an owned playlist.
func (h *SongHandler) HandleAdd(c *fiber.Ctx) error {
	var req SongRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	song, err := h.songService.Add(c.Context(), middleware.Viewer(c), c.Params("id"), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"song": song})
}

// BatchSongRequest is the body for POST /playlists/:id/songs/batch.
type BatchSongRequest struct {
	Songs []SongRequest `json:"songs" validate:"required,min=1,dive"`
}

// HandleAddBatch appends several songs atomically.
func (h *SongHandler) HandleAddBatch(c *fiber.Ctx) error {
	var req BatchSongRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	inputs := make([]services.SongInput, len(req.Songs))
	for i, song := range req.Songs {
		inputs[i] = song.toInput()
	}
	songs, err := h.songService.AddBatch(c.Context(), middleware.Viewer(c), c.Params("id"), inputs)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"songs": songs})
}

// UpdateSongRequest is the body for PUT /songs/:id. Empty fields are left
// untouched.
type UpdateSongRequest struct {
	Title        string `json:"title" validate:"omitempty,min=1,max=200"`
	Artist       string `json:"artist" validate:"omitempty,max=200"`
	URL          string `json:"url" validate:"omitempty,url"`
	Platform     string `json:"platform" validate:"omitempty,max=50"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
}

// HandleUpdate edits a song on an owned playlist.
func (h *SongHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateSongRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	song, err := h.songService.Update(c.Context(), middleware.Viewer(c), c.Params("id"), services.SongInput{
		Title:        req.Title,
		Artist:       req.Artist,
		URL:          req.URL,
		Platform:     req.Platform,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"song": song})
}

// HandleDelete removes a song; the playlist renumbers to stay dense.
func (h *SongHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.songService.Delete(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "song deleted")
}

// ReorderRequest is the body for PUT /playlists/:id/songs/reorder.
type ReorderRequest struct {
	Songs []repositories.PositionUpdate `json:"songs" validate:"required,min=1,dive"`
}

// HandleReorder applies a full position permutation.
func (h *SongHandler) HandleReorder(c *fiber.Ctx) error {
	var req ReorderRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	songs, err := h.songService.Reorder(middleware.Viewer(c), c.Params("id"), req.Songs)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"songs": songs})
}
