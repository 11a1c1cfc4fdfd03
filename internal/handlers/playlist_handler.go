package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/apperrors"
	"mixtape/internal/middleware"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
	"mixtape/internal/storage"
)

// PlaylistHandler handles HTTP requests for playlists and their
// interactions.
type PlaylistHandler struct {
	playlistService *services.PlaylistService
	validate        *validator.Validate
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(playlistService *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the playlist routes with the Fiber app.
func (h *PlaylistHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	playlists := router.Group("/playlists")
	playlists.Get("/", optionalAuth, h.HandleList)
	playlists.Post("/", requireAuth, h.HandleCreate)
	playlists.Get("/saved", requireAuth, h.HandleSaved)
	playlists.Get("/:id", optionalAuth, h.HandleGet)
	playlists.Put("/:id", requireAuth, h.HandleUpdate)
	playlists.Delete("/:id", requireAuth, h.HandleDelete)
	playlists.Post("/:id/thumbnail", requireAuth, h.HandleUploadThumbnail)
	playlists.Delete("/:id/thumbnail", requireAuth, h.HandleDeleteThumbnail)
	playlists.Post("/:id/like", requireAuth, h.HandleLike)
	playlists.Delete("/:id/like", requireAuth, h.HandleUnlike)
	playlists.Post("/:id/save", requireAuth, h.HandleSave)
	playlists.Delete("/:id/save", requireAuth, h.HandleUnsave)
}

// HandleList pages playlists with optional user, tag and sort filters.
func (h *PlaylistHandler) HandleList(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.List(repositories.PlaylistListOptions{
		UserID:   c.Query("user"),
		Tag:      c.Query("tag"),
		Sort:     c.Query("sort"),
		ViewerID: middleware.Viewer(c),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}

// CreatePlaylistRequest is the body for POST /playlists.
type CreatePlaylistRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Gradient    string   `json:"gradient" validate:"omitempty,max=100"`
	Tags        []string `json:"tags" validate:"omitempty,max=5,dive,min=1,max=50"`
	IsPublic    *bool    `json:"isPublic"`
}

// HandleCreate makes a new playlist owned by the viewer.
func (h *PlaylistHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreatePlaylistRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	playlist, err := h.playlistService.Create(middleware.Viewer(c), services.CreatePlaylistInput{
		Title:       req.Title,
		Description: req.Description,
		Gradient:    req.Gradient,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"playlist": playlist})
}

// HandleGet returns one playlist with its songs.
func (h *PlaylistHandler) HandleGet(c *fiber.Ctx) error {
	playlist, err := h.playlistService.Get(c.Params("id"), middleware.Viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist})
}

// UpdatePlaylistRequest is the body for PUT /playlists/:id.
type UpdatePlaylistRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Gradient    *string   `json:"gradient" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=5,dive,min=1,max=50"`
	IsPublic    *bool     `json:"isPublic"`
}

// HandleUpdate applies an owner's edit.
func (h *PlaylistHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdatePlaylistRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	playlist, err := h.playlistService.Update(middleware.Viewer(c), c.Params("id"), services.UpdatePlaylistInput{
		Title:       req.Title,
		Description: req.Description,
		Gradient:    req.Gradient,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist})
}

// HandleDelete removes an owned playlist and everything under it.
func (h *PlaylistHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.playlistService.Delete(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "playlist deleted")
}

// HandleSaved pages the viewer's saved playlists.
func (h *PlaylistHandler) HandleSaved(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.Saved(
		middleware.Viewer(c),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 0),
	)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}

// HandleUploadThumbnail stores a new cover image.
func (h *PlaylistHandler) HandleUploadThumbnail(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, apperrors.Validation("an image file is required"))
	}
	if file.Size > storage.MaxImageSize {
		return respondError(c, apperrors.Validation("image must be 5MB or smaller"))
	}

	playlist, err := h.playlistService.UploadThumbnail(middleware.Viewer(c), c.Params("id"), file)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist})
}

// HandleDeleteThumbnail clears the cover image.
func (h *PlaylistHandler) HandleDeleteThumbnail(c *fiber.Ctx) error {
	playlist, err := h.playlistService.DeleteThumbnail(middleware.Viewer(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist})
}

// HandleLike records a like; liking twice is a conflict.
func (h *PlaylistHandler) HandleLike(c *fiber.Ctx) error {
	if err := h.playlistService.Like(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusCreated, "playlist liked")
}

// HandleUnlike removes a like.
func (h *PlaylistHandler) HandleUnlike(c *fiber.Ctx) error {
	if err := h.playlistService.Unlike(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "playlist unliked")
}

// HandleSave records a save; saving twice is a conflict.
func (h *PlaylistHandler) HandleSave(c *fiber.Ctx) error {
	if err := h.playlistService.Save(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusCreated, "playlist saved")
}

// HandleUnsave removes a save.
func (h *PlaylistHandler) HandleUnsave(c *fiber.Ctx) error {
	if err := h.playlistService.Unsave(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "playlist unsaved")
}
