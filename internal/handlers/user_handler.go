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

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	userService     *services.UserService
	playlistService *services.PlaylistService
	validate        *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, playlistService *services.PlaylistService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		playlistService: playlistService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The
// username catch-all route must come after the fixed segments.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	users := router.Group("/users")
	users.Get("/", h.HandleList)
	users.Post("/upload-profile-picture", requireAuth, h.HandleUploadAvatar)
	users.Get("/id/:id", h.HandleGetByID)
	users.Get("/:id/playlists", optionalAuth, h.HandleUserPlaylists)
	users.Put("/:id", requireAuth, h.HandleUpdate)
	users.Delete("/:id", requireAuth, h.HandleDelete)
	users.Get("/:username", h.HandleGetByUsername)
}

// HandleList searches or lists users.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, pagination, err := h.userService.Search(
		c.Query("search"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 0),
	)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"users": users, "pagination": pagination})
}

// HandleGetByID returns a profile by id.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user})
}

// HandleGetByUsername returns a profile by handle.
func (h *UserHandler) HandleGetByUsername(c *fiber.Ctx) error {
	user, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user})
}

// HandleUserPlaylists lists a user's playlists; the owner also sees their
// private ones.
func (h *UserHandler) HandleUserPlaylists(c *fiber.Ctx) error {
	playlists, pagination, err := h.playlistService.List(repositories.PlaylistListOptions{
		UserID:   c.Params("id"),
		ViewerID: middleware.Viewer(c),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists, "pagination": pagination})
}

// UpdateUserRequest is the body for PUT /users/:id.
type UpdateUserRequest struct {
	Username    *string            `json:"username" validate:"omitempty,min=3,max=30"`
	Bio         *string            `json:"bio" validate:"omitempty,max=500"`
	SocialLinks *map[string]string `json:"socialLinks" validate:"omitempty,dive,url"`
}

// HandleUpdate applies a self-only profile edit.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.Update(middleware.Viewer(c), c.Params("id"), services.UpdateUserInput{
		Username:    req.Username,
		Bio:         req.Bio,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user})
}

// HandleDelete removes the viewer's own account.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.userService.Delete(middleware.Viewer(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "account deleted")
}

// HandleUploadAvatar stores a new profile picture.
func (h *UserHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, apperrors.Validation("an image file is required"))
	}
	if file.Size > storage.MaxImageSize {
		return respondError(c, apperrors.Validation("image must be 5MB or smaller"))
	}

	user, err := h.userService.UploadAvatar(middleware.Viewer(c), file)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user})
}
