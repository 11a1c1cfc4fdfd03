package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/middleware"
	"mixtape/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	auth := router.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)
	auth.Post("/refresh", h.HandleRefresh)
	auth.Post("/logout", h.HandleLogout)
	auth.Post("/google", h.HandleGoogle)
	auth.Get("/me", requireAuth, h.HandleMe)
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister creates a password account and logs it in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	tokens, err := h.authService.IssueTokenPair(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"user": user, "tokens": tokens})
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a password account.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	tokens, err := h.authService.IssueTokenPair(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user, "tokens": tokens})
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// HandleRefresh exchanges a refresh token for a fresh pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"tokens": tokens})
}

// HandleLogout acknowledges a logout. Tokens are stateless, so the client
// simply discards them.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return respondMessage(c, fiber.StatusOK, "logged out")
}

// GoogleRequest is the body for POST /auth/google.
type GoogleRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// HandleGoogle signs in with a Google identity credential.
func (h *AuthHandler) HandleGoogle(c *fiber.Ctx) error {
	var req GoogleRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.GoogleSignIn(req.Credential)
	if err != nil {
		return respondError(c, err)
	}
	tokens, err := h.authService.IssueTokenPair(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user, "tokens": tokens})
}

// HandleMe returns the authenticated account.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.Me(middleware.Viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": user})
}
