package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"mixtape/internal/apperrors"
	"mixtape/internal/logger"
)

// respond writes the shared success envelope.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	body := fiber.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// respondMessage writes a success envelope carrying only a message.
func respondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// respondError maps a classified error onto its HTTP status. Internal
// causes are logged and replaced with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = fiber.StatusBadRequest
	case apperrors.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case apperrors.KindForbidden:
		status = fiber.StatusForbidden
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindConflict:
		status = fiber.StatusConflict
	default:
		logger.Error("request failed", "path", c.Path(), "error", err)
		message = "something went wrong"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return apperrors.Validation(fmt.Sprintf("field '%s' failed on the '%s' rule", e.Field(), e.Tag()))
		}
		return apperrors.Validation("validation failed")
	}
	return nil
}
