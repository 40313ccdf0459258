package handlers

import (
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// bindInput parses the request body and validates it. The returned error is
// either a *validation.Error or a body parsing error.
func (h *ProductHandler) bindInput(c *fiber.Ctx) (models.ProductInput, error) {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return input, fmt.Errorf("invalid request body: %w", err)
	}
	if err := h.validator.Validate(input); err != nil {
		return input, err
	}
	return input, nil
}

// badRequest writes a 400 response for an error returned by bindInput.
func (h *ProductHandler) badRequest(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.FieldMessages(),
		})
	}

	h.logger.Debug().Err(err).Str("path", c.Path()).Msg("error parsing product request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// invalidID writes a 400 response for a path ID that is not a UUID.
func (h *ProductHandler) invalidID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid product ID",
		"error":   err.Error(),
	})
}

// internalError logs err and writes a 500 response.
func (h *ProductHandler) internalError(c *fiber.Ctx, err error, message string) error {
	h.logger.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(message)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func (h *ProductHandler) baseURL(c *fiber.Ctx) string {
	if h.linkBaseURL != "" {
		return h.linkBaseURL
	}
	return c.BaseURL()
}
