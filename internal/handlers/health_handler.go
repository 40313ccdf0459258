package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	store         Pinger
	eventsEnabled bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, eventsEnabled bool) *HealthHandler {
	return &HealthHandler{store: store, eventsEnabled: eventsEnabled}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth returns 200 when the store answers a ping and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	events := "disabled"
	if h.eventsEnabled {
		events = "enabled"
	}

	if err := h.store.Ping(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "down",
			"events":   events,
			"error":    err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "up",
		"events":   events,
	})
}
