package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sprintdeck/sprintdeck/internal/health"
	"github.com/sprintdeck/sprintdeck/internal/store"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// Handlers holds dependencies for the HTTP handlers. Every mutating
// handler publishes exactly one broadcast event on success; read handlers
// never publish.
type Handlers struct {
	store   store.Store
	hub     *ws.Hub
	checker *health.Checker
	logger  zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st store.Store, hub *ws.Hub, checker *health.Checker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:   st,
		hub:     hub,
		checker: checker,
		logger:  logger.With().Str("component", "handlers").Logger(),
	}
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	if !h.checker.IsReady(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not_ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
