package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependência verificada pelo readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapta uma função a Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler liveness e readiness.
type HealthHandler struct {
	service string
	checks  []healthCheck
	timeout time.Duration
}

type healthCheck struct {
	name string
	p    Pinger
}

// NewHealthHandler cria o handler; componentes são registrados com Check.
func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service, timeout: 2 * time.Second}
}

// Check registra um componente (postgres, redis).
func (h *HealthHandler) Check(name string, p Pinger) *HealthHandler {
	if p != nil {
		h.checks = append(h.checks, healthCheck{name: name, p: p})
	}
	return h
}

// Live godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// Ready godoc
// @Summary      Readiness (Postgres e Redis)
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	for _, chk := range h.checks {
		if err := chk.p.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":    "unavailable",
				"service":   h.service,
				"component": chk.name,
				"error":     err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}
