package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/utils"
)

// HealthChecker probes a single backing dependency.
type HealthChecker func(ctx context.Context) error

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a handler that reports application health. Each named
// checker is probed with a short deadline; any failure degrades the response
// to 503 while still listing the per-dependency outcome.
func HealthCheck(cfg config.Config, checks map[string]HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(checks) > 0 {
			payload.Checks = make(map[string]string, len(checks))
		}

		healthy := true
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err := check(ctx)
			cancel()

			if err != nil {
				healthy = false
				payload.Checks[name] = err.Error()
				continue
			}
			payload.Checks[name] = "ok"
		}

		if !healthy {
			payload.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    payload,
				Message: "una dependencia no responde",
			})
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
