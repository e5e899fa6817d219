package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheck returns a handler that pings the active storage backend.
func HealthCheck(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ping(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(healthResponse{
				Status:  "error",
				Message: err.Error(),
			})
		}
		return c.JSON(healthResponse{Status: "ok"})
	}
}
