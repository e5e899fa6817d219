package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the common error payload: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a write with {"success": true}.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SendSuccess sends the standard write acknowledgement.
func SendSuccess(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{Success: true})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}
