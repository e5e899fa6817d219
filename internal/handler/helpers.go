package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// parseQueryInt returns the query parameter as an int, or the fallback when
// the parameter is missing or not numeric.
func parseQueryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// hasQueryParam reports whether the query string contains the key at all,
// even with an empty value. Fiber's Query helper cannot tell the two apart.
func hasQueryParam(c *fiber.Ctx, key string) bool {
	return c.Request().URI().QueryArgs().Has(key)
}

func isValidationError(err error) bool {
	var vErrs validator.ValidationErrors
	return errors.As(err, &vErrs)
}
