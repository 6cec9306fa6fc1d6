package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FormatValidationErrors flattens validator/v10 errors into one message.
func FormatValidationErrors(err error) string {
	var parts []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			part := fmt.Sprintf("field '%s' failed on the '%s' tag", verr.Field(), verr.Tag())
			if verr.Param() != "" {
				part = fmt.Sprintf("%s (param: %s)", part, verr.Param())
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
