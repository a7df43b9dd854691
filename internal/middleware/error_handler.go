package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"luxe/internal/apperror"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "statusCode": ..., "message": ..., "errors": [...]}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	details := []string{}

	var appErr *apperror.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = apperror.StatusCode(appErr)
		message = appErr.Message
		if appErr.Details != nil {
			details = appErr.Details
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success":    false,
		"statusCode": status,
		"message":    message,
		"errors":     details,
	})
}
