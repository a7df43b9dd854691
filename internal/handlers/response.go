package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"luxe/internal/apperror"
)

// respond writes the success envelope shared by every endpoint.
func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success":    true,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

// parseBody decodes the request body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body for %s: %v", c.Path(), err)
		return apperror.Validation("Invalid request body")
	}
	return nil
}
