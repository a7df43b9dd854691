package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"luxe/internal/apperror"
	"luxe/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return fmt.Errorf("wrapped: %w", apperror.Validation("All fields are required", "Field 'Name' failed on the 'required' tag"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	cases := []struct {
		path    string
		status  int
		message string
		details []string
	}{
		{"/validation", http.StatusBadRequest, "All fields are required", []string{"Field 'Name' failed on the 'required' tag"}},
		{"/fiber", http.StatusRequestEntityTooLarge, "too big", []string{}},
		{"/internal", http.StatusInternalServerError, "internal server error", []string{}},
		{"/missing", http.StatusNotFound, "Cannot GET /missing", []string{}},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)

		var body struct {
			Success bool     `json:"success"`
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.Equal(t, tc.message, body.Message, tc.path)
		assert.Equal(t, tc.details, body.Errors, tc.path)
	}
}
