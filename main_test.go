package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe/internal/config"
	"luxe/internal/services"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("ACCESS_TOKEN_SECRET", "test_access_secret")
	v.Set("REFRESH_TOKEN_SECRET", "test_refresh_secret")
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	v.Set("UPLOAD_DIR", t.TempDir())
	v.Set("RABBITMQ_ENABLED", false)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNewPublisher_LogsWhenBrokerDisabled(t *testing.T) {
	publisher, cleanup, err := newPublisher(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, services.LogPublisher{}, publisher)
}

func TestNewApp_HealthCheckAndAuth(t *testing.T) {
	server, cleanup, err := newApp(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"status":"healthy"`)
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/v1/carts/getuserCart", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("PublicCatalog", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/all-products", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
