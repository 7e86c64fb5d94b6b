package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/gepub/gepub-api/internal/interfaces/http"
)

func TestHealth(t *testing.T) {
	redisOK := true
	h := apphttp.NewHealthHandler("gepub-api").
		Check("postgres", apphttp.PingFunc(func(context.Context) error { return nil })).
		Check("redis", apphttp.PingFunc(func(context.Context) error {
			if redisOK {
				return nil
			}
			return errors.New("connection refused")
		})).
		Check("ignorado", nil)

	app := fiber.New()
	app.Get("/health", h.Live)
	app.Get("/health/ready", h.Ready)

	get := func(path string) (int, map[string]string) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp.StatusCode, body
	}

	status, body := get("/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "gepub-api", body["service"])

	status, _ = get("/health/ready")
	assert.Equal(t, http.StatusOK, status)

	redisOK = false
	status, body = get("/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "redis", body["component"])
	assert.Equal(t, "connection refused", body["error"])
}
