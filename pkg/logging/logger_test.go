package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/pkg/config"
)

func TestNewLogger(t *testing.T) {
	appCfg := config.AppConfig{
		Name:        "test-app",
		Environment: "test",
		Version:     "1.0.0",
	}

	t.Run("DefaultStdout", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "info", Output: "stdout"}, appCfg, "server")
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("Stderr", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "debug", Output: "stderr"}, appCfg, "server")
		require.NoError(t, err)
		assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("Console", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "warn", Format: "console"}, appCfg, "gateway")
		require.NoError(t, err)
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "invalid"}, appCfg, "server")
		require.NoError(t, err) // Should default to info
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("UnknownOutput", func(t *testing.T) {
		_, err := New(config.LoggingConfig{Output: "file"}, appCfg, "server")
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	fallback := zerolog.New(&buf)

	assert.Equal(t, &fallback, FromContext(context.Background(), fallback))

	scoped := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
	ctx := scoped.WithContext(context.Background())
	FromContext(ctx, fallback).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(Middleware(zerolog.New(&buf), "X-Sharer-User-Id"))
	r.GET("/users/:id", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	t.Run("GeneratesRequestID", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/users/1", nil)
		req.Header.Set("X-Sharer-User-Id", "7")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		requestID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, requestID)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[1], &entry))
		assert.Equal(t, "/users/:id", entry["route"])
		assert.Equal(t, "GET", entry["method"])
		assert.Equal(t, float64(http.StatusNoContent), entry["status"])
		assert.Equal(t, requestID, entry["request_id"])
		assert.Equal(t, "7", entry["user_id"])
	})

	t.Run("KeepsIncomingRequestID", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/users/2", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	})

	t.Run("UnmatchedRoute", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, buf.String(), `"route":"unmatched"`)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})
}
