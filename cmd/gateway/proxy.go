package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shareit/pkg/circuitbreaker"
	"shareit/pkg/dto"
	"shareit/pkg/logging"
	"shareit/pkg/metrics"
)

// statusClientClosed is recorded when the caller disconnects mid-request.
const statusClientClosed = 499

type upstreamResponse struct {
	status int
	body   []byte
}

// forward sends the request to the same path on the server tier and copies
// the answer back. Only transport failures count against the breaker; any
// HTTP status the server returns is passed through as is.
func (g *gateway) forward(c *gin.Context, query url.Values, body []byte) {
	target := g.serverURL + c.Request.URL.Path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range []string{dto.UserIDHeader, logging.RequestIDHeader} {
		if v := c.GetHeader(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	var resp upstreamResponse
	err = g.breaker.ExecuteContext(c.Request.Context(), func() error {
		r, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer r.Body.Close()
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		resp = upstreamResponse{status: r.StatusCode, body: data}
		return nil
	}, nil)

	log := zerolog.Ctx(c.Request.Context())
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.IncBreakerRejection()
		log.Warn().Str("target", target).Msg("circuit open, request not forwarded")
		unavailable(c)
		return
	case err != nil && c.Request.Context().Err() != nil:
		log.Info().Err(err).Str("target", target).Msg("client gone before the server answered")
		c.AbortWithStatus(statusClientClosed)
		return
	case err != nil:
		log.Error().Err(err).Str("target", target).Msg("server request failed")
		unavailable(c)
		return
	}

	if len(resp.body) == 0 {
		c.Status(resp.status)
		return
	}
	c.Data(resp.status, "application/json", resp.body)
}

func unavailable(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Server is unavailable"})
}
