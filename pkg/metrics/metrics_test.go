package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()

	r := gin.New()
	r.Use(Middleware("server"))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("server", "GET", "/items/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/items/5", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("server", "GET", "/items/:id", "200"))
	assert.Equal(t, before+1, after)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shareit_http_requests_total")
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingStatusChanges.WithLabelValues("APPROVED"))
	IncBookingStatus("APPROVED")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingStatusChanges.WithLabelValues("APPROVED")))

	rejected := testutil.ToFloat64(breakerRejections)
	IncBreakerRejection()
	assert.Equal(t, rejected+1, testutil.ToFloat64(breakerRejections))
}
