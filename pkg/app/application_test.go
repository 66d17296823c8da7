package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roombooking/pkg/config"
	"roombooking/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8080",
		RequestTimeout:  time.Second,
		MaxRequestSize:  1024,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		Log:             logger.Discard(),
	}
}

func TestSetApp_RoutesHealthAndAppSeparately(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(
		routes(func(r *httprouter.Router) {
			r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) { w.WriteHeader(http.StatusOK) })
		}),
		routes(func(r *httprouter.Router) {
			r.POST("/api/v1/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) { w.WriteHeader(http.StatusCreated) })
		}),
	)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("{}"))
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code, "app routes enforce JSON")
}

func TestGracefulShutdown_RunsHooksInOrder(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(routes(func(*httprouter.Router) {}), routes(func(*httprouter.Router) {}))

	var order []string
	a.OnShutdown(func(context.Context) error { order = append(order, "producer"); return nil })
	a.OnShutdown(func(context.Context) error { order = append(order, "mongo"); return nil })

	a.gracefulShutdown()
	assert.Equal(t, []string{"producer", "mongo"}, order)
}
