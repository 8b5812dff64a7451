package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy with database", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler("1.2.3", &fakePinger{}))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("degraded when database unreachable", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler("1.2.3", &fakePinger{err: errors.New("down")}))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})

	t.Run("liveness only without database", func(t *testing.T) {
		engine := newTestEngine(NewSystemHandler("dev", nil))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "database")
	})
}
