package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/offgate/offgate/render"
)

func TestEnv_HandleHealth(t *testing.T) {
	setupSalts(t)
	render.Init()

	t.Run("no credentials required", func(t *testing.T) {
		_, _, e := makeTestEnv(t)

		r := makeTestRequest(t, http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		e.BuildRouter().ServeHTTP(w, r)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})
}
