package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "safeharbor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func TestPostJSON_BindValidateAndRespond(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) {
		return map[string]int{"len": len(in.Text)}, nil
	})
	phttp.GetJSON(r, "/fail", func(*http.Request) (any, error) {
		return nil, errors.New("boom")
	})
	phttp.GetJSON(r, "/custom", func(*http.Request) (any, error) {
		return phttp.NoContent(), nil
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.Mux().ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodPost, "/echo", `{"text":"hello"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"len":5`)

	rec = serve(http.MethodPost, "/echo", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")

	rec = serve(http.MethodPost, "/echo", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text is a required field")

	rec = serve(http.MethodPost, "/echo", `{"text":"x","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusInternalServerError, serve(http.MethodGet, "/fail", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(http.MethodGet, "/custom", "").Code)
}
