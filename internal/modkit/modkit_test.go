package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "safeharbor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	b := Build()
	assert.Empty(t, b.Name)
	assert.Empty(t, b.Prefix)
	assert.Nil(t, b.Ports)
	assert.Empty(t, b.Mw)
	assert.NotPanics(t, func() { b.Register(nil) })
}

func TestBuild_OptionsAndMount(t *testing.T) {
	type ports struct{ N int }
	var order []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "mw")
			next.ServeHTTP(w, r)
		})
	}

	b := Build(
		WithName("analyze"),
		WithPrefix("analyze/"),
		WithMiddlewares(mw),
		WithPorts(ports{N: 3}),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { order = append(order, "extra") })
		}),
	)
	assert.Equal(t, "analyze", b.Name)
	assert.Equal(t, ports{N: 3}, b.Ports)

	r := phttp.AdaptChi(chi.NewRouter())
	b.Mount(r, func(rr phttp.Router) {
		rr.Get("/own", func(w http.ResponseWriter, _ *http.Request) { order = append(order, "own") })
	})

	for _, p := range []string{"/analyze/own", "/analyze/extra"} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusOK, rec.Code, p)
	}
	assert.Equal(t, []string{"mw", "own", "mw", "extra"}, order)
}

func TestBuild_MiddlewareSliceIsCopied(t *testing.T) {
	mw := []func(http.Handler) http.Handler{func(h http.Handler) http.Handler { return h }}
	b := Build(WithMiddlewares(mw...))
	mw[0] = nil
	assert.NotNil(t, b.Mw[0])
}

func TestDeps_Logger(t *testing.T) {
	assert.NotNil(t, Deps{}.Logger("analyze"))
}

func TestBuild_MountWithoutPrefix(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Build(WithName("catalog")).Mount(r, func(rr phttp.Router) {
		rr.Get("/contacts", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
