package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "safeharbor/internal/platform/errors"
	pnet "safeharbor/internal/platform/net"
	phttp "safeharbor/internal/platform/net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reqWithID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequestID(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandle_OK(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]string{"level": "none"})
	})(rec, reqWithID(http.MethodGet, "/x", "rid-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	env := decode(t, rec)
	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, "OK", env.Status)
	assert.Equal(t, "rid-1", env.RequestID)
	assert.Equal(t, map[string]any{"level": "none"}, env.Data)
}

func TestHandle_ErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code perr.ErrorCode
	}{
		{perr.Validationf("text is required"), http.StatusBadRequest, perr.ErrorCodeValidation},
		{perr.TooManyf("too many items"), http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests},
		{perr.NotFoundf("nope"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{errors.New("plain"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(tc.err) })(rec, reqWithID(http.MethodGet, "/x", "rid-e"))

		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
		env := decode(t, rec)
		assert.Equal(t, tc.code, env.Code)
		assert.Equal(t, "rid-e", env.RequestID)
		assert.NotEmpty(t, env.Error)
		assert.Nil(t, env.Data)
	}
}

func TestHandle_FieldOnWire(t *testing.T) {
	rec := httptest.NewRecorder()
	err := perr.WithField(perr.Validationf("bad"), "items")
	phttp.RespondError(rec, reqWithID(http.MethodPost, "/x", ""), err)
	assert.Equal(t, "items", decode(t, rec).Field)
}

func TestHandle_NoContentAndHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		resp := phttp.NoContent()
		resp.Header = http.Header{"X-Extra": []string{"1"}}
		return resp
	})(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, "1", rec.Header().Get("X-Extra"))
}

func TestErrorEnvelope(t *testing.T) {
	status, env := phttp.ErrorEnvelope(perr.JSONErrf("invalid JSON"), "rid")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Bad Request", env.Status)
	assert.Equal(t, "invalid JSON", env.Error)
}
