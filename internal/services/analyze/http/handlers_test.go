package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"safeharbor/internal/core/contacts"
	"safeharbor/internal/core/crisis"
	perr "safeharbor/internal/platform/errors"
	phttp "safeharbor/internal/platform/net/http"
	"safeharbor/internal/services/analyze/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSvc struct {
	gotText  string
	gotCfg   *crisis.PartialConfig
	gotBatch domain.BatchInput
	err      error
}

func (f *fakeSvc) Analyze(_ context.Context, text string, cfg *crisis.PartialConfig) (crisis.Result, error) {
	f.gotText, f.gotCfg = text, cfg
	if f.err != nil {
		return crisis.Result{}, f.err
	}
	return crisis.Result{
		Level:      crisis.LevelHigh,
		Confidence: 0.8,
		Indicators: []crisis.Indicator{{
			Kind: crisis.KindKeyword, Severity: 8, Confidence: 0.6, Description: "self harm language",
			Details: crisis.Details{Category: "selfHarm", Matches: []string{"cut myself"}, MatchType: "keyword_category"},
		}},
		Recommendations: []string{"Reach out"},
		Metadata:        crisis.Metadata{TextLength: len(text), Config: crisis.DefaultConfig(), SeverityScore: 15.5},
	}, nil
}

func (f *fakeSvc) AnalyzeBatch(_ context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	f.gotBatch = in
	if f.err != nil {
		return domain.BatchResult{}, f.err
	}
	items := make([]domain.BatchItemResult, len(in.Items))
	for i, it := range in.Items {
		items[i] = domain.BatchItemResult{ID: it.ID, Result: domain.Result{Level: crisis.LevelNone}}
	}
	return domain.BatchResult{Items: items, Summary: domain.BatchSummary{Count: len(items), Highest: crisis.LevelNone}}, nil
}

func (f *fakeSvc) Contacts() domain.ContactList {
	return domain.ContactList{Contacts: contacts.Default().All()}
}

func (f *fakeSvc) Lexicon() domain.LexiconSummary {
	return domain.LexiconSummary{Version: 1, Categories: []domain.CategorySummary{{Key: "suicidal", Weight: 10, KeywordCount: 16}}}
}

func newRouter(f *fakeSvc) phttp.Router {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/analyze", func(rr phttp.Router) { Register(rr, f) })
	RegisterCatalog(r, f)
	return r
}

func do(r phttp.Router, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.Mux().ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAnalyze_OK(t *testing.T) {
	f := &fakeSvc{}
	rec := do(newRouter(f), stdhttp.MethodPost, "/analyze", `{"text":"I cut myself","config":{"max_analysis_length":500}}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "I cut myself", f.gotText)
	require.NotNil(t, f.gotCfg)
	require.NotNil(t, f.gotCfg.MaxAnalysisLength)
	assert.Equal(t, 500, *f.gotCfg.MaxAnalysisLength)
	assert.Nil(t, f.gotCfg.EnablePatternMatching)

	var res domain.Result
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	assert.Equal(t, crisis.LevelHigh, res.Level)
	require.Len(t, res.Indicators, 1)
	assert.Equal(t, crisis.KindKeyword, res.Indicators[0].Type)
	assert.Equal(t, "selfHarm", res.Indicators[0].Details.Category)
	assert.Equal(t, 15.5, res.Metadata.SeverityScore)
	assert.True(t, res.Metadata.Config.EnableKeywordDetection)
}

func TestAnalyze_WireFieldNames(t *testing.T) {
	rec := do(newRouter(&fakeSvc{}), stdhttp.MethodPost, "/analyze", `{"text":"x"}`)
	body := rec.Body.String()
	for _, key := range []string{`"level"`, `"indicators"`, `"recommendations"`, `"analysis_time_ms"`, `"severity_score"`, `"match_type"`, `"type":"keyword"`} {
		assert.Contains(t, body, key)
	}
}

func TestAnalyze_EmptyTextAllowed(t *testing.T) {
	f := &fakeSvc{}
	rec := do(newRouter(f), stdhttp.MethodPost, "/analyze", `{"text":""}`)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Nil(t, f.gotCfg)
}

func TestAnalyze_BadBodies(t *testing.T) {
	r := newRouter(&fakeSvc{})
	for name, body := range map[string]string{
		"empty":         "",
		"malformed":     `{"text":`,
		"unknown field": `{"text":"x","mood":"sad"}`,
		"wrong type":    `{"text":5}`,
	} {
		rec := do(r, stdhttp.MethodPost, "/analyze", body)
		assert.Equal(t, stdhttp.StatusBadRequest, rec.Code, name)
		assert.Equal(t, perr.ErrorCodeJSON, decode(t, rec).Code, name)
	}
}

func TestAnalyze_ServiceError(t *testing.T) {
	f := &fakeSvc{err: perr.Timeoutf("analysis canceled")}
	rec := do(newRouter(f), stdhttp.MethodPost, "/analyze", `{"text":"x"}`)
	assert.Equal(t, stdhttp.StatusGatewayTimeout, rec.Code)
}

func TestBatch(t *testing.T) {
	f := &fakeSvc{}
	rec := do(newRouter(f), stdhttp.MethodPost, "/analyze/batch", `{"items":[{"id":"a","text":"one"},{"text":"two"}],"config":{"enable_pattern_matching":false}}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, f.gotBatch.Items, 2)
	assert.Equal(t, "a", f.gotBatch.Items[0].ID)
	require.NotNil(t, f.gotBatch.Config.EnablePatternMatching)
	assert.False(t, *f.gotBatch.Config.EnablePatternMatching)

	var out domain.BatchResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &out))
	assert.Equal(t, 2, out.Summary.Count)
}

func TestBatch_Validation(t *testing.T) {
	r := newRouter(&fakeSvc{})

	rec := do(r, stdhttp.MethodPost, "/analyze/batch", `{"items":[]}`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, perr.ErrorCodeValidation, env.Code)
	assert.Equal(t, "items", env.Field)

	long := strings.Repeat("z", 129)
	rec = do(r, stdhttp.MethodPost, "/analyze/batch", `{"items":[{"id":"`+long+`","text":"x"}]}`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decode(t, rec).Field)
}

func TestBatch_TooMany(t *testing.T) {
	f := &fakeSvc{err: perr.WithField(perr.TooManyf("batch has 3 items, limit is 2"), "items")}
	rec := do(newRouter(f), stdhttp.MethodPost, "/analyze/batch", `{"items":[{"text":"a"},{"text":"b"},{"text":"c"}]}`)
	assert.Equal(t, stdhttp.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "items", decode(t, rec).Field)
}

func TestCatalog(t *testing.T) {
	r := newRouter(&fakeSvc{})

	rec := do(r, stdhttp.MethodGet, "/contacts", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var list domain.ContactList
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	assert.Equal(t, contacts.Default().Len(), len(list.Contacts))

	rec = do(r, stdhttp.MethodGet, "/lexicon", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"keyword_count":16`)
	assert.NotContains(t, rec.Body.String(), "kill myself")
}
