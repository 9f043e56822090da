package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/monitor"
	"github.com/hamed0406/apihealth/internal/repo/memory"
)

// ---- test helpers ----

type fakeProber struct {
	code int
}

func (f *fakeProber) Execute(_ context.Context, target string) domain.ProbeRecord {
	if f.code == 0 {
		msg := "dial tcp: lookup nowhere.invalid: no such host"
		return domain.ProbeRecord{TargetURL: target, ResponseTimeMS: 2, ErrorMessage: &msg}
	}
	return domain.ProbeRecord{
		TargetURL:      target,
		StatusCode:     f.code,
		IsUp:           f.code >= 200 && f.code < 400,
		ResponseTimeMS: 12.5,
	}
}

type brokenStore struct{ *memory.Store }

func (brokenStore) Recent(context.Context, int) ([]domain.ProbeRecord, error) {
	return nil, errors.New("db down")
}

func setup(t *testing.T, code int) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := monitor.NewService(zap.NewNop(), store, store, &fakeProber{code: code})
	srv := NewServer(zap.NewNop(), svc)

	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(Options{RateLimitRPM: 10_000, RateLimitBurst: 10_000}))
	t.Cleanup(ts.Close)
	return ts, store
}

func getJSON(t *testing.T, u string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// ---- tests ----

func TestHome_TriggerStoresAndRendersResult(t *testing.T) {
	ts, store := setup(t, 200)

	var d monitor.Dashboard
	resp := getJSON(t, ts.URL+"/?url="+url.QueryEscape("http://example.com"), &d)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	require.NotNil(t, d.Result)
	assert.Equal(t, 200, d.Result.StatusCode)
	assert.True(t, d.Result.IsUp)
	assert.Equal(t, "OK", d.Result.StatusText)
	assert.EqualValues(t, "UP", d.Result.HealthCategory)
	require.Len(t, d.RecentChecks, 1)
	require.Len(t, d.UptimeStats, 1)
	assert.Equal(t, "http://example.com", d.UptimeStats[0].TargetURL)

	stored, _ := store.All(context.Background())
	assert.Len(t, stored, 1)
}

func TestHome_UnreachableRendersFailure(t *testing.T) {
	ts, _ := setup(t, 0)

	var raw map[string]any
	getJSON(t, ts.URL+"/api/checks?url="+url.QueryEscape("http://nowhere.invalid"), &raw)
	result, ok := raw["result"].(map[string]any)
	require.True(t, ok, "result object expected: %v", raw)
	assert.EqualValues(t, 0, result["status_code"])
	assert.Equal(t, false, result["is_up"])
	assert.Equal(t, "No HTTP response", result["status_text"])
	assert.Equal(t, "DOWN", result["health_category"])
	assert.NotEmpty(t, result["error_message"])
}

func TestHome_NoURLStillRendersDashboard(t *testing.T) {
	ts, _ := setup(t, 200)

	var raw map[string]any
	getJSON(t, ts.URL+"/", &raw)
	assert.Nil(t, raw["result"])
	assert.Equal(t, []any{}, raw["recent_checks"])
	assert.Equal(t, []any{}, raw["uptime_stats"])
	assert.Equal(t, []any{}, raw["favorite_apis"])
}

func TestHistory_FiltersByExactURL(t *testing.T) {
	ts, _ := setup(t, 503)
	for _, u := range []string{"http://a.test", "http://b.test", "http://a.test"} {
		getJSON(t, ts.URL+"/?url="+url.QueryEscape(u), nil)
	}

	var h monitor.History
	getJSON(t, ts.URL+"/history?url="+url.QueryEscape("http://a.test"), &h)
	assert.Equal(t, "http://a.test", h.URL)
	require.Len(t, h.Checks, 2)
	assert.Equal(t, 503, h.Checks[0].StatusCode)
	assert.False(t, h.Checks[0].IsUp)
}

func TestHistory_MissingURLIsEmpty(t *testing.T) {
	ts, _ := setup(t, 200)
	getJSON(t, ts.URL+"/?url=http://a.test", nil)

	var h monitor.History
	resp := getJSON(t, ts.URL+"/api/history", &h)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, h.Checks)
}

func TestUptimeAndEndpoints(t *testing.T) {
	ts, store := setup(t, 200)
	require.NoError(t, store.AddEndpoint(context.Background(), &domain.Endpoint{Name: "A", URL: "http://a.test"}))
	getJSON(t, ts.URL+"/?url=http://a.test", nil)

	var stats []domain.UptimeSummary
	getJSON(t, ts.URL+"/api/uptime", &stats)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Total)
	assert.Equal(t, 100.0, stats[0].UptimePercent)

	var eps []domain.Endpoint
	getJSON(t, ts.URL+"/api/endpoints", &eps)
	require.Len(t, eps, 1)
	assert.Equal(t, "A", eps[0].Name)
}

func TestHome_StoreErrorIs500(t *testing.T) {
	store := brokenStore{memory.New()}
	svc := monitor.NewService(zap.NewNop(), store, store, &fakeProber{code: 200})
	ts := httptest.NewServer(NewServer(zap.NewNop(), svc).Router(Options{}))
	defer ts.Close()

	var body map[string]string
	resp := getJSON(t, ts.URL+"/", &body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", body["error"])
}

func TestHealthz(t *testing.T) {
	ts, _ := setup(t, 200)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHome_RateLimited(t *testing.T) {
	store := memory.New()
	svc := monitor.NewService(zap.NewNop(), store, store, &fakeProber{code: 200})
	ts := httptest.NewServer(NewServer(zap.NewNop(), svc).Router(Options{RateLimitRPM: 1, RateLimitBurst: 1}))
	defer ts.Close()

	first := getJSON(t, ts.URL+"/?url=http://a.test", nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	second := getJSON(t, ts.URL+"/?url=http://a.test", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	// history is outside the limited group
	hist := getJSON(t, ts.URL+"/history?url=http://a.test", nil)
	assert.Equal(t, http.StatusOK, hist.StatusCode)
}

func TestHome_RateLimitIgnoresForwardedHeaderByDefault(t *testing.T) {
	store := memory.New()
	svc := monitor.NewService(zap.NewNop(), store, store, &fakeProber{code: 200})
	ts := httptest.NewServer(NewServer(zap.NewNop(), svc).Router(Options{RateLimitRPM: 1, RateLimitBurst: 1}))
	defer ts.Close()

	codes := make([]int, 0, 2)
	for _, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/?url=http://a.test", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", xff)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestHome_TrustProxyKeysOnForwardedAddress(t *testing.T) {
	store := memory.New()
	svc := monitor.NewService(zap.NewNop(), store, store, &fakeProber{code: 200})
	ts := httptest.NewServer(NewServer(zap.NewNop(), svc).Router(Options{
		RateLimitRPM: 1, RateLimitBurst: 1, TrustProxy: true,
	}))
	defer ts.Close()

	for _, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/?url=http://a.test", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", xff)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "client %s", xff)
	}
}
