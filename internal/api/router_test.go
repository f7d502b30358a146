package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"commodity-forecast/internal/api/models"
	"commodity-forecast/internal/data"
	"commodity-forecast/internal/forecast"
	"commodity-forecast/internal/metrics"
	"commodity-forecast/internal/model"
	"commodity-forecast/internal/regressor"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fixtureStore() *data.Store {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var obs []model.Observation
	add := func(market, variety string, prices ...float64) {
		for i, p := range prices {
			obs = append(obs, model.Observation{
				Market:         market,
				Variety:        variety,
				Date:           start.AddDate(0, 0, i),
				MinPrice:       p,
				ArrivalsTonnes: 10,
			})
		}
	}
	add("Mumbai", "Sugar", 40, 42, 44, 46, 48, 47, 48, 50, 52, 50)
	add("Mumbai", "Onion", 10, 30, 20)
	add("Pune", "Garlic", 90, 95)
	return data.NewStore(obs)
}

type testServer struct {
	router  *gin.Engine
	metrics *metrics.Recorder
}

func newTestServer(t *testing.T, m regressor.Regressor) *testServer {
	t.Helper()
	store := fixtureStore()
	rec := metrics.New()
	router := NewRouter(Deps{
		Service: forecast.NewService(store, m, 30),
		Store:   store,
		Logger:  zerolog.Nop(),
		Metrics: rec,
		CORS:    CORSOptions([]string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"}),
	})
	return &testServer{router: router, metrics: rec}
}

func lagPlusOne() regressor.Regressor {
	return regressor.Func(func(_ context.Context, fv model.FeatureVector) (float64, error) {
		return fv.Lag1 + 1.25, nil
	})
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestPredict(t *testing.T) {
	s := newTestServer(t, lagPlusOne())

	for _, path := range []string{"/predict", "/api/v1/predict"} {
		w := s.do(http.MethodPost, path, `{"market":"Mumbai","variety":"Sugar","days":3}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
		resp := decode[models.PredictResponse](t, w)
		if resp.Market != "Mumbai" || resp.Variety != "Sugar" || len(resp.Predictions) != 3 {
			t.Fatalf("unexpected response %+v", resp)
		}
		wantDates := []string{"2024-01-11", "2024-01-12", "2024-01-13"}
		wantPrices := []float64{51.25, 52.5, 53.75}
		for i, p := range resp.Predictions {
			if p.Date != wantDates[i] || p.Price != wantPrices[i] {
				t.Fatalf("prediction %d: got %+v, want %s %v", i, p, wantDates[i], wantPrices[i])
			}
		}
	}
}

func TestPredictErrors(t *testing.T) {
	s := newTestServer(t, lagPlusOne())

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing variety", `{"market":"Mumbai","days":3}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"zero days", `{"market":"Mumbai","variety":"Sugar","days":0}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"negative days", `{"market":"Mumbai","variety":"Sugar","days":-2}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"over horizon", `{"market":"Mumbai","variety":"Sugar","days":31}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed", `{"market":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown pair", `{"market":"Delhi","variety":"Sugar","days":1}`, http.StatusNotFound, "NOT_FOUND"},
		{"short history", `{"market":"Pune","variety":"Garlic","days":1}`, http.StatusInternalServerError, "INSUFFICIENT_HISTORY"},
	}
	for _, tc := range cases {
		w := s.do(http.MethodPost, "/predict", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, w.Code, w.Body.String())
		}
		resp := decode[models.ErrorResponse](t, w)
		if resp.Error.Code != tc.code || resp.Error.Message == "" {
			t.Fatalf("%s: unexpected error body %+v", tc.name, resp)
		}
	}

	w := s.do(http.MethodPost, "/predict", `{"market":"Mumbai","days":3}`)
	resp := decode[models.ErrorResponse](t, w)
	if _, ok := resp.Error.Details["variety"]; !ok {
		t.Fatalf("expected per-field details, got %+v", resp.Error.Details)
	}
}

func TestPredictModelFailure(t *testing.T) {
	s := newTestServer(t, regressor.Func(func(context.Context, model.FeatureVector) (float64, error) {
		return 0, errors.New("scorer unavailable")
	}))
	w := s.do(http.MethodPost, "/predict", `{"market":"Mumbai","variety":"Sugar","days":2}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	resp := decode[models.ErrorResponse](t, w)
	if resp.Error.Code != "INTERNAL_ERROR" || !strings.Contains(resp.Error.Message, "scorer unavailable") {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestMarketsAndVarieties(t *testing.T) {
	s := newTestServer(t, lagPlusOne())

	first := decode[models.MarketsResponse](t, s.do(http.MethodGet, "/markets", ""))
	second := decode[models.MarketsResponse](t, s.do(http.MethodGet, "/api/v1/markets", ""))
	if strings.Join(first.Markets, ",") != "Mumbai,Pune" || strings.Join(second.Markets, ",") != "Mumbai,Pune" {
		t.Fatalf("unexpected markets %v %v", first.Markets, second.Markets)
	}

	w := s.do(http.MethodGet, "/varieties?market=Mumbai", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if v := decode[models.VarietiesResponse](t, w); strings.Join(v.Varieties, ",") != "Sugar,Onion" {
		t.Fatalf("unexpected varieties %v", v.Varieties)
	}

	w = s.do(http.MethodGet, "/varieties?market=Nowhere", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"varieties":[]}` {
		t.Fatalf("unknown market should give empty list, got %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/varieties", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing market: expected 400, got %d", w.Code)
	}
}

func TestHealthSummaryRank(t *testing.T) {
	s := newTestServer(t, lagPlusOne())

	h := decode[models.HealthResponse](t, s.do(http.MethodGet, "/health", ""))
	if h.Status != "ok" || h.Observations != 15 {
		t.Fatalf("unexpected health %+v", h)
	}

	w := s.do(http.MethodGet, "/summary?market=Mumbai&variety=Onion", "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", w.Code)
	}
	sum := decode[models.SummaryResponse](t, w)
	if sum.Count != 3 || sum.MinPrice != 10 || sum.MaxPrice != 30 || sum.Window.End != "2024-01-03" {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if w := s.do(http.MethodGet, "/summary?market=Mumbai&variety=Rice", ""); w.Code != http.StatusNotFound {
		t.Fatalf("summary unknown: expected 404, got %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/summary?market=Mumbai", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("summary missing variety: expected 400, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/rank?market=Mumbai", "")
	if w.Code != http.StatusOK {
		t.Fatalf("rank: expected 200, got %d", w.Code)
	}
	rank := decode[models.RankResponse](t, w)
	if len(rank.Rankings) != 2 || rank.Rankings[0].Variety != "Onion" || rank.Rankings[0].Rank != 1 {
		t.Fatalf("unexpected ranking %+v", rank)
	}
	rank = decode[models.RankResponse](t, s.do(http.MethodGet, "/rank?market=Mumbai&limit=1", ""))
	if len(rank.Rankings) != 1 {
		t.Fatalf("limit not applied: %+v", rank)
	}
	if w := s.do(http.MethodGet, "/rank?market=Nowhere", ""); w.Code != http.StatusNotFound {
		t.Fatalf("rank unknown: expected 404, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, lagPlusOne())
	s.do(http.MethodPost, "/predict", `{"market":"Mumbai","variety":"Sugar","days":2}`)
	s.do(http.MethodPost, "/predict", `{"market":"Delhi","variety":"Sugar","days":2}`)

	w := s.do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`commodity_forecast_forecasts_total{outcome="ok"} 1`,
		`commodity_forecast_forecasts_total{outcome="not_found"} 1`,
		`commodity_forecast_http_requests_total{method="POST",route="/predict",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, lagPlusOne())
	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	s := newTestServer(t, lagPlusOne())
	s.router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := s.do(http.MethodGet, "/boom", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	resp := decode[models.ErrorResponse](t, w)
	if resp.Error.Code != "INTERNAL_ERROR" || resp.Error.Message != "kaboom" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, lagPlusOne())
	w := s.do(http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := decode[models.ErrorResponse](t, w); resp.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
