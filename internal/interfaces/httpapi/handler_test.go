package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

var testNow = time.Date(2025, 11, 15, 18, 0, 0, 0, time.UTC)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (o *fakeObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, recordedRequest{method: method, route: route, status: status})
}

func newTestRouter(t *testing.T, observer RequestObserver) http.Handler {
	t.Helper()

	now := func() time.Time { return testNow }
	logger := logging.NewNop()
	store := memory.NewKVStore(nil)
	injuries := usecase.NewInjuryService(nil, store, nil, logger, usecase.InjuryServiceConfig{Now: now})
	tables := usecase.NewTablesService(store, projection.Tables{}, logger)

	handler := NewHandler(Services{
		Trixie: usecase.NewTrixieService(injuries, tables, store, nil, nil, logger, usecase.TrixieServiceConfig{
			MaxCombinations: 10,
			Samples:         500,
			Now:             now,
		}),
		Slate:   usecase.NewSlateService(nil, logger),
		Audit:   usecase.NewAuditService(store, nil, nil, logger, usecase.AuditServiceConfig{Now: now}),
		Injury:  injuries,
		Tables:  tables,
		Pricing: usecase.NewPricingService(500),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
	}, logger)

	return NewRouter(handler, logger, []string{"*"}, observer)
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *googleErrorBody `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch typed := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(typed))
	default:
		raw, err := sonic.Marshal(typed)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response: %v body=%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func slateRequest() map[string]any {
	spread, total := -5.5, 226.0
	spread2, total2 := -3.0, 233.0

	var lines []map[string]any
	for _, code := range []string{"BOS", "NYK", "DEN", "LAL"} {
		lines = append(lines,
			map[string]any{"display_name": code + " Star", "team": code, "position": "SF", "is_starter": true, "min_L5": 35, "pts_L5": 27, "reb_L5": 8, "ast_L5": 5, "3pm_L5": 3, "stl_L5": 1.1, "blk_L5": 0.6},
			map[string]any{"display_name": code + " Guard", "team": code, "position": "PG", "is_starter": true, "min_L5": 33, "pts_L5": 19, "reb_L5": 4, "ast_L5": 8, "3pm_L5": 2.2, "stl_L5": 1.4, "blk_L5": 0.3},
			map[string]any{"display_name": code + " Big", "team": code, "position": "C", "is_starter": true, "min_L5": 30, "pts_L5": 14, "reb_L5": 11, "ast_L5": 2, "blk_L5": 1.6},
			map[string]any{"display_name": code + " Wing", "team": code, "position": "SG", "is_starter": true, "min_L5": 29, "pts_L5": 13, "reb_L5": 5, "ast_L5": 3, "3pm_L5": 2.5},
			map[string]any{"display_name": code + " Sixth", "team": code, "position": "SG", "min_L5": 24, "pts_L5": 12, "reb_L5": 3, "ast_L5": 4},
		)
	}

	return map[string]any{
		"date": "2025-11-15",
		"games": []usecase.ScheduledGame{
			{GameID: "0022400123", Home: "BOS", Away: "NYK", Spread: &spread, Total: &total},
			{GameID: "0022400124", Home: "DEN", Away: "LAL", Spread: &spread2, Total: &total2},
		},
		"lines":      lines,
		"log_source": "test",
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec, _ := doRequest(t, newTestRouter(t, nil), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGenerateTrixies_CachesAndLogs(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, env := doRequest(t, router, http.MethodPost, "/v1/trixies/generate", slateRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var out generateTrixiesResponse
	if err := sonic.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(out.Trixies) == 0 || out.Date != "2025-11-15" {
		t.Fatalf("unexpected generate output date=%s trixies=%d", out.Date, len(out.Trixies))
	}
	if len(out.Logged) == 0 {
		t.Fatalf("expected generated trixies to be logged")
	}

	rec, env = doRequest(t, router, http.MethodGet, "/v1/trixies/2025-11-15/"+strconv.FormatUint(uint64(out.Seed), 10), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cached run, got %d body=%s", rec.Code, rec.Body.String())
	}
	var cached usecase.GenerateOutput
	if err := sonic.Unmarshal(env.Data, &cached); err != nil {
		t.Fatalf("unmarshal cached: %v", err)
	}
	if cached.RunID != out.RunID || len(cached.Trixies) != len(out.Trixies) {
		t.Fatalf("cached run differs: %s vs %s", cached.RunID, out.RunID)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/v1/audit/tickets?status=pending", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tickets []map[string]any
	if err := sonic.Unmarshal(env.Data, &tickets); err != nil {
		t.Fatalf("unmarshal tickets: %v", err)
	}
	if len(tickets) != len(out.Logged) {
		t.Fatalf("expected %d pending tickets, got %d", len(out.Logged), len(tickets))
	}
}

func TestGenerateTrixies_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	cases := []struct {
		name string
		body any
		want int
	}{
		{name: "empty body", body: nil, want: http.StatusBadRequest},
		{name: "bad date", body: map[string]any{"date": "15/11/2025", "games": []map[string]any{{"home": "BOS", "away": "NYK"}}}, want: http.StatusBadRequest},
		{name: "no games", body: map[string]any{"date": "2025-11-15", "games": []any{}}, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"date":"2025-11-15","games":[{"home":"BOS","away":"NYK"}],"bogus":1}`, want: http.StatusBadRequest},
		{name: "unknown profile", body: map[string]any{"date": "2025-11-15", "games": []map[string]any{{"home": "BOS", "away": "NYK"}}, "profiles": []string{"YOLO"}}, want: http.StatusBadRequest},
		{name: "no stored lines", body: map[string]any{"date": "2025-11-15", "games": []map[string]any{{"home": "BOS", "away": "NYK"}}}, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, router, http.MethodPost, "/v1/trixies/generate", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Status != "INVALID_ARGUMENT" {
				t.Fatalf("expected INVALID_ARGUMENT envelope, got %+v", env.Error)
			}
		})
	}
}

func TestGetCachedTrixies_Errors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	if rec, _ := doRequest(t, router, http.MethodGet, "/v1/trixies/2025-11-15/notaseed", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad seed, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, router, http.MethodGet, "/v1/trixies/2025-11-15/42", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown run, got %d", rec.Code)
	}
}

func TestAuditTickets_LogAndVoid(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	trixie, err := prop.NewTrixie(prop.Balanced, "balanced_mix", []prop.Leg{
		{Player: "J. Doe", Team: "BOS", GameID: "401585001", Market: market.PTS, Line: 20, Odds: 1.9, Tier: prop.TierMid},
	})
	if err != nil {
		t.Fatalf("new trixie: %v", err)
	}

	rec, env := doRequest(t, router, http.MethodPost, "/v1/audit/tickets", map[string]any{"trixie": trixie, "source": "ui"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var logged logTicketResponse
	if err := sonic.Unmarshal(env.Data, &logged); err != nil {
		t.Fatalf("unmarshal ticket: %v", err)
	}
	if logged.Ticket.ID != trixie.ID || !logged.Inserted {
		t.Fatalf("unexpected logged ticket %+v", logged)
	}

	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/audit/tickets", map[string]any{"trixie": trixie}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}

	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/audit/tickets/"+trixie.ID+"/void", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected void to succeed, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/audit/tickets/missing/void", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing ticket, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/audit/validate-pending", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected empty pending run to succeed, got %d", rec.Code)
	}
}

func TestAuditTickets_StrictRejectsDuplicatePlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	trixie, err := prop.NewTrixie(prop.Balanced, "balanced_mix", []prop.Leg{
		{Player: "J. Doe", Team: "BOS", GameID: "401585001", Market: market.PTS, Line: 20, Odds: 1.9, Tier: prop.TierMid},
		{Player: "J. Doe", Team: "BOS", GameID: "401585001", Market: market.REB, Line: 6, Odds: 1.7, Tier: prop.TierFloor},
	})
	if err != nil {
		t.Fatalf("new trixie: %v", err)
	}

	rec, env := doRequest(t, router, http.MethodPost, "/v1/audit/tickets", map[string]any{"trixie": trixie, "strict": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Errors[0].Reason != "invalidTrixie" {
		t.Fatalf("expected invalidTrixie reason, got %+v", env.Error)
	}
}

func TestQuoteLeg(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, env := doRequest(t, router, http.MethodPost, "/v1/pricing/quote", map[string]any{
		"market": "PTS", "mean": 24, "line": 20.5, "cv": 0.25, "offered_odds": 1.9,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var quote map[string]any
	if err := sonic.Unmarshal(env.Data, &quote); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	if stake, _ := quote["kelly_stake"].(float64); stake <= 0 {
		t.Fatalf("expected positive stake for a favourable over, got %v", quote["kelly_stake"])
	}

	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/pricing/quote", map[string]any{"market": "FOULS", "mean": 3, "line": 2.5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown market, got %d", rec.Code)
	}
}

func TestSlateAndReferenceRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	spread := -13.5
	rec, env := doRequest(t, router, http.MethodPost, "/v1/slate/games", map[string]any{
		"date":  "2025-11-15",
		"games": []usecase.ScheduledGame{{Home: "BOS", Away: "NYK", Spread: &spread}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var games []map[string]any
	if err := sonic.Unmarshal(env.Data, &games); err != nil {
		t.Fatalf("unmarshal games: %v", err)
	}
	if len(games) != 1 || games[0]["game_id"] != "NYK@BOS" || games[0]["blowout_risk"] != "HIGH" {
		t.Fatalf("unexpected slate %v", games)
	}

	if rec, _ := doRequest(t, router, http.MethodGet, "/v1/odds/events/1601/props", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without odds feed, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/injuries/refresh", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without injury feed, got %d", rec.Code)
	}
	if rec, _ := doRequest(t, router, http.MethodGet, "/v1/injuries", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty report, got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPut, "/v1/tables", map[string]any{"pace": map[string]float64{"BOS": 101.2}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected tables save to succeed, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec, _ := doRequest(t, router, http.MethodPut, "/v1/tables", map[string]any{"pace": map[string]float64{"BOS": -1}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative pace, got %d", rec.Code)
	}
}

func TestRouter_ObservesMatchedRoute(t *testing.T) {
	t.Parallel()

	observer := &fakeObserver{}
	router := newTestRouter(t, observer)

	if rec, _ := doRequest(t, router, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected metrics handler, got %d", rec.Code)
	}
	doRequest(t, router, http.MethodGet, "/v1/trixies/2025-11-15/42", nil)
	doRequest(t, router, http.MethodGet, "/nope", nil)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	want := []recordedRequest{
		{method: http.MethodGet, route: "GET /metrics", status: http.StatusOK},
		{method: http.MethodGet, route: "GET /v1/trixies/{date}/{seed}", status: http.StatusNotFound},
		{method: http.MethodGet, route: "unmatched", status: http.StatusNotFound},
	}
	if len(observer.seen) != len(want) {
		t.Fatalf("expected %d observations, got %+v", len(want), observer.seen)
	}
	for i := range want {
		if observer.seen[i] != want[i] {
			t.Fatalf("observation %d: got %+v want %+v", i, observer.seen[i], want[i])
		}
	}
}
