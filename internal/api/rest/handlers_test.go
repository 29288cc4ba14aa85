package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/games"
	"github.com/fortuna/courtside/internal/service"
)

type fakeBoards struct {
	err    error
	params []string
	panic  bool
}

func (f *fakeBoards) CardsForDate(_ context.Context, dateParam string) (*service.Board, error) {
	if f.panic {
		panic("boom")
	}
	f.params = append(f.params, dateParam)
	if f.err != nil {
		return nil, f.err
	}
	date := dateParam
	if date == "" {
		date = "2024-06-13"
	}
	return &service.Board{Date: date, Games: []games.GameCard{{GameID: "401656363", Badges: []string{}}}}, nil
}

type fakeRanges struct {
	specs  []backfill.JobSpec
	boards []*service.Board
	err    error
}

func (f *fakeRanges) Run(_ context.Context, spec backfill.JobSpec, _ backfill.Reporter) ([]*service.Board, error) {
	f.specs = append(f.specs, spec)
	return f.boards, f.err
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetGames(t *testing.T) {
	boards := &fakeBoards{}
	router := NewRouter(boards, &fakeRanges{}, Options{})

	rec := do(t, router, "GET", "/api/games?date=2024-06-12")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["date"] != "2024-06-12" {
		t.Errorf("date = %v", body["date"])
	}
	list, ok := body["games"].([]interface{})
	if !ok || len(list) != 1 {
		t.Fatalf("games = %v", body["games"])
	}
	card := list[0].(map[string]interface{})
	if v, present := card["replayLink"]; !present || v != nil {
		t.Errorf("replayLink must be present and null, got %v (present=%v)", v, present)
	}

	do(t, router, "GET", "/api/games")
	if len(boards.params) != 2 || boards.params[1] != "" {
		t.Errorf("date params forwarded = %q", boards.params)
	}
}

func TestGetGames_ScoreboardFailure(t *testing.T) {
	router := NewRouter(&fakeBoards{err: errors.New("curl: (22) 503")}, nil, Options{})

	rec := do(t, router, "GET", "/api/games?date=2024-06-12")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to fetch scoreboard") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestPreflight(t *testing.T) {
	boards := &fakeBoards{}
	rec := do(t, NewRouter(boards, nil, Options{}), "OPTIONS", "/api/games")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if len(boards.params) != 0 {
		t.Error("preflight must not build a board")
	}
}

func TestRecovery(t *testing.T) {
	rec := do(t, NewRouter(&fakeBoards{panic: true}, nil, Options{}), "GET", "/api/games")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, NewRouter(&fakeBoards{}, nil, Options{}), "GET", "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}
}

func TestOptionalRoutes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>board</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("courtside_up 1")) })

	router := NewRouter(&fakeBoards{}, nil, Options{Metrics: metrics, StaticDir: dir})

	if rec := do(t, router, "GET", "/metrics"); rec.Body.String() != "courtside_up 1" {
		t.Errorf("metrics = %q", rec.Body)
	}
	if rec := do(t, router, "GET", "/"); !strings.Contains(rec.Body.String(), "<h1>board</h1>") {
		t.Errorf("index = %d %q", rec.Code, rec.Body)
	}

	bare := NewRouter(&fakeBoards{}, nil, Options{})
	if rec := do(t, bare, "GET", "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("metrics without handler = %d", rec.Code)
	}
}

func TestGetRange(t *testing.T) {
	ranges := &fakeRanges{boards: []*service.Board{{Date: "2024-06-12", Games: []games.GameCard{}}}}
	router := NewRouter(&fakeBoards{}, ranges, Options{})

	rec := do(t, router, "GET", "/api/games/range?start=2024-06-12&end=2024-06-14")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if len(ranges.specs) != 1 || ranges.specs[0].Type != backfill.JobTypeDateRange {
		t.Fatalf("specs = %+v", ranges.specs)
	}
	if got := ranges.specs[0].End.Format("2006-01-02"); got != "2024-06-14" {
		t.Errorf("end = %s", got)
	}
}

func TestGetRange_Validation(t *testing.T) {
	router := NewRouter(&fakeBoards{}, &fakeRanges{}, Options{})

	for _, target := range []string{
		"/api/games/range?start=2024-06-12",
		"/api/games/range?start=June&end=2024-06-14",
		"/api/games/range?start=2024-06-14&end=2024-06-12",
		"/api/games/range?start=2024-01-01&end=2024-03-01",
	} {
		if rec := do(t, router, "GET", target); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, rec.Code)
		}
	}
}

func TestGetRange_AllDatesFailed(t *testing.T) {
	router := NewRouter(&fakeBoards{}, &fakeRanges{err: errors.New("scoreboard unavailable")}, Options{})
	if rec := do(t, router, "GET", "/api/games/range?start=2024-06-12&end=2024-06-12"); rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPollerStatus(t *testing.T) {
	status := func() map[string]interface{} {
		return map[string]interface{}{"consecutive_errors": 0, "last_board_date": "20240613"}
	}
	router := NewRouter(&fakeBoards{}, nil, Options{PollerStatus: status})

	rec := do(t, router, "GET", "/api/poller/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["last_board_date"] != "20240613" || body["consecutive_errors"] != float64(0) {
		t.Errorf("body = %v", body)
	}

	bare := NewRouter(&fakeBoards{}, nil, Options{})
	if rec := do(t, bare, "GET", "/api/poller/status"); rec.Code != http.StatusNotFound {
		t.Errorf("poller status without poller = %d", rec.Code)
	}
}
