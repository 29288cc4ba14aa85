package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/games"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ games.Observer = (*Registry)(nil)

func TestRegistryCounts(t *testing.T) {
	r := NewRegistry()

	r.CardAssembled(games.GameTypePlayoffs)
	r.CardAssembled(games.GameTypePlayoffs)
	r.CardAssembled(games.GameTypeRegularSeason)
	r.SummaryFetchFailed()
	r.LeadersFallbackUsed()
	r.LeadersFallbackUsed()
	r.ReplayLinkMissing()
	r.ScoreboardFetchFailed()
	r.BoardBuilt(250*time.Millisecond, 3)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"playoff cards", testutil.ToFloat64(r.CardsAssembled.WithLabelValues(games.GameTypePlayoffs)), 2},
		{"regular cards", testutil.ToFloat64(r.CardsAssembled.WithLabelValues(games.GameTypeRegularSeason)), 1},
		{"summary failures", testutil.ToFloat64(r.SummaryFetchFailures), 1},
		{"fallbacks", testutil.ToFloat64(r.LeaderFallbacks), 2},
		{"replay missing", testutil.ToFloat64(r.ReplayLinksMissing), 1},
		{"scoreboard failures", testutil.ToFloat64(r.ScoreboardFailures), 1},
		{"last board", testutil.ToFloat64(r.LastBoardCards), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.CardAssembled(games.GameTypePlayIn)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`courtside_cards_assembled_total{game_type="Play-In"} 1`,
		"courtside_board_build_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
