package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors. It implements
// games.Observer.
type Registry struct {
	reg *prometheus.Registry

	CardsAssembled       *prometheus.CounterVec
	SummaryFetchFailures prometheus.Counter
	LeaderFallbacks      prometheus.Counter
	ReplayLinksMissing   prometheus.Counter
	ScoreboardFailures   prometheus.Counter
	BoardBuildSec        prometheus.Histogram
	LastBoardCards       prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	cards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "courtside_cards_assembled_total",
		Help: "Game cards built, by game type.",
	}, []string{"game_type"})
	summaryFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "courtside_summary_fetch_failures_total"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "courtside_leader_fallbacks_total"})
	replayMissing := prometheus.NewCounter(prometheus.CounterOpts{Name: "courtside_replay_links_missing_total"})
	scoreboardFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "courtside_scoreboard_fetch_failures_total"})
	buildSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "courtside_board_build_seconds",
		Buckets: prometheus.DefBuckets,
	})
	lastCards := prometheus.NewGauge(prometheus.GaugeOpts{Name: "courtside_last_board_cards"})

	r.MustRegister(cards, summaryFailures, fallbacks, replayMissing, scoreboardFailures, buildSec, lastCards)
	return &Registry{
		reg:                  r,
		CardsAssembled:       cards,
		SummaryFetchFailures: summaryFailures,
		LeaderFallbacks:      fallbacks,
		ReplayLinksMissing:   replayMissing,
		ScoreboardFailures:   scoreboardFailures,
		BoardBuildSec:        buildSec,
		LastBoardCards:       lastCards,
	}
}

func (r *Registry) CardAssembled(gameType string) { r.CardsAssembled.WithLabelValues(gameType).Inc() }
func (r *Registry) SummaryFetchFailed()           { r.SummaryFetchFailures.Inc() }
func (r *Registry) LeadersFallbackUsed()          { r.LeaderFallbacks.Inc() }
func (r *Registry) ReplayLinkMissing()            { r.ReplayLinksMissing.Inc() }

// ScoreboardFetchFailed counts scoreboard requests that returned an error.
func (r *Registry) ScoreboardFetchFailed() { r.ScoreboardFailures.Inc() }

// BoardBuilt records how long a board took and how many cards it held.
func (r *Registry) BoardBuilt(elapsed time.Duration, cards int) {
	r.BoardBuildSec.Observe(elapsed.Seconds())
	r.LastBoardCards.Set(float64(cards))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
