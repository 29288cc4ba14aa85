package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/games"
	"github.com/fortuna/courtside/internal/ingest/espn"
)

const (
	isoDateLayout   = "2006-01-02"
	paramDateLayout = "2006-1-2"
	apiDateLayout   = "20060102"
)

// ScoreboardFetcher loads the ESPN scoreboard for an API date (YYYYMMDD).
type ScoreboardFetcher interface {
	FetchScoreboard(ctx context.Context, sportPath, apiDate string, seasonType int) (map[string]interface{}, error)
}

// CardAssembler turns a scoreboard into game cards.
type CardAssembler interface {
	Assemble(ctx context.Context, scoreboard map[string]interface{}) []games.GameCard
}

// BoardPublisher forwards finished cards downstream.
type BoardPublisher interface {
	PublishBoard(ctx context.Context, date string, cards []games.GameCard) error
}

// BoardBroadcaster pushes boards to live subscribers.
type BoardBroadcaster interface {
	BroadcastBoard(date string, cards []games.GameCard) error
}

// BoardObserver records board-level outcomes.
type BoardObserver interface {
	ScoreboardFetchFailed()
	BoardBuilt(elapsed time.Duration, cards int)
}

// Board is the /api/games response body.
type Board struct {
	Date  string           `json:"date"`
	Games []games.GameCard `json:"games"`
}

// Config controls which scoreboard is requested.
type Config struct {
	SportPath  string
	SeasonType int
	Location   *time.Location
}

// GameService builds boards of finished game cards for a date.
type GameService struct {
	scoreboards ScoreboardFetcher
	assembler   CardAssembler
	publisher   BoardPublisher
	broadcaster BoardBroadcaster
	observer    BoardObserver
	config      Config
	now         func() time.Time
}

// Option customizes a GameService.
type Option func(*GameService)

// WithPublisher sends every built board to p.
func WithPublisher(p BoardPublisher) Option { return func(s *GameService) { s.publisher = p } }

// WithBroadcaster pushes every built board to live subscribers.
func WithBroadcaster(b BoardBroadcaster) Option { return func(s *GameService) { s.broadcaster = b } }

// WithObserver reports board build results to o.
func WithObserver(o BoardObserver) Option { return func(s *GameService) { s.observer = o } }

// WithClock replaces time.Now, used to resolve "today".
func WithClock(now func() time.Time) Option { return func(s *GameService) { s.now = now } }

// NewGameService creates a game service.
func NewGameService(scoreboards ScoreboardFetcher, assembler CardAssembler, config Config, opts ...Option) *GameService {
	if config.SportPath == "" {
		config.SportPath = espn.BasketballNBA
	}
	if config.SeasonType == 0 {
		config.SeasonType = espn.SeasonTypePostseason
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	s := &GameService{
		scoreboards: scoreboards,
		assembler:   assembler,
		config:      config,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveDate maps a date query parameter to the date echoed back to the
// caller and the YYYYMMDD date sent to ESPN. A parseable YYYY-MM-DD (zero
// padding optional) is reformatted. Anything else is forwarded with dashes
// removed. An empty parameter means today in the display timezone.
func (s *GameService) ResolveDate(param string) (echo string, api string) {
	if param == "" {
		today := s.now().In(s.config.Location)
		return today.Format(isoDateLayout), today.Format(apiDateLayout)
	}
	if d, err := time.Parse(paramDateLayout, param); err == nil {
		return param, d.Format(apiDateLayout)
	}
	return param, strings.ReplaceAll(param, "-", "")
}

// CardsForDate fetches the scoreboard for the date parameter and builds the
// board. Only the scoreboard fetch can fail; everything downstream degrades
// per card.
func (s *GameService) CardsForDate(ctx context.Context, dateParam string) (*Board, error) {
	echo, api := s.ResolveDate(dateParam)
	start := time.Now()

	scoreboard, err := s.scoreboards.FetchScoreboard(ctx, s.config.SportPath, api, s.config.SeasonType)
	if err != nil {
		if s.observer != nil {
			s.observer.ScoreboardFetchFailed()
		}
		return nil, fmt.Errorf("fetching scoreboard for %s: %w", api, err)
	}

	cards := s.assembler.Assemble(ctx, scoreboard)
	if cards == nil {
		cards = []games.GameCard{}
	}

	if s.observer != nil {
		s.observer.BoardBuilt(time.Since(start), len(cards))
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBoard(ctx, api, cards); err != nil {
			log.Printf("[games] publish board %s: %v", api, err)
		}
	}
	if s.broadcaster != nil {
		if err := s.broadcaster.BroadcastBoard(echo, cards); err != nil {
			log.Printf("[games] broadcast board %s: %v", echo, err)
		}
	}

	return &Board{Date: echo, Games: cards}, nil
}

// Today builds today's board.
func (s *GameService) Today(ctx context.Context) (*Board, error) {
	return s.CardsForDate(ctx, "")
}
