package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/service"
)

// BoardSource builds the board for a date parameter; "" means today.
type BoardSource interface {
	CardsForDate(ctx context.Context, dateParam string) (*service.Board, error)
}

// Config holds poller configuration
type Config struct {
	PollInterval         time.Duration // Default: 5m
	DailySweepHour       int           // Default: 9, in Location
	Location             *time.Location
	EnableDailySweep     bool
	MaxRetries           int           // Default: 3
	RetryDelay           time.Duration // Default: 5s
	MaxConsecutiveErrors int           // Default: 5
	BackoffDelay         time.Duration // Default: 1m
}

// DefaultConfig returns default poller configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval:         5 * time.Minute,
		DailySweepHour:       9,
		Location:             time.UTC,
		EnableDailySweep:     true,
		MaxRetries:           3,
		RetryDelay:           5 * time.Second,
		MaxConsecutiveErrors: 5,
		BackoffDelay:         time.Minute,
	}
}

// Poller rebuilds today's board on an interval so finished games reach the
// publisher and websocket subscribers without a client request. A daily sweep
// rebuilds yesterday's board to catch games that ended after midnight.
type Poller struct {
	source BoardSource
	config *Config
	now    func() time.Time

	mu                sync.Mutex
	consecutiveErrors int
	lastBoard         *service.Board
	lastSuccess       time.Time
}

// NewPoller creates a poller. A nil config uses DefaultConfig.
func NewPoller(source BoardSource, config *Config) *Poller {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &Poller{source: source, config: config, now: time.Now}
}

// Start polls until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	log.Printf("[poller] started (interval: %v, daily sweep: %v at %02d:00 %s)",
		p.config.PollInterval, p.config.EnableDailySweep, p.config.DailySweepHour, p.config.Location)

	var wg sync.WaitGroup
	if p.config.EnableDailySweep {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runDailySweep(ctx)
		}()
	}

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.pollWithRetry(ctx)

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			log.Println("[poller] stopped")
			return
		case <-ticker.C:
			p.pollWithRetry(ctx)
		}
	}
}

// pollWithRetry builds today's board, retrying failed scoreboard fetches.
func (p *Poller) pollWithRetry(ctx context.Context) {
	var board *service.Board
	var err error

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		board, err = p.source.CardsForDate(ctx, "")
		if err == nil {
			break
		}

		log.Printf("[poller] attempt %d/%d failed: %v", attempt, p.config.MaxRetries, err)
		if attempt < p.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.config.RetryDelay):
			}
		}
	}

	p.mu.Lock()
	if err != nil {
		p.consecutiveErrors++
		errorsInRow := p.consecutiveErrors
		p.mu.Unlock()

		log.Printf("[poller] all %d attempts failed, consecutive errors: %d/%d",
			p.config.MaxRetries, errorsInRow, p.config.MaxConsecutiveErrors)
		if errorsInRow >= p.config.MaxConsecutiveErrors {
			log.Printf("[poller] high error rate, backing off %v", p.config.BackoffDelay)
			select {
			case <-ctx.Done():
			case <-time.After(p.config.BackoffDelay):
			}
		}
		return
	}
	p.consecutiveErrors = 0
	p.lastBoard = board
	p.lastSuccess = p.now()
	p.mu.Unlock()

	log.Printf("[poller] board %s: %d finished games", board.Date, len(board.Games))
}

func (p *Poller) runDailySweep(ctx context.Context) {
	for {
		next := nextDailyRun(p.now().In(p.config.Location), p.config.DailySweepHour)
		wait := time.Until(next)
		log.Printf("[poller] next daily sweep: %s (in %v)", next.Format("2006-01-02 15:04:05"), wait.Round(time.Second))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			p.sweepYesterday(ctx)
		}
	}
}

func (p *Poller) sweepYesterday(ctx context.Context) {
	yesterday := p.now().In(p.config.Location).AddDate(0, 0, -1).Format("2006-01-02")
	board, err := p.source.CardsForDate(ctx, yesterday)
	if err != nil {
		log.Printf("[poller] daily sweep for %s failed: %v", yesterday, err)
		return
	}
	log.Printf("[poller] daily sweep for %s: %d finished games", yesterday, len(board.Games))
}

// nextDailyRun returns the next hour:00 in now's location strictly after now.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// GetStatus returns current poller status
func (p *Poller) GetStatus() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := map[string]interface{}{
		"poll_interval":      p.config.PollInterval.String(),
		"daily_sweep":        p.config.EnableDailySweep,
		"daily_sweep_hour":   p.config.DailySweepHour,
		"consecutive_errors": p.consecutiveErrors,
	}
	if p.lastBoard != nil {
		status["last_board_date"] = p.lastBoard.Date
		status["last_board_games"] = len(p.lastBoard.Games)
		status["last_success"] = p.lastSuccess
	}
	return status
}
