package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/games"
	"github.com/redis/go-redis/v9"
)

const (
	// FinalCardsStream receives one entry per finished game card.
	FinalCardsStream = "games.final.basketball_nba"

	streamMaxLen = 10000
)

// streamAdder is the slice of the Redis client the publisher uses.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends finished game cards to a Redis stream. Each game id
// is published once per process.
type RedisPublisher struct {
	client streamAdder
	closer func() error

	mu        sync.Mutex
	published map[string]struct{}
	inFlight  map[string]struct{}
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisPublisher(client, client.Close), nil
}

func newRedisPublisher(client streamAdder, closer func() error) *RedisPublisher {
	return &RedisPublisher{
		client:    client,
		closer:    closer,
		published: make(map[string]struct{}),
		inFlight:  make(map[string]struct{}),
	}
}

// Close closes the Redis connection.
func (rp *RedisPublisher) Close() error {
	if rp.closer == nil {
		return nil
	}
	return rp.closer()
}

// PublishGameCard publishes a single card. Cards already published, or being
// published by another caller, are skipped.
func (rp *RedisPublisher) PublishGameCard(ctx context.Context, date string, card games.GameCard) error {
	if !rp.reserve(card.GameID) {
		return nil
	}

	data, err := json.Marshal(card)
	if err != nil {
		rp.release(card.GameID, false)
		return err
	}

	err = rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: FinalCardsStream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"game_id":   card.GameID,
			"date":      date,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		rp.release(card.GameID, false)
		return fmt.Errorf("xadd %s game %s: %w", FinalCardsStream, card.GameID, err)
	}

	rp.release(card.GameID, true)
	return nil
}

// PublishBoard publishes every card of a board and joins the failures.
func (rp *RedisPublisher) PublishBoard(ctx context.Context, date string, cards []games.GameCard) error {
	var errs []error
	for _, card := range cards {
		if err := rp.PublishGameCard(ctx, date, card); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reserve claims gameID for one publisher call. It fails when the id is
// already published or in flight.
func (rp *RedisPublisher) reserve(gameID string) bool {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if _, ok := rp.published[gameID]; ok {
		return false
	}
	if _, ok := rp.inFlight[gameID]; ok {
		return false
	}
	rp.inFlight[gameID] = struct{}{}
	return true
}

// release drops the reservation. Unpublished ids become eligible again.
func (rp *RedisPublisher) release(gameID string, published bool) {
	rp.mu.Lock()
	delete(rp.inFlight, gameID)
	if published {
		rp.published[gameID] = struct{}{}
	}
	rp.mu.Unlock()
}
