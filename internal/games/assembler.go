package games

import (
	"context"
	"log"
	"strconv"

	"github.com/fortuna/courtside/internal/ingest/espn"
)

// SummaryFetcher loads the ESPN game summary that carries the boxscore.
type SummaryFetcher interface {
	FetchGameSummary(ctx context.Context, sportPath string, gameID string) (map[string]interface{}, error)
}

// ReplayFinder looks up a replay link for a team's full name. A nil result
// means no link was found.
type ReplayFinder interface {
	FindReplayLink(ctx context.Context, teamFullName string) *string
}

// Observer receives per-card outcomes, mostly for metrics.
type Observer interface {
	CardAssembled(gameType string)
	SummaryFetchFailed()
	LeadersFallbackUsed()
	ReplayLinkMissing()
}

type nopObserver struct{}

func (nopObserver) CardAssembled(string) {}
func (nopObserver) SummaryFetchFailed()  {}
func (nopObserver) LeadersFallbackUsed() {}
func (nopObserver) ReplayLinkMissing()   {}

// Assembler turns a scoreboard into game cards for its finished games.
type Assembler struct {
	summaries SummaryFetcher
	replays   ReplayFinder
	sportPath string
	observer  Observer
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithSportPath overrides the ESPN sport path used for summary requests.
func WithSportPath(path string) Option {
	return func(a *Assembler) {
		if path != "" {
			a.sportPath = path
		}
	}
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(a *Assembler) {
		if o != nil {
			a.observer = o
		}
	}
}

// NewAssembler creates an assembler. replays may be nil, in which case every
// card carries a null replay link.
func NewAssembler(summaries SummaryFetcher, replays ReplayFinder, opts ...Option) *Assembler {
	a := &Assembler{
		summaries: summaries,
		replays:   replays,
		sportPath: espn.BasketballNBA,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds one card per finished event, in scoreboard order. Events that
// are scheduled or in progress are skipped. Collaborator failures only degrade
// the affected card.
func (a *Assembler) Assemble(ctx context.Context, scoreboard map[string]interface{}) []GameCard {
	cards := make([]GameCard, 0)

	for _, eventInterface := range espn.ExtractArray(scoreboard, "events") {
		event := espn.AsMap(eventInterface)
		comp := espn.FirstCompetition(event)
		if espn.GameState(comp) != "post" {
			continue
		}

		card := a.buildCard(ctx, event, comp)
		a.observer.CardAssembled(card.GameType)
		cards = append(cards, card)
	}

	log.Printf("[assembler] built %d game cards", len(cards))
	return cards
}

func (a *Assembler) buildCard(ctx context.Context, event, comp map[string]interface{}) GameCard {
	home, away := espn.HomeAway(comp)
	homeTeam, awayTeam := espn.ExtractMap(home, "team"), espn.ExtractMap(away, "team")
	gameID := eventID(event)

	round, gameNum := ParseRoundAndGame(event)
	seriesPre := SeriesBeforeGame(
		espn.ExtractString(espn.ExtractMap(comp, "series"), "summary"),
		espn.ExtractArray(comp, "competitors"),
	)
	gameType := GameTypeFromCode(espn.ExtractInt(espn.ExtractMap(event, "season"), "type", 1))

	lines := ExtractStatLines(espn.ExtractMap(a.fetchSummary(ctx, gameID), "boxscore"))
	if len(lines) == 0 {
		lines = StatLinesFromLeaders(comp)
		a.observer.LeadersFallbackUsed()
		log.Printf("[assembler] game %s: no usable boxscore, using %d leader lines", gameID, len(lines))
	}

	badges := EvaluateBadges(lines, home, away, espn.ExtractMap(comp, "status"))

	fullHome := espn.FallbackString(espn.ExtractString(homeTeam, "displayName"), espn.ExtractString(homeTeam, "name"))
	replayLink := a.findReplay(ctx, fullHome)

	return GameCard{
		GameID:     gameID,
		TipoffUTC:  espn.ExtractString(event, "date"),
		Home:       espn.ExtractString(homeTeam, "abbreviation"),
		Away:       espn.ExtractString(awayTeam, "abbreviation"),
		HomeLogo:   espn.ExtractString(homeTeam, "logo"),
		AwayLogo:   espn.ExtractString(awayTeam, "logo"),
		Round:      round,
		GameNum:    gameNum,
		GameType:   gameType,
		SeriesPre:  seriesPre,
		Badges:     badges,
		ReplayLink: replayLink,
	}
}

// fetchSummary returns an empty document when the fetch fails.
func (a *Assembler) fetchSummary(ctx context.Context, gameID string) map[string]interface{} {
	if a.summaries == nil {
		return map[string]interface{}{}
	}
	summary, err := a.summaries.FetchGameSummary(ctx, a.sportPath, gameID)
	if err != nil {
		a.observer.SummaryFetchFailed()
		log.Printf("[assembler] game %s: summary fetch failed: %v", gameID, err)
		return map[string]interface{}{}
	}
	if summary == nil {
		return map[string]interface{}{}
	}
	return summary
}

func (a *Assembler) findReplay(ctx context.Context, teamName string) *string {
	var link *string
	if a.replays != nil && teamName != "" {
		link = a.replays.FindReplayLink(ctx, teamName)
	}
	if link == nil {
		a.observer.ReplayLinkMissing()
	}
	return link
}

// eventID accepts both string and numeric event ids.
func eventID(event map[string]interface{}) string {
	if id := espn.ExtractString(event, "id"); id != "" {
		return id
	}
	if v, ok := event["id"].(float64); ok {
		return strconv.Itoa(int(v))
	}
	return ""
}
