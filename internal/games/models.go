package games

// StatLine is one player's scoring line for a single game.
type StatLine struct {
	Name string `json:"name"`
	PTS  int    `json:"pts"`
	REB  int    `json:"reb"`
	AST  int    `json:"ast"`
}

// Badge tags shown on a game card.
const (
	BadgePts30        = "pts30"
	BadgePts40        = "pts40"
	BadgePts50        = "pts50"
	BadgeTripleDouble = "tripleDouble"
	BadgeClose4       = "close4"
	BadgeCloseGame    = "closeGame"
	BadgeOvertime     = "overtime"
)

// Game type labels derived from the ESPN season type code.
const (
	GameTypeRegularSeason = "Regular Season"
	GameTypePlayoffs      = "Playoffs"
	GameTypePlayIn        = "Play-In"
)

// GameCard is the normalized, UI-ready record for one finished game.
// ReplayLink is serialized as null when no link was found.
type GameCard struct {
	GameID     string   `json:"gameId"`
	TipoffUTC  string   `json:"tipoffUTC"`
	Home       string   `json:"home"`
	Away       string   `json:"away"`
	HomeLogo   string   `json:"homeLogo"`
	AwayLogo   string   `json:"awayLogo"`
	Round      string   `json:"round"`
	GameNum    string   `json:"gameNum"`
	GameType   string   `json:"gameType"`
	SeriesPre  string   `json:"seriesPre"`
	Badges     []string `json:"badges"`
	ReplayLink *string  `json:"replayLink"`
}

// GameTypeFromCode maps event.season.type to a display label.
func GameTypeFromCode(code int) string {
	switch code {
	case 1:
		return GameTypeRegularSeason
	case 3:
		return GameTypePlayoffs
	default:
		return GameTypePlayIn
	}
}
