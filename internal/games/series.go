package games

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fortuna/courtside/internal/ingest/espn"
)

// seriesMatch is what a summary pattern pulled out of the text.
type seriesMatch struct {
	team   string // team text as written, empty for tied/even summaries
	verb   string // "leads", "wins" or "tied"
	wins   int
	losses int
}

// seriesPattern recognizes one phrasing of an ESPN series summary.
type seriesPattern func(summary string) (seriesMatch, bool)

var (
	leaderSeriesRe = regexp.MustCompile(`(?i)^(.+?)\s+(leads|wins)\s+series\s+(\d+)-(\d+)`)
	tiedSeriesRe   = regexp.MustCompile(`(?i)^series\s+(?:even|tied)\s+(\d+)-(\d+)`)
)

// seriesPatterns are tried in order; the first match wins.
var seriesPatterns = []seriesPattern{
	matchLeaderSeries,
	matchTiedSeries,
}

func matchLeaderSeries(summary string) (seriesMatch, bool) {
	m := leaderSeriesRe.FindStringSubmatch(summary)
	if m == nil {
		return seriesMatch{}, false
	}
	wins, _ := strconv.Atoi(m[3])
	losses, _ := strconv.Atoi(m[4])
	return seriesMatch{team: m[1], verb: strings.ToLower(m[2]), wins: wins, losses: losses}, true
}

func matchTiedSeries(summary string) (seriesMatch, bool) {
	m := tiedSeriesRe.FindStringSubmatch(summary)
	if m == nil {
		return seriesMatch{}, false
	}
	wins, _ := strconv.Atoi(m[1])
	losses, _ := strconv.Atoi(m[2])
	return seriesMatch{verb: "tied", wins: wins, losses: losses}, true
}

// SeriesBeforeGame rewrites the post-game series summary into the series state
// entering this game. Text that matches no known phrasing is returned as is.
func SeriesBeforeGame(summary string, competitors []interface{}) string {
	for _, pattern := range seriesPatterns {
		if m, ok := pattern(summary); ok {
			return reconcileSeries(m, competitors)
		}
	}
	return summary
}

// reconcileSeries takes one game back off the series record: from the side the
// text credits when it names a team, from the loser's lead when it is tied.
func reconcileSeries(m seriesMatch, competitors []interface{}) string {
	winnerAbbr, loserAbbr := winnerAndLoser(competitors)

	switch m.verb {
	case "wins":
		return seriesLabel(resolveTeamAbbr(m.team, competitors), m.wins-1, m.losses)
	case "leads":
		leader := resolveTeamAbbr(m.team, competitors)
		if leader == winnerAbbr {
			return seriesLabel(leader, m.wins-1, m.losses)
		}
		return seriesLabel(leader, m.wins, m.losses-1)
	default:
		return seriesLabel(loserAbbr, m.wins, m.wins-1)
	}
}

func seriesLabel(abbr string, wins, losses int) string {
	return fmt.Sprintf("%s leads series %d-%d", abbr, wins, losses)
}

// resolveTeamAbbr maps team text to an abbreviation by comparing it with every
// name ESPN gives either competitor. Unknown text is returned verbatim.
func resolveTeamAbbr(teamText string, competitors []interface{}) string {
	for _, c := range competitors {
		team := espn.ExtractMap(espn.AsMap(c), "team")
		for _, alias := range []string{
			espn.ExtractString(team, "displayName"),
			espn.ExtractString(team, "shortDisplayName"),
			espn.ExtractString(team, "name"),
			espn.ExtractString(team, "abbreviation"),
		} {
			if strings.EqualFold(teamText, alias) {
				return espn.ExtractString(team, "abbreviation")
			}
		}
	}
	return teamText
}

// winnerAndLoser returns the abbreviations of the flagged winner (the first
// competitor when none is flagged) and of the other competitor.
func winnerAndLoser(competitors []interface{}) (winner, loser string) {
	if len(competitors) == 0 {
		return "", ""
	}

	winnerIdx := 0
	for i, c := range competitors {
		if espn.ExtractBool(espn.AsMap(c), "winner") {
			winnerIdx = i
			break
		}
	}

	abbrAt := func(i int) string {
		return espn.ExtractString(espn.ExtractMap(espn.AsMap(competitors[i]), "team"), "abbreviation")
	}

	winner = abbrAt(winnerIdx)
	if len(competitors) > 1 {
		loserIdx := 1
		if winnerIdx == 1 {
			loserIdx = 0
		}
		loser = abbrAt(loserIdx)
	}
	return winner, loser
}
