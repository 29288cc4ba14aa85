package games

import (
	"strings"

	"github.com/fortuna/courtside/internal/ingest/espn"
)

const unknownPlayer = "Unknown"

// RosterShape identifies how a single boxscore roster is laid out.
type RosterShape int

const (
	// ShapeUnrecognized rosters contribute no stat lines.
	ShapeUnrecognized RosterShape = iota
	// ShapeBlock is {statistics: [{names: [...], athletes: [{athlete, stats: [...]}]}]}
	// where every athlete's stats array is aligned to the names header.
	ShapeBlock
	// ShapePlayerList is [{athlete, statistics: [{abbreviation|name, value}]}].
	ShapePlayerList
)

func (s RosterShape) String() string {
	switch s {
	case ShapeBlock:
		return "block"
	case ShapePlayerList:
		return "player-list"
	default:
		return "unrecognized"
	}
}

// Column aliases accepted in a block header, compared case-insensitively.
var (
	pointsKeys   = []string{"PTS", "POINTS"}
	reboundsKeys = []string{"REB", "REBOUNDS"}
	assistsKeys  = []string{"AST", "ASSISTS"}
)

// ClassifyRoster decides which layout a boxscore roster entry uses.
func ClassifyRoster(roster interface{}) RosterShape {
	switch r := roster.(type) {
	case map[string]interface{}:
		statistics := espn.ExtractArray(r, "statistics")
		if len(statistics) == 0 {
			return ShapeUnrecognized
		}
		block, ok := statistics[0].(map[string]interface{})
		if !ok || len(espn.ExtractArray(block, "athletes")) == 0 {
			return ShapeUnrecognized
		}
		return ShapeBlock
	case []interface{}:
		return ShapePlayerList
	default:
		return ShapeUnrecognized
	}
}

// ExtractStatLines turns a summary's boxscore object into stat lines. Rosters
// are classified independently, so one game may mix layouts. The result is
// empty when no roster is recognized.
func ExtractStatLines(boxscore map[string]interface{}) []StatLine {
	var lines []StatLine
	for _, roster := range espn.ExtractArray(boxscore, "players") {
		switch ClassifyRoster(roster) {
		case ShapeBlock:
			lines = append(lines, blockStatLines(roster.(map[string]interface{}))...)
		case ShapePlayerList:
			lines = append(lines, playerListStatLines(roster.([]interface{}))...)
		}
	}
	return lines
}

func blockStatLines(roster map[string]interface{}) []StatLine {
	block := espn.AsMap(espn.ExtractArray(roster, "statistics")[0])

	header := make([]string, 0)
	for _, name := range espn.ExtractArray(block, "names") {
		s, _ := name.(string)
		header = append(header, strings.ToUpper(s))
	}
	idxPts := columnIndex(header, pointsKeys)
	idxReb := columnIndex(header, reboundsKeys)
	idxAst := columnIndex(header, assistsKeys)

	athletes := espn.ExtractArray(block, "athletes")
	lines := make([]StatLine, 0, len(athletes))
	for _, athleteInterface := range athletes {
		athleteData := espn.AsMap(athleteInterface)
		stats := espn.ExtractArray(athleteData, "stats")

		lines = append(lines, StatLine{
			Name: playerName(athleteData),
			PTS:  statAt(stats, idxPts),
			REB:  statAt(stats, idxReb),
			AST:  statAt(stats, idxAst),
		})
	}
	return lines
}

func playerListStatLines(roster []interface{}) []StatLine {
	lines := make([]StatLine, 0, len(roster))
	for _, playerInterface := range roster {
		player := espn.AsMap(playerInterface)
		line := StatLine{Name: playerName(player)}

		for _, catInterface := range espn.ExtractArray(player, "statistics") {
			cat := espn.AsMap(catInterface)
			key := strings.ToUpper(espn.FallbackString(espn.ExtractString(cat, "abbreviation"), espn.ExtractString(cat, "name")))
			switch {
			case containsKey(pointsKeys, key):
				line.PTS = espn.ToInt(cat["value"])
			case containsKey(reboundsKeys, key):
				line.REB = espn.ToInt(cat["value"])
			case containsKey(assistsKeys, key):
				line.AST = espn.ToInt(cat["value"])
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// columnIndex returns the first header column matching any alias, or -1.
func columnIndex(header []string, aliases []string) int {
	for i, name := range header {
		if containsKey(aliases, name) {
			return i
		}
	}
	return -1
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func statAt(stats []interface{}, idx int) int {
	if idx < 0 || idx >= len(stats) {
		return 0
	}
	return espn.ToInt(stats[idx])
}

func playerName(entry map[string]interface{}) string {
	athlete := espn.ExtractMap(entry, "athlete")
	if name, ok := athlete["displayName"].(string); ok {
		return name
	}
	return unknownPlayer
}
