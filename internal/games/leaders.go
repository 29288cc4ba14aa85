package games

import "github.com/fortuna/courtside/internal/ingest/espn"

// StatLinesFromLeaders builds approximate stat lines from competition.leaders
// when no boxscore could be read. Only the PTS, REB and AST groups are used and
// a player listed in several groups is merged into one line.
func StatLinesFromLeaders(competition map[string]interface{}) []StatLine {
	byName := make(map[string]*StatLine)
	var order []string

	for _, groupInterface := range espn.ExtractArray(competition, "leaders") {
		group := espn.AsMap(groupInterface)
		abbr := espn.ExtractString(group, "abbreviation")
		if abbr != "PTS" && abbr != "REB" && abbr != "AST" {
			continue
		}

		for _, leaderInterface := range espn.ExtractArray(group, "leaders") {
			leader := espn.AsMap(leaderInterface)
			name := playerName(leader)

			line, ok := byName[name]
			if !ok {
				line = &StatLine{Name: name}
				byName[name] = line
				order = append(order, name)
			}

			value := espn.ToInt(leader["value"])
			switch abbr {
			case "PTS":
				line.PTS = value
			case "REB":
				line.REB = value
			case "AST":
				line.AST = value
			}
		}
	}

	lines := make([]StatLine, 0, len(order))
	for _, name := range order {
		lines = append(lines, *byName[name])
	}
	return lines
}
