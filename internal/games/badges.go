package games

import (
	"github.com/fortuna/courtside/internal/ingest/espn"
)

const (
	regulationPeriods = 4
	closeGameMargin   = 7
	close4Margin      = 10
	doubleDigits      = 10
)

// EvaluateBadges derives the badge list for a finished game. home and away are
// raw competitor objects and status is competition.status.
func EvaluateBadges(lines []StatLine, home, away, status map[string]interface{}) []string {
	badges := make([]string, 0, 4)

	maxPts := 0
	for _, line := range lines {
		if line.PTS > maxPts {
			maxPts = line.PTS
		}
	}
	switch {
	case maxPts >= 50:
		badges = append(badges, BadgePts50)
	case maxPts >= 40:
		badges = append(badges, BadgePts40)
	case maxPts >= 30:
		badges = append(badges, BadgePts30)
	}

	for _, line := range lines {
		if line.PTS >= doubleDigits && line.REB >= doubleDigits && line.AST >= doubleDigits {
			badges = append(badges, BadgeTripleDouble)
			break
		}
	}

	if abs(firstThreePeriods(home)-firstThreePeriods(away)) <= close4Margin {
		badges = append(badges, BadgeClose4)
	}

	period := espn.ExtractInt(status, "period", regulationPeriods)
	margin := abs(espn.ToInt(home["score"]) - espn.ToInt(away["score"]))
	if margin <= closeGameMargin || period > regulationPeriods {
		badges = append(badges, BadgeCloseGame)
	}
	if period > regulationPeriods {
		badges = append(badges, BadgeOvertime)
	}

	return badges
}

// firstThreePeriods sums a competitor's line scores through the third quarter.
func firstThreePeriods(competitor map[string]interface{}) int {
	total := 0
	for i, ls := range espn.ExtractArray(competitor, "linescores") {
		if i >= 3 {
			break
		}
		total += espn.ToInt(espn.AsMap(ls)["value"])
	}
	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
