package games

import (
	"strings"

	"github.com/fortuna/courtside/internal/ingest/espn"
)

const noteSeparator = " - "

// ParseRoundAndGame reads labels such as "East Finals - Game 4" from the first
// event note. Both labels are empty when no note has that form.
func ParseRoundAndGame(event map[string]interface{}) (round, gameNum string) {
	for _, noteInterface := range espn.ExtractArray(event, "notes") {
		note := espn.AsMap(noteInterface)
		if espn.ExtractString(note, "type") != "event" {
			continue
		}
		parts := strings.Split(espn.ExtractString(note, "headline"), noteSeparator)
		if len(parts) >= 2 {
			return parts[0], parts[1]
		}
	}
	return "", ""
}
