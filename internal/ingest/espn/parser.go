package espn

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ESPN documents are decoded into generic maps; the helpers below walk them
// without ever failing. A missing or mistyped field yields the zero value.

// ExtractString returns m[key] when it is a string.
func ExtractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// FallbackString returns the first non-blank value.
func FallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ExtractInt returns m[key] coerced through ToInt, or def when the key is absent.
// A present but null value coerces to 0.
func ExtractInt(m map[string]interface{}, key string, def int) int {
	if v, ok := m[key]; ok {
		return ToInt(v)
	}
	return def
}

// ExtractBool returns m[key] when it is a bool.
func ExtractBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// ExtractMap returns m[key] when it is an object, otherwise an empty map.
func ExtractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

// ExtractArray returns m[key] when it is an array, otherwise an empty slice.
func ExtractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// AsMap converts an array element to an object, or an empty map.
func AsMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// ToInt coerces an upstream numeric value to an int. JSON numbers are
// truncated, strings must hold a base-10 integer, and anything else is 0.
func ToInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case float32:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// FirstCompetition returns events[i].competitions[0].
func FirstCompetition(event map[string]interface{}) map[string]interface{} {
	competitions := ExtractArray(event, "competitions")
	if len(competitions) == 0 {
		return map[string]interface{}{}
	}
	return AsMap(competitions[0])
}

// HomeAway returns the home and away competitor of a competition. The first
// competitor is treated as home unless it is flagged "away".
func HomeAway(competition map[string]interface{}) (home, away map[string]interface{}) {
	competitors := ExtractArray(competition, "competitors")
	home, away = map[string]interface{}{}, map[string]interface{}{}
	if len(competitors) > 0 {
		home = AsMap(competitors[0])
	}
	if len(competitors) > 1 {
		away = AsMap(competitors[1])
	}
	if ExtractString(home, "homeAway") == "away" {
		home, away = away, home
	}
	return home, away
}

// GameState returns competition.status.type.state lower-cased ("pre", "in", "post").
func GameState(competition map[string]interface{}) string {
	statusType := ExtractMap(ExtractMap(competition, "status"), "type")
	return strings.ToLower(ExtractString(statusType, "state"))
}

// LogScoreboardDigest prints one line per event of a scoreboard.
func LogScoreboardDigest(scoreboard map[string]interface{}) {
	events := ExtractArray(scoreboard, "events")
	log.Printf("[espn] scoreboard digest: %d events", len(events))
	for _, eventInterface := range events {
		event := AsMap(eventInterface)
		comp := FirstCompetition(event)
		home, away := HomeAway(comp)
		homeTeam, awayTeam := ExtractMap(home, "team"), ExtractMap(away, "team")

		log.Printf("[espn]   %s: %s @ %s %s-%s [%s]  %s",
			ExtractString(event, "id"),
			ExtractString(awayTeam, "abbreviation"),
			ExtractString(homeTeam, "abbreviation"),
			scoreOrDash(away),
			scoreOrDash(home),
			GameState(comp),
			ExtractString(ExtractMap(comp, "series"), "summary"),
		)
	}
}

func scoreOrDash(competitor map[string]interface{}) string {
	if v, ok := competitor["score"]; ok && v != nil {
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	return "-"
}
