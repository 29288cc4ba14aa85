package espn

import "testing"

func TestToInt(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"json number", float64(31), 31},
		{"json fraction truncates", 12.9, 12},
		{"int", 7, 7},
		{"numeric string", "28", 28},
		{"padded string", " 9 ", 9},
		{"made-attempted string", "10-21", 0},
		{"decimal string", "30.0", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"object", map[string]interface{}{"value": 3}, 0},
		{"true", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToInt(tt.input); got != tt.want {
				t.Errorf("ToInt(%#v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractIntDefault(t *testing.T) {
	status := map[string]interface{}{"period": float64(5)}
	if got := ExtractInt(status, "period", 4); got != 5 {
		t.Errorf("period = %d, want 5", got)
	}
	if got := ExtractInt(map[string]interface{}{}, "period", 4); got != 4 {
		t.Errorf("missing period = %d, want default 4", got)
	}
	if got := ExtractInt(map[string]interface{}{"period": nil}, "period", 4); got != 0 {
		t.Errorf("null period = %d, want 0", got)
	}
	if got := ExtractInt(map[string]interface{}{"period": "OT"}, "period", 4); got != 0 {
		t.Errorf("malformed period = %d, want 0", got)
	}
}

func TestHomeAway(t *testing.T) {
	comp := map[string]interface{}{
		"competitors": []interface{}{
			map[string]interface{}{"homeAway": "away", "team": map[string]interface{}{"abbreviation": "BOS"}},
			map[string]interface{}{"homeAway": "home", "team": map[string]interface{}{"abbreviation": "DAL"}},
		},
	}

	home, away := HomeAway(comp)
	if got := ExtractString(ExtractMap(home, "team"), "abbreviation"); got != "DAL" {
		t.Errorf("home = %s, want DAL", got)
	}
	if got := ExtractString(ExtractMap(away, "team"), "abbreviation"); got != "BOS" {
		t.Errorf("away = %s, want BOS", got)
	}
}

func TestHomeAway_MissingCompetitors(t *testing.T) {
	home, away := HomeAway(map[string]interface{}{})
	if len(home) != 0 || len(away) != 0 {
		t.Fatalf("expected empty competitors, got %v / %v", home, away)
	}
}

func TestGameState(t *testing.T) {
	comp := map[string]interface{}{
		"status": map[string]interface{}{
			"type": map[string]interface{}{"state": "POST"},
		},
	}
	if got := GameState(comp); got != "post" {
		t.Errorf("GameState = %q, want post", got)
	}
	if got := GameState(map[string]interface{}{}); got != "" {
		t.Errorf("GameState(empty) = %q, want empty", got)
	}
}
