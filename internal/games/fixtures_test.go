package games

// Builders for ESPN-shaped documents used across the package tests.

type obj = map[string]interface{}
type arr = []interface{}

func team(display, short, name, abbr string) obj {
	return obj{
		"displayName":      display,
		"shortDisplayName": short,
		"name":             name,
		"abbreviation":     abbr,
		"logo":             "https://a.espncdn.com/i/teamlogos/nba/500/" + abbr + ".png",
	}
}

func mavericks() obj { return team("Dallas Mavericks", "Mavericks", "Mavericks", "DAL") }
func celtics() obj   { return team("Boston Celtics", "Celtics", "Celtics", "BOS") }

func competitor(t obj, homeAway string, score interface{}, winner bool, linescores ...interface{}) obj {
	ls := arr{}
	for _, v := range linescores {
		ls = append(ls, obj{"value": v})
	}
	return obj{
		"team":       t,
		"homeAway":   homeAway,
		"score":      score,
		"winner":     winner,
		"linescores": ls,
	}
}

func blockRoster(names arr, athletes ...obj) obj {
	list := arr{}
	for _, a := range athletes {
		list = append(list, a)
	}
	return obj{
		"statistics": arr{
			obj{"names": names, "athletes": list},
		},
	}
}

func blockAthlete(name string, stats ...interface{}) obj {
	return obj{
		"athlete": obj{"displayName": name},
		"stats":   arr(stats),
	}
}

func listPlayer(name string, cats ...obj) obj {
	list := arr{}
	for _, c := range cats {
		list = append(list, c)
	}
	return obj{
		"athlete":    obj{"displayName": name},
		"statistics": list,
	}
}

func cat(key, value interface{}) obj {
	return obj{"abbreviation": key, "value": value}
}

func leaderGroup(abbr string, leaders ...obj) obj {
	list := arr{}
	for _, l := range leaders {
		list = append(list, l)
	}
	return obj{"abbreviation": abbr, "leaders": list}
}

func leader(name string, value interface{}) obj {
	return obj{"athlete": obj{"displayName": name}, "value": value}
}

func event(id, state string, seasonType int, comp obj) obj {
	comp["status"] = mergeStatus(comp["status"], state)
	return obj{
		"id":           id,
		"date":         "2024-06-13T00:30Z",
		"season":       obj{"type": float64(seasonType)},
		"competitions": arr{comp},
	}
}

func mergeStatus(existing interface{}, state string) obj {
	status, ok := existing.(obj)
	if !ok {
		status = obj{}
	}
	status["type"] = obj{"state": state}
	return status
}
