package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/fortuna/courtside/internal/replay"
)

// Manual check that the replay site still exposes team links.
func main() {
	base := flag.String("base", replay.DefaultBaseURL, "Replay site base URL")
	mode := flag.String("mode", "curl", "Fetch mode: curl or browser")
	flag.Parse()

	teams := flag.Args()
	if len(teams) == 0 {
		teams = []string{"Boston Celtics", "Dallas Mavericks", "Denver Nuggets"}
	}

	log.Println("Probing replay site")
	log.Println("===============================")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fetcher, closeFetcher, err := replay.NewFetcher(*mode)
	if err != nil {
		log.Fatalf("Failed to create fetcher: %v", err)
	}
	defer closeFetcher()

	finder := replay.NewFinder(*base, fetcher)

	found := 0
	for _, team := range teams {
		link := finder.FindReplayLink(ctx, team)
		if link == nil {
			log.Printf("  %-24s (slug %q): no link", team, replay.TeamSlug(team))
			continue
		}
		found++
		log.Printf("  %-24s -> %s", team, *link)
	}

	log.Println("===============================")
	log.Printf("✓ %d/%d teams have a replay link", found, len(teams))

	if found == 0 {
		os.Exit(1)
	}
}
