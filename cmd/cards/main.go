package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/games"
	"github.com/fortuna/courtside/internal/ingest/espn"
	"github.com/fortuna/courtside/internal/replay"
	"github.com/fortuna/courtside/internal/service"
)

const (
	appName    = "courtside-cards"
	appVersion = "1.0.0"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("COURTSIDE_CONFIG"), "Path to a YAML config file")
		date       = flag.String("date", "", "Single date (YYYY-MM-DD); default today")
		season     = flag.String("season", "", "Whole season (e.g., 2023-24)")
		startDate  = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate    = flag.String("end", "", "End date (YYYY-MM-DD)")
		format     = flag.String("format", "json", "Output format: json or table")
		replays    = flag.Bool("replays", true, "Look up replay links")
	)
	flag.Parse()

	log.Printf("=== %s v%s ===", appName, appVersion)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	espnClient := espn.New(cfg.ESPN.APIBase)

	var finder games.ReplayFinder
	if *replays {
		fetcher, closeFetcher, err := replay.NewFetcher(cfg.Replay.FetchMode)
		if err != nil {
			log.Fatalf("replay fetcher: %v", err)
		}
		defer closeFetcher()
		finder = replay.NewFinder(cfg.Replay.BaseURL, fetcher)
	}

	assembler := games.NewAssembler(espnClient, finder, games.WithSportPath(cfg.ESPN.SportPath))
	gameService := service.NewGameService(espnClient, assembler, service.Config{
		SportPath:  cfg.ESPN.SportPath,
		SeasonType: cfg.ESPN.SeasonType,
		Location:   cfg.Location(),
	})

	var boards []*service.Board
	if *season == "" && *startDate == "" {
		board, err := gameService.CardsForDate(ctx, *date)
		if err != nil {
			log.Fatalf("build board: %v", err)
		}
		boards = []*service.Board{board}
	} else {
		spec, err := buildSpec(*season, *startDate, *endDate)
		if err != nil {
			log.Fatalf("build spec: %v", err)
		}
		boards, err = backfill.NewRunner(gameService).Run(ctx, spec, &consoleReporter{})
		if err != nil {
			log.Printf("some dates failed: %v", err)
		}
	}

	if err := write(os.Stdout, *format, boards); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func buildSpec(season, startStr, endStr string) (backfill.JobSpec, error) {
	spec := backfill.JobSpec{SeasonID: season}

	switch {
	case season != "":
		start, end, err := backfill.SeasonWindow(season)
		if err != nil {
			return spec, err
		}
		spec.Type = backfill.JobTypeSeason
		spec.Start = start
		spec.End = end
	case startStr != "" && endStr != "":
		spec.Type = backfill.JobTypeDateRange
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return spec, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return spec, fmt.Errorf("invalid end date: %w", err)
		}
		spec.Start = start
		spec.End = end
	default:
		return spec, fmt.Errorf("specify -season or both -start and -end")
	}

	return spec, nil
}

func write(w io.Writer, format string, boards []*service.Board) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(boards) == 1 {
			return enc.Encode(boards[0])
		}
		return enc.Encode(boards)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tGAME\tMATCHUP\tTYPE\tROUND\tSERIES\tBADGES\tREPLAY")
		for _, board := range boards {
			for _, c := range board.Games {
				replayLink := "-"
				if c.ReplayLink != nil {
					replayLink = *c.ReplayLink
				}
				fmt.Fprintf(tw, "%s\t%s\t%s @ %s\t%s\t%s\t%s\t%s\t%s\n",
					board.Date, c.GameID, c.Away, c.Home, c.GameType,
					strings.TrimSpace(c.Round+" "+c.GameNum), c.SeriesPre,
					strings.Join(c.Badges, ","), replayLink)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

type consoleReporter struct{}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	log.Printf("Starting %s job %s..%s", spec.Type, spec.Start.Format("2006-01-02"), spec.End.Format("2006-01-02"))
}

func (c *consoleReporter) OnDateStart(date time.Time, index int, total int) {
	log.Printf("[%d/%d] %s", index+1, total, date.Format("2006-01-02"))
}

func (c *consoleReporter) OnBoard(board *service.Board) {
	log.Printf("Built board %s with %d cards", board.Date, len(board.Games))
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	log.Printf("Progress: %s (%d/%d)", message, current, total)
}

func (c *consoleReporter) OnJobComplete() {
	log.Println("Job complete")
}

func (c *consoleReporter) OnJobError(err error) {
	log.Printf("Job error: %v", err)
}
