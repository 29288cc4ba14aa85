package backfill

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/service"
)

// BoardSource builds the board for a single YYYY-MM-DD date.
type BoardSource interface {
	CardsForDate(ctx context.Context, dateParam string) (*service.Board, error)
}

// Runner builds boards for every date of a job spec.
type Runner struct {
	source BoardSource
}

func NewRunner(source BoardSource) *Runner {
	return &Runner{source: source}
}

// Run builds one board per date, in date order. A date whose scoreboard
// cannot be fetched is reported and skipped; the joined errors are returned
// alongside the boards that succeeded.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) ([]*service.Board, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	reporter.OnJobStart(spec)

	switch spec.Type {
	case JobTypeSeason, JobTypeDateRange:
	default:
		err := fmt.Errorf("unsupported job type %s", spec.Type)
		reporter.OnJobError(err)
		return nil, err
	}

	dates := enumerateDates(spec.Start, spec.End)
	total := len(dates)
	boards := make([]*service.Board, 0, total)
	var errs []error

	for idx, date := range dates {
		if err := ctx.Err(); err != nil {
			return boards, err
		}

		reporter.OnDateStart(date, idx, total)

		board, err := r.source.CardsForDate(ctx, date.Format("2006-01-02"))
		if err != nil {
			reporter.OnJobError(err)
			errs = append(errs, err)
			continue
		}

		boards = append(boards, board)
		reporter.OnBoard(board)
		reporter.OnProgress(fmt.Sprintf("Processed %s (%d games)", date.Format("Jan 2, 2006"), len(board.Games)), idx+1, total)
	}

	reporter.OnJobComplete()
	return boards, errors.Join(errs...)
}

// SeasonWindow returns the October 1 to July 1 window for a season id such as
// "2023-24" or "2023".
func SeasonWindow(seasonID string) (time.Time, time.Time, error) {
	yearPart, _, _ := strings.Cut(seasonID, "-")
	startYear, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season %q: %w", seasonID, err)
	}
	start := time.Date(startYear, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(startYear+1, time.July, 1, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}

func enumerateDates(start, end time.Time) []time.Time {
	if end.Before(start) {
		start, end = end, start
	}

	var dates []time.Time
	current := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	final := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	for !current.After(final) {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 1)
	}

	return dates
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec)               {}
func (nopReporter) OnDateStart(time.Time, int, int) {}
func (nopReporter) OnBoard(*service.Board)          {}
func (nopReporter) OnProgress(string, int, int)     {}
func (nopReporter) OnJobComplete()                  {}
func (nopReporter) OnJobError(error)                {}
