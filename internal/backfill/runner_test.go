package backfill

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/games"
	"github.com/fortuna/courtside/internal/service"
)

type fakeSource struct {
	fail  map[string]bool
	dates []string
}

func (f *fakeSource) CardsForDate(_ context.Context, date string) (*service.Board, error) {
	f.dates = append(f.dates, date)
	if f.fail[date] {
		return nil, errors.New("scoreboard unavailable")
	}
	return &service.Board{Date: date, Games: []games.GameCard{{GameID: "g-" + date}}}, nil
}

type recordingReporter struct {
	started   int
	completed int
	errors    int
	boards    []string
	progress  [][2]int
}

func (r *recordingReporter) OnJobStart(JobSpec)              { r.started++ }
func (r *recordingReporter) OnDateStart(time.Time, int, int) {}
func (r *recordingReporter) OnBoard(b *service.Board)        { r.boards = append(r.boards, b.Date) }
func (r *recordingReporter) OnProgress(_ string, current, total int) {
	r.progress = append(r.progress, [2]int{current, total})
}
func (r *recordingReporter) OnJobComplete()   { r.completed++ }
func (r *recordingReporter) OnJobError(error) { r.errors++ }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestEnumerateDates(t *testing.T) {
	got := enumerateDates(day(2024, 2, 28), day(2024, 3, 1))
	want := []time.Time{day(2024, 2, 28), day(2024, 2, 29), day(2024, 3, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("enumerateDates = %v, want %v", got, want)
	}

	if got := enumerateDates(day(2024, 3, 1), day(2024, 2, 28)); len(got) != 3 {
		t.Errorf("reversed range should be swapped, got %v", got)
	}
	if got := enumerateDates(day(2024, 6, 13), time.Date(2024, 6, 13, 23, 0, 0, 0, time.UTC)); len(got) != 1 {
		t.Errorf("single day = %v", got)
	}
}

func TestRun_DateRange(t *testing.T) {
	source := &fakeSource{fail: map[string]bool{"2024-06-13": true}}
	reporter := &recordingReporter{}

	boards, err := NewRunner(source).Run(context.Background(), JobSpec{
		Type:  JobTypeDateRange,
		Start: day(2024, 6, 12),
		End:   day(2024, 6, 14),
	}, reporter)

	if err == nil {
		t.Error("expected the failed date to be reported")
	}
	if !reflect.DeepEqual(source.dates, []string{"2024-06-12", "2024-06-13", "2024-06-14"}) {
		t.Errorf("dates requested = %v", source.dates)
	}
	if len(boards) != 2 || boards[0].Date != "2024-06-12" || boards[1].Date != "2024-06-14" {
		t.Errorf("boards = %+v", boards)
	}
	if reporter.started != 1 || reporter.completed != 1 || reporter.errors != 1 {
		t.Errorf("reporter = %+v", reporter)
	}
	if !reflect.DeepEqual(reporter.progress, [][2]int{{1, 3}, {3, 3}}) {
		t.Errorf("progress = %v", reporter.progress)
	}
}

func TestRun_UnsupportedType(t *testing.T) {
	if _, err := NewRunner(&fakeSource{}).Run(context.Background(), JobSpec{Type: "game"}, nil); err == nil {
		t.Error("expected unsupported job type error")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{}
	_, err := NewRunner(source).Run(ctx, JobSpec{Type: JobTypeDateRange, Start: day(2024, 6, 1), End: day(2024, 6, 30)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if len(source.dates) != 0 {
		t.Errorf("no dates should be fetched, got %v", source.dates)
	}
}

func TestSeasonWindow(t *testing.T) {
	for _, id := range []string{"2023-24", "2023"} {
		start, end, err := SeasonWindow(id)
		if err != nil {
			t.Fatalf("SeasonWindow(%q): %v", id, err)
		}
		if !start.Equal(day(2023, 10, 1)) || !end.Equal(day(2024, 7, 1)) {
			t.Errorf("SeasonWindow(%q) = %s..%s", id, start, end)
		}
	}
	if _, _, err := SeasonWindow("next"); err == nil {
		t.Error("expected error for non-numeric season")
	}
}
