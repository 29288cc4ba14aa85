package backfill

import (
	"time"

	"github.com/fortuna/courtside/internal/service"
)

// JobType enumerates the supported range variants.
type JobType string

const (
	JobTypeSeason    JobType = "season"
	JobTypeDateRange JobType = "date_range"
)

// JobSpec describes the dates the runner should build boards for.
type JobSpec struct {
	Type     JobType
	SeasonID string
	Start    time.Time
	End      time.Time
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnDateStart(date time.Time, index int, total int)
	OnBoard(board *service.Board)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(err error)
}
