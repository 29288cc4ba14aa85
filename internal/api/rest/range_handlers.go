package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/service"
)

// maxRangeDays bounds a single range request.
const maxRangeDays = 14

// RangeRunner builds boards for a span of dates.
type RangeRunner interface {
	Run(ctx context.Context, spec backfill.JobSpec, reporter backfill.Reporter) ([]*service.Board, error)
}

// RangeHandler serves boards for several consecutive dates.
type RangeHandler struct {
	runner RangeRunner
}

func NewRangeHandler(runner RangeRunner) *RangeHandler {
	return &RangeHandler{runner: runner}
}

// GetRange handles GET /api/games/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *RangeHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusNotImplemented, "Range queries are disabled", nil)
		return
	}

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start format (YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end format (YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "end must not be before start", nil)
		return
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxRangeDays {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Range too large (%d days, max %d)", days, maxRangeDays), nil)
		return
	}

	boards, err := h.runner.Run(r.Context(), backfill.JobSpec{
		Type:  backfill.JobTypeDateRange,
		Start: start,
		End:   end,
	}, nil)

	payload := map[string]interface{}{
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
		"boards": boards,
	}
	if err != nil {
		if len(boards) == 0 {
			respondError(w, http.StatusBadGateway, "Failed to fetch scoreboards", err)
			return
		}
		payload["errors"] = err.Error()
	}

	respondJSON(w, http.StatusOK, payload)
}
