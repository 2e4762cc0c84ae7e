package history

import (
	"context"
	"errors"
	"strings"

	"covidsim/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid history request")

const maxLimit = 1000

type UseCase struct {
	Stats          ports.TickStatsRepository
	CurrentSession func() string
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" && u.CurrentSession != nil {
		sessionID = u.CurrentSession()
	}
	if sessionID == "" {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	ticks, err := u.Stats.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return Response{}, err
	}
	if ticks == nil {
		ticks = []ports.TickStatsRecord{}
	}
	return Response{SessionID: sessionID, Ticks: ticks, Totals: summarize(ticks)}, nil
}

func summarize(ticks []ports.TickStatsRecord) Totals {
	var t Totals
	for _, r := range ticks {
		t.NewInfections += r.NewInfections
		t.Recoveries += r.Recoveries
		t.Deaths += r.Deaths
		t.Removed += r.Removed
		if r.Sick > t.PeakSick {
			t.PeakSick = r.Sick
		}
	}
	return t
}
