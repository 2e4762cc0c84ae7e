package memory

import (
	"context"
	"fmt"

	"covidsim/internal/app/ports"
)

type TickStatsRepo struct {
	store *Store
}

func NewTickStatsRepo(store *Store) TickStatsRepo {
	return TickStatsRepo{store: store}
}

func (r TickStatsRepo) Append(ctx context.Context, records []ports.TickStatsRecord) error {
	if len(records) == 0 {
		return nil
	}
	defer r.store.lock(ctx)()

	seen := map[string]map[int]bool{}
	for _, rec := range records {
		if seen[rec.SessionID] == nil {
			seen[rec.SessionID] = map[int]bool{}
			for _, existing := range r.store.ticks[rec.SessionID] {
				seen[rec.SessionID][existing.Tick] = true
			}
		}
		if seen[rec.SessionID][rec.Tick] {
			return fmt.Errorf("%w: session %s tick %d already recorded", ports.ErrConflict, rec.SessionID, rec.Tick)
		}
		seen[rec.SessionID][rec.Tick] = true
	}
	for _, rec := range records {
		r.store.ticks[rec.SessionID] = append(r.store.ticks[rec.SessionID], rec)
	}
	return nil
}

// ListBySession returns the newest ticks first.
func (r TickStatsRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]ports.TickStatsRecord, error) {
	defer r.store.rlock(ctx)()

	rows := r.store.ticks[sessionID]
	n := len(rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.TickStatsRecord, 0, n)
	for i := len(rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}
