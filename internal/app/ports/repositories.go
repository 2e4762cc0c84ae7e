package ports

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a tick already recorded for the session.
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn with a context that repositories use to join the same
// transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TickStatsRecord struct {
	SessionID     string    `json:"session_id"`
	Tick          int       `json:"tick"`
	Healthy       int       `json:"healthy"`
	Sick          int       `json:"sick"`
	Dead          int       `json:"dead"`
	AtHome        int       `json:"at_home"`
	Walking       int       `json:"walking"`
	GoingHome     int       `json:"going_home"`
	NewInfections int       `json:"new_infections"`
	Recoveries    int       `json:"recoveries"`
	Deaths        int       `json:"deaths"`
	Removed       int       `json:"removed"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type TickStatsRepository interface {
	Append(ctx context.Context, records []TickStatsRecord) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]TickStatsRecord, error)
}
