package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"covidsim/internal/app/ports"
	"covidsim/internal/domain/epidemic"
	"covidsim/internal/logging"

	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid simulation request")

const (
	DefaultTickInterval    = time.Second
	DefaultMaxCatchUpTicks = 10
)

type Settings struct {
	Population      epidemic.PopulationConfig
	TickInterval    time.Duration
	MaxCatchUpTicks int
}

func DefaultSettings() Settings {
	return Settings{
		Population:      epidemic.DefaultPopulationConfig(),
		TickInterval:    DefaultTickInterval,
		MaxCatchUpTicks: DefaultMaxCatchUpTicks,
	}
}

type UseCase struct {
	Session   *Session
	Settings  Settings
	Stats     ports.TickStatsRepository
	TxManager ports.TxManager
	Metrics   ports.SimulationMetrics
	Logger    *slog.Logger
	Now       func() time.Time
	NewRand   func() epidemic.Rand
	NewID     func() string
}

// State advances the world by every whole tick interval that elapsed since
// the previous advance and returns the resulting snapshot.
func (u UseCase) State(ctx context.Context) (Response, error) {
	s, err := u.session()
	if err != nil {
		return Response{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := u.now()
	if s.game == nil {
		if err := u.resetLocked(now); err != nil {
			return Response{}, err
		}
	}

	due, capped := u.dueTicks(now, s.lastUpdate)
	reports := make([]epidemic.TickReport, 0, due)
	var tickErr error
	for i := 0; i < due; i++ {
		report, err := s.game.AdvanceOneTick()
		if err != nil {
			tickErr = err
			break
		}
		reports = append(reports, report)
		if u.Metrics != nil {
			u.Metrics.RecordTick(report)
		}
	}
	switch {
	case capped && tickErr == nil:
		s.lastUpdate = now
	default:
		s.lastUpdate = s.lastUpdate.Add(time.Duration(len(reports)) * u.tickInterval())
	}

	if err := u.record(ctx, s.id, reports, now); err != nil {
		u.logger().Warn("record tick stats", "session_id", s.id, "ticks", len(reports), "error", err)
	}
	if tickErr != nil {
		if u.Metrics != nil {
			u.Metrics.RecordTickFailure()
		}
		u.logger().Error("tick failed", "session_id", s.id, "tick", s.game.Tick()+1, "error", tickErr)
		return Response{}, fmt.Errorf("advance session %s: %w", s.id, tickErr)
	}
	return u.responseLocked(len(reports)), nil
}

func (u UseCase) Restart(ctx context.Context) (Response, error) {
	s, err := u.session()
	if err != nil {
		return Response{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.id
	if err := u.resetLocked(u.now()); err != nil {
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordRestart()
	}
	u.logger().Info("world restarted", "session_id", s.id, "previous_session_id", previous, "people", s.game.Len())
	return u.responseLocked(0), nil
}

// Snapshot returns the current world without advancing it.
func (u UseCase) Snapshot(ctx context.Context) (Response, error) {
	s, err := u.session()
	if err != nil {
		return Response{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		if err := u.resetLocked(u.now()); err != nil {
			return Response{}, err
		}
	}
	return u.responseLocked(0), nil
}

func (u UseCase) GoHome(ctx context.Context, req GoHomeRequest) (GoHomeResponse, error) {
	if req.PersonID < 0 {
		return GoHomeResponse{}, ErrInvalidRequest
	}
	s, err := u.session()
	if err != nil {
		return GoHomeResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return GoHomeResponse{}, fmt.Errorf("%w: no running world", ports.ErrNotFound)
	}
	sent, err := s.game.GoHome(req.PersonID)
	if err != nil {
		if errors.Is(err, epidemic.ErrPersonNotFound) {
			return GoHomeResponse{}, fmt.Errorf("%w: person %d", ports.ErrNotFound, req.PersonID)
		}
		return GoHomeResponse{}, err
	}
	u.logger().Debug("person clicked", "session_id", s.id, "person_id", req.PersonID, "sent_home", sent)
	return GoHomeResponse{SessionID: s.id, PersonID: req.PersonID, SentHome: sent}, nil
}

func (u UseCase) session() (*Session, error) {
	if u.Session == nil {
		return nil, fmt.Errorf("%w: session is not configured", ErrInvalidRequest)
	}
	return u.Session, nil
}

func (u UseCase) resetLocked(now time.Time) error {
	game, err := epidemic.NewGame(u.Settings.Population, u.newRand())
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}
	s := u.Session
	s.id = u.newID()
	s.game = game
	s.lastUpdate = now
	return nil
}

func (u UseCase) responseLocked(advanced int) Response {
	snap := u.Session.game.Snapshot()
	return Response{
		SessionID:     u.Session.id,
		Tick:          snap.Tick,
		TicksAdvanced: advanced,
		People:        snap.People,
		Map:           snap.Map,
	}
}

func (u UseCase) dueTicks(now, last time.Time) (int, bool) {
	interval := u.tickInterval()
	elapsed := now.Sub(last)
	if elapsed < interval {
		return 0, false
	}
	due := int(elapsed / interval)
	if limit := u.Settings.MaxCatchUpTicks; limit > 0 && due > limit {
		return limit, true
	}
	return due, false
}

func (u UseCase) record(ctx context.Context, sessionID string, reports []epidemic.TickReport, now time.Time) error {
	if u.Stats == nil || len(reports) == 0 {
		return nil
	}
	records := make([]ports.TickStatsRecord, 0, len(reports))
	for _, r := range reports {
		records = append(records, ToRecord(sessionID, r, now))
		u.logger().Debug("tick", "session_id", sessionID, "tick", r.Tick,
			"sick", r.Census.Sick, "new_infections", r.NewInfections, "removed", r.Removed)
	}
	if u.TxManager == nil {
		return u.Stats.Append(ctx, records)
	}
	return u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		return u.Stats.Append(ctx, records)
	})
}

func ToRecord(sessionID string, r epidemic.TickReport, at time.Time) ports.TickStatsRecord {
	return ports.TickStatsRecord{
		SessionID:     sessionID,
		Tick:          r.Tick,
		Healthy:       r.Census.Healthy,
		Sick:          r.Census.Sick,
		Dead:          r.Census.Dead,
		AtHome:        r.Census.AtHome,
		Walking:       r.Census.Walking,
		GoingHome:     r.Census.GoingHome,
		NewInfections: r.NewInfections,
		Recoveries:    r.Recoveries,
		Deaths:        r.Deaths,
		Removed:       r.Removed,
		RecordedAt:    at,
	}
}

func (u UseCase) tickInterval() time.Duration {
	if u.Settings.TickInterval <= 0 {
		return DefaultTickInterval
	}
	return u.Settings.TickInterval
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) newRand() epidemic.Rand {
	if u.NewRand == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return u.NewRand()
}

func (u UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return logging.Discard()
	}
	return u.Logger
}
