package memory

import (
	"context"
	"sync"

	"covidsim/internal/app/ports"
)

type Store struct {
	mu    sync.RWMutex
	ticks map[string][]ports.TickStatsRecord
}

func NewStore() *Store {
	return &Store{
		ticks: make(map[string][]ports.TickStatsRecord),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func withTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey, true)
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

// lock takes the write lock unless the caller already holds it through
// TxManager.RunInTx.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// TxManager serializes callers on the store lock and restores the previous
// contents when fn fails.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make(map[string][]ports.TickStatsRecord, len(s.ticks))
	for id, recs := range s.ticks {
		saved[id] = append([]ports.TickStatsRecord(nil), recs...)
	}
	if err := fn(withTx(ctx)); err != nil {
		s.ticks = saved
		return err
	}
	return nil
}
