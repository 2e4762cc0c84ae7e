package inmemory

import (
	"testing"

	"covidsim/internal/domain/epidemic"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordTick(epidemic.TickReport{Tick: 1, NewInfections: 2, Recoveries: 1})
	r.RecordTick(epidemic.TickReport{Tick: 2, NewInfections: 1, Deaths: 1, Removed: 1, Census: epidemic.Census{Healthy: 7, Sick: 3}})
	r.RecordTickFailure()

	s := r.Snapshot()
	if s.TickTotal != 2 {
		t.Fatalf("expected 2 ticks, got %d", s.TickTotal)
	}
	if s.TickFailure != 1 {
		t.Fatalf("expected 1 failure, got %d", s.TickFailure)
	}
	if s.Infections != 3 || s.Recoveries != 1 || s.Deaths != 1 || s.Removed != 1 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.LastTick != 2 || s.CurrentCensus.Sick != 3 {
		t.Fatalf("expected latest tick and census, got %+v", s)
	}
}

func TestRecorderRestartResetsCurrentWorld(t *testing.T) {
	r := NewRecorder()
	r.RecordTick(epidemic.TickReport{Tick: 5, Census: epidemic.Census{Sick: 4}})
	r.RecordRestart()

	s := r.Snapshot()
	if s.Restarts != 1 {
		t.Fatalf("expected 1 restart, got %d", s.Restarts)
	}
	if s.LastTick != 0 || s.CurrentCensus != (epidemic.Census{}) {
		t.Fatalf("expected current world fields reset, got %+v", s)
	}
	if s.TickTotal != 1 {
		t.Fatalf("expected lifetime tick total kept, got %d", s.TickTotal)
	}
}
