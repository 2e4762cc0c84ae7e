package inmemory

import (
	"sync"

	"covidsim/internal/domain/epidemic"
)

type Snapshot struct {
	TickTotal     uint64          `json:"tick_total"`
	TickFailure   uint64          `json:"tick_failure"`
	Restarts      uint64          `json:"restarts"`
	Infections    uint64          `json:"infections"`
	Recoveries    uint64          `json:"recoveries"`
	Deaths        uint64          `json:"deaths"`
	Removed       uint64          `json:"removed"`
	LastTick      int             `json:"last_tick"`
	CurrentCensus epidemic.Census `json:"current_census"`
}

type Recorder struct {
	mu         sync.Mutex
	ticks      uint64
	failures   uint64
	restarts   uint64
	infections uint64
	recoveries uint64
	deaths     uint64
	removed    uint64
	lastTick   int
	census     epidemic.Census
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordTick(report epidemic.TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.infections += uint64(report.NewInfections)
	r.recoveries += uint64(report.Recoveries)
	r.deaths += uint64(report.Deaths)
	r.removed += uint64(report.Removed)
	r.lastTick = report.Tick
	r.census = report.Census
}

func (r *Recorder) RecordTickFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) RecordRestart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restarts++
	r.lastTick = 0
	r.census = epidemic.Census{}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		TickTotal:     r.ticks,
		TickFailure:   r.failures,
		Restarts:      r.restarts,
		Infections:    r.infections,
		Recoveries:    r.recoveries,
		Deaths:        r.deaths,
		Removed:       r.removed,
		LastTick:      r.lastTick,
		CurrentCensus: r.census,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
