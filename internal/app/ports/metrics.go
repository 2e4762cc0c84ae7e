package ports

import "covidsim/internal/domain/epidemic"

type SimulationMetrics interface {
	RecordTick(report epidemic.TickReport)
	RecordTickFailure()
	RecordRestart()
}
