package history

import "covidsim/internal/app/ports"

type Request struct {
	SessionID string
	Limit     int
}

type Response struct {
	SessionID string                  `json:"session_id"`
	Ticks     []ports.TickStatsRecord `json:"ticks"`
	Totals    Totals                  `json:"totals"`
}

type Totals struct {
	NewInfections int `json:"new_infections"`
	Recoveries    int `json:"recoveries"`
	Deaths        int `json:"deaths"`
	Removed       int `json:"removed"`
	PeakSick      int `json:"peak_sick"`
}
