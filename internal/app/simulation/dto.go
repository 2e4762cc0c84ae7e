package simulation

import "covidsim/internal/domain/epidemic"

type Response struct {
	SessionID     string                `json:"session_id"`
	Tick          int                   `json:"tick"`
	TicksAdvanced int                   `json:"ticks_advanced"`
	People        []epidemic.PersonView `json:"people"`
	Map           epidemic.MapView      `json:"map"`
}

type GoHomeRequest struct {
	PersonID int
}

type GoHomeResponse struct {
	SessionID string `json:"session_id"`
	PersonID  int    `json:"person_id"`
	SentHome  bool   `json:"sent_home"`
}
