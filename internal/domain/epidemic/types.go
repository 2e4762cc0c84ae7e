package epidemic

import "errors"

type Health string

const (
	Healthy Health = "Healthy"
	Sick    Health = "Sick"
	Dead    Health = "Dead"
)

type State string

const (
	AtHome    State = "AtHome"
	Walking   State = "Walking"
	GoingHome State = "GoingHome"
)

const (
	MaxDistancePerTurn     = 30
	InitialStepsToRecovery = 35
	InitialStepsToRot      = 10
	ProbabilityOfDying     = 0.000003
	ProbabilityOfWalk      = 0.005
	BoredThreshold         = 5

	InfectionRadius   = 7.0
	ChanceOfInfection = 0.5

	MaxWalkAttempts = 1000
	maxHomeAttempts = 100000

	DefaultPeopleCount      = 320
	DefaultInfectedFraction = 0.03
)

var (
	ErrInvalidPopulation    = errors.New("invalid population parameters")
	ErrCapacityExceeded     = errors.New("population exceeds city capacity")
	ErrWalkRetriesExhausted = errors.New("walking step retries exhausted")
	ErrPersonNotFound       = errors.New("person not found")
	ErrUnknownHome          = errors.New("unknown home")
)

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type TickReport struct {
	Tick          int    `json:"tick"`
	NewInfections int    `json:"new_infections"`
	Recoveries    int    `json:"recoveries"`
	Deaths        int    `json:"deaths"`
	Removed       int    `json:"removed"`
	Census        Census `json:"census"`
}

type Census struct {
	Healthy   int `json:"healthy"`
	Sick      int `json:"sick"`
	Dead      int `json:"dead"`
	AtHome    int `json:"at_home"`
	Walking   int `json:"walking"`
	GoingHome int `json:"going_home"`
}

func (c Census) Total() int {
	return c.Healthy + c.Sick + c.Dead
}
