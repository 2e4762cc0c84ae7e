package epidemic

import (
	"fmt"

	"covidsim/internal/domain/city"
)

var directions = [4]city.Vec{
	{X: -1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
}

type Person struct {
	ID              int
	HomeID          int
	Position        city.Vec
	Health          Health
	State           State
	StepsToRecovery int
	StepsToRot      int
	IsBored         bool

	timeAtHome int
	home       city.House
	city       *city.CityMap
}

func NewPerson(id, homeID int, m *city.CityMap, sick bool, rnd Rand) (*Person, error) {
	home, ok := m.House(homeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHome, homeID)
	}
	p := &Person{
		ID:     id,
		HomeID: homeID,
		Health: Healthy,
		State:  AtHome,
		home:   home,
		city:   m,
	}
	if sick {
		p.ChangeHealth(Sick)
	}
	corner := home.Coordinates.LeftTopCorner
	p.Position = city.Vec{
		X: corner.X + rnd.Intn(city.HouseWidth),
		Y: corner.Y + rnd.Intn(city.HouseHeight),
	}
	return p, nil
}

func (p *Person) Home() city.House {
	return p.home
}

func (p *Person) OutOfGame() bool {
	return p.Health == Dead && p.StepsToRot == 0
}

func (p *Person) ChangeHealth(next Health) {
	p.Health = next
	switch next {
	case Sick:
		p.StepsToRecovery = InitialStepsToRecovery
	case Dead:
		p.StepsToRot = InitialStepsToRot
	}
}

// GoHome only affects walkers; the first step toward home is taken at once.
func (p *Person) GoHome() bool {
	if p.State != Walking {
		return false
	}
	p.State = GoingHome
	p.stepGoingHome()
	return true
}

type stepOutcome struct {
	recovered bool
	died      bool
}

func (p *Person) advance(rnd Rand) (stepOutcome, error) {
	if city.IsOnFootprint(p.Position, p.home) {
		p.timeAtHome++
	} else {
		p.timeAtHome = 0
	}
	p.IsBored = p.timeAtHome >= BoredThreshold

	var out stepOutcome
	switch p.Health {
	case Dead:
		if p.StepsToRot > 0 {
			p.StepsToRot--
		}
		return out, nil
	case Sick:
		p.StepsToRecovery--
		if p.StepsToRecovery <= 0 {
			p.StepsToRecovery = 0
			p.Health = Healthy
			out.recovered = true
		} else if p.tryToDie(rnd) {
			out.died = true
			return out, nil
		}
	}
	return out, p.move(rnd)
}

func (p *Person) tryToDie(rnd Rand) bool {
	if rnd.Float64() > ProbabilityOfDying {
		return false
	}
	p.ChangeHealth(Dead)
	return true
}

func (p *Person) move(rnd Rand) error {
	switch p.State {
	case AtHome:
		return p.stepAtHome(rnd)
	case Walking:
		return p.stepWalking(rnd)
	case GoingHome:
		p.stepGoingHome()
	}
	return nil
}

func (p *Person) stepAtHome(rnd Rand) error {
	if rnd.Float64() < ProbabilityOfWalk {
		p.State = Walking
		return p.stepWalking(rnd)
	}
	next := p.randomStep(rnd)
	if city.InField(next) && city.IsInsideOwnHouse(next, p.home) {
		p.Position = next
	}
	return nil
}

func (p *Person) stepWalking(rnd Rand) error {
	for attempt := 0; attempt < MaxWalkAttempts; attempt++ {
		next := p.randomStep(rnd)
		if city.InField(next) && !p.city.IsInsideAnyHouse(next) {
			p.Position = next
			return nil
		}
	}
	return fmt.Errorf("%w: person %d at (%d,%d) after %d attempts",
		ErrWalkRetriesExhausted, p.ID, p.Position.X, p.Position.Y, MaxWalkAttempts)
}

func (p *Person) stepGoingHome() {
	center := p.home.Center()
	xDiff := center.X - p.Position.X
	yDiff := center.Y - p.Position.Y
	xDistance := city.Abs(xDiff)
	if xDistance+city.Abs(yDiff) <= MaxDistancePerTurn {
		p.Position = center
		p.State = AtHome
		return
	}

	xLength := min(xDistance, MaxDistancePerTurn)
	yLength := MaxDistancePerTurn - xLength
	p.Position = p.Position.Add(city.Vec{
		X: xLength * city.Sign(xDiff),
		Y: yLength * city.Sign(yDiff),
	})
}

// randomStep always covers exactly MaxDistancePerTurn in Manhattan distance.
func (p *Person) randomStep(rnd Rand) city.Vec {
	xLength := rnd.Intn(MaxDistancePerTurn)
	yLength := MaxDistancePerTurn - xLength
	dir := directions[rnd.Intn(len(directions))]
	return p.Position.Add(city.Vec{X: xLength * dir.X, Y: yLength * dir.Y})
}
