package epidemic

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"covidsim/internal/domain/city"
)

type PopulationConfig struct {
	PeopleCount      int
	InfectedFraction float64
}

func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		PeopleCount:      DefaultPeopleCount,
		InfectedFraction: DefaultInfectedFraction,
	}
}

func (c PopulationConfig) Validate() error {
	if c.PeopleCount < 0 {
		return fmt.Errorf("%w: people count %d", ErrInvalidPopulation, c.PeopleCount)
	}
	if c.InfectedFraction < 0 || c.InfectedFraction > 1 || math.IsNaN(c.InfectedFraction) {
		return fmt.Errorf("%w: infected fraction %v", ErrInvalidPopulation, c.InfectedFraction)
	}
	if c.PeopleCount > city.Capacity() {
		return fmt.Errorf("%w: %d people, %d places", ErrCapacityExceeded, c.PeopleCount, city.Capacity())
	}
	return nil
}

// InitiallySick is the number of agents, counted from the first created,
// that start the game sick.
func (c PopulationConfig) InitiallySick() int {
	return int(math.Ceil(float64(c.PeopleCount)*c.InfectedFraction - 1e-9))
}

// Game is not safe for concurrent use; callers serialize ticks, reads and
// restarts.
type Game struct {
	Map    *city.CityMap
	people []*Person
	rnd    Rand
	tick   int
}

func NewGame(cfg PopulationConfig, rnd Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{Map: city.NewCityMap(), rnd: rnd}
	if err := g.createPopulation(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) createPopulation(cfg PopulationConfig) error {
	sick := cfg.InitiallySick()
	g.people = make([]*Person, 0, cfg.PeopleCount)
	for i := 0; i < cfg.PeopleCount; i++ {
		homeID, err := g.findHome()
		if err != nil {
			return err
		}
		p, err := NewPerson(i, homeID, g.Map, i < sick, g.rnd)
		if err != nil {
			return err
		}
		g.people = append(g.people, p)
	}
	return nil
}

func (g *Game) findHome() (int, error) {
	for attempt := 0; attempt < maxHomeAttempts; attempt++ {
		homeID := g.rnd.Intn(city.HouseAmount)
		if g.Map.AssignResident(homeID) {
			return homeID, nil
		}
	}
	return 0, fmt.Errorf("%w: no free house after %d draws", ErrCapacityExceeded, maxHomeAttempts)
}

func (g *Game) Tick() int {
	return g.tick
}

func (g *Game) Len() int {
	return len(g.people)
}

func (g *Game) Person(id int) (Person, bool) {
	for _, p := range g.people {
		if p.ID == id {
			return *p, true
		}
	}
	return Person{}, false
}

func (g *Game) People() []Person {
	out := make([]Person, 0, len(g.people))
	for _, p := range g.people {
		out = append(out, *p)
	}
	return out
}

// AdvanceOneTick moves every person on a copy of the population and swaps it
// in only when every step succeeded, so a failed tick leaves the world as it
// was.
func (g *Game) AdvanceOneTick() (TickReport, error) {
	report := TickReport{Tick: g.tick + 1}
	next := make([]*Person, 0, len(g.people))
	for _, p := range g.people {
		cp := *p
		out, err := cp.advance(g.rnd)
		if err != nil {
			return TickReport{}, fmt.Errorf("tick %d: %w", report.Tick, err)
		}
		if out.recovered {
			report.Recoveries++
		}
		if out.died {
			report.Deaths++
		}
		if cp.OutOfGame() {
			report.Removed++
			continue
		}
		next = append(next, &cp)
	}

	report.NewInfections = infect(next, g.rnd)
	g.people = next
	g.tick = report.Tick
	report.Census = g.Census()
	return report, nil
}

// infect pairs every healthy walker with every sick walker. Both groups are
// fixed before the pass, so someone infected here spreads nothing until the
// next tick.
func infect(people []*Person, rnd Rand) int {
	var sick, healthy []*Person
	for _, p := range people {
		if p.State != Walking {
			continue
		}
		switch p.Health {
		case Sick:
			sick = append(sick, p)
		case Healthy:
			healthy = append(healthy, p)
		}
	}

	infected := 0
	for _, h := range healthy {
		for _, s := range sick {
			if h.Position.DistanceTo(s.Position) <= InfectionRadius && rnd.Float64() >= ChanceOfInfection {
				h.ChangeHealth(Sick)
				infected++
				break
			}
		}
	}
	return infected
}

func (g *Game) GoHome(id int) (bool, error) {
	for _, p := range g.people {
		if p.ID == id {
			return p.GoHome(), nil
		}
	}
	return false, fmt.Errorf("%w: %d", ErrPersonNotFound, id)
}

func (g *Game) Census() Census {
	var c Census
	for _, p := range g.people {
		switch p.Health {
		case Healthy:
			c.Healthy++
		case Sick:
			c.Sick++
		case Dead:
			c.Dead++
		}
		switch p.State {
		case AtHome:
			c.AtHome++
		case Walking:
			c.Walking++
		case GoingHome:
			c.GoingHome++
		}
	}
	return c
}
