package epidemic

import (
	"math/rand"
	"testing"

	"covidsim/internal/domain/city"
)

type scriptedRand struct {
	t      *testing.T
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	r.t.Helper()
	if len(r.ints) == 0 {
		r.t.Fatalf("scriptedRand: unexpected Intn(%d)", n)
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < 0 || v >= n {
		r.t.Fatalf("scriptedRand: scripted %d outside [0,%d)", v, n)
	}
	return v
}

func (r *scriptedRand) Float64() float64 {
	r.t.Helper()
	if len(r.floats) == 0 {
		r.t.Fatalf("scriptedRand: unexpected Float64()")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type fixedRand struct {
	intn    int
	float64 float64
}

func (r fixedRand) Intn(n int) int {
	if r.intn >= n {
		return n - 1
	}
	return r.intn
}

func (r fixedRand) Float64() float64 { return r.float64 }

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testPerson(m *city.CityMap, id, homeID int, pos city.Vec, state State, health Health) *Person {
	home, _ := m.House(homeID)
	p := &Person{
		ID:       id,
		HomeID:   homeID,
		Position: pos,
		Health:   Healthy,
		State:    state,
		home:     home,
		city:     m,
	}
	if health != Healthy {
		p.ChangeHealth(health)
	}
	return p
}

func testGame(r Rand, people ...*Person) *Game {
	g := &Game{Map: city.NewCityMap(), rnd: r}
	for _, p := range people {
		p.city = g.Map
		p.home, _ = g.Map.House(p.HomeID)
		g.people = append(g.people, p)
	}
	return g
}
