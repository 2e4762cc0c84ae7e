package epidemic

import (
	"testing"

	"covidsim/internal/domain/city"
)

func TestInfect_RateAtRadiusMatchesThreshold(t *testing.T) {
	m := city.NewCityMap()
	r := seeded(11)
	const trials = 4000
	infected := 0
	for i := 0; i < trials; i++ {
		healthy := testPerson(m, 1, 0, city.Vec{X: 300, Y: 90}, Walking, Healthy)
		sick := testPerson(m, 2, 0, city.Vec{X: 307, Y: 90}, Walking, Sick)
		infected += infect([]*Person{healthy, sick}, r)
	}
	rate := float64(infected) / trials
	want := 1 - ChanceOfInfection
	if rate < want-0.05 || rate > want+0.05 {
		t.Fatalf("infection rate %.3f, want about %.2f", rate, want)
	}
}

func TestInfect_ComparisonDirection(t *testing.T) {
	m := city.NewCityMap()
	healthy := testPerson(m, 1, 0, city.Vec{X: 300, Y: 90}, Walking, Healthy)
	sick := testPerson(m, 2, 0, city.Vec{X: 307, Y: 90}, Walking, Sick)

	if n := infect([]*Person{healthy, sick}, &scriptedRand{t: t, floats: []float64{ChanceOfInfection - 0.01}}); n != 0 {
		t.Fatalf("expected a low draw to spare the healthy walker, got %d infections", n)
	}
	if n := infect([]*Person{healthy, sick}, &scriptedRand{t: t, floats: []float64{ChanceOfInfection}}); n != 1 {
		t.Fatalf("expected a draw at the threshold to infect, got %d infections", n)
	}
	if healthy.Health != Sick || healthy.StepsToRecovery != InitialStepsToRecovery {
		t.Fatalf("expected infected walker to be sick with full countdown, got %s/%d", healthy.Health, healthy.StepsToRecovery)
	}
}

func TestInfect_IgnoresDistantAndNonWalking(t *testing.T) {
	m := city.NewCityMap()
	sick := testPerson(m, 1, 0, city.Vec{X: 300, Y: 90}, Walking, Sick)
	far := testPerson(m, 2, 0, city.Vec{X: 305, Y: 95}, Walking, Healthy)
	homebody := testPerson(m, 3, 0, city.Vec{X: 300, Y: 91}, AtHome, Healthy)
	goingHome := testPerson(m, 4, 0, city.Vec{X: 301, Y: 90}, GoingHome, Healthy)

	n := infect([]*Person{sick, far, homebody, goingHome}, fixedRand{float64: 0.99})
	if n != 0 {
		t.Fatalf("expected no infections, got %d", n)
	}
	for _, p := range []*Person{far, homebody, goingHome} {
		if p.Health != Healthy {
			t.Fatalf("person %d got infected", p.ID)
		}
	}
}

func TestInfect_NewlyInfectedDoNotSpreadSameTick(t *testing.T) {
	m := city.NewCityMap()
	source := testPerson(m, 1, 0, city.Vec{X: 300, Y: 90}, Walking, Sick)
	near := testPerson(m, 2, 0, city.Vec{X: 307, Y: 90}, Walking, Healthy)
	chained := testPerson(m, 3, 0, city.Vec{X: 314, Y: 90}, Walking, Healthy)

	n := infect([]*Person{source, near, chained}, fixedRand{float64: 0.99})
	if n != 1 {
		t.Fatalf("expected exactly one infection, got %d", n)
	}
	if near.Health != Sick || chained.Health != Healthy {
		t.Fatalf("unexpected health: near=%s chained=%s", near.Health, chained.Health)
	}
}

func TestInfect_AtMostOncePerTickAndNeverHeals(t *testing.T) {
	m := city.NewCityMap()
	healthy := testPerson(m, 1, 0, city.Vec{X: 300, Y: 90}, Walking, Healthy)
	sickA := testPerson(m, 2, 0, city.Vec{X: 303, Y: 90}, Walking, Sick)
	sickB := testPerson(m, 3, 0, city.Vec{X: 297, Y: 90}, Walking, Sick)
	sickA.StepsToRecovery = 3

	r := &scriptedRand{t: t, floats: []float64{0.99}}
	if n := infect([]*Person{healthy, sickA, sickB}, r); n != 1 {
		t.Fatalf("expected one infection, got %d", n)
	}
	if sickA.Health != Sick || sickA.StepsToRecovery != 3 || sickB.Health != Sick {
		t.Fatalf("infection pass must not touch sick people")
	}
}
