package epidemic

import (
	"errors"
	"testing"

	"covidsim/internal/domain/city"
)

func TestNewPerson_StartsInsideHome(t *testing.T) {
	m := city.NewCityMap()
	r := &scriptedRand{t: t, ints: []int{59, 0}}
	p, err := NewPerson(7, 8, m, true, r)
	if err != nil {
		t.Fatalf("NewPerson error: %v", err)
	}
	if got, want := p.Position, (city.Vec{X: 219, Y: 100}); got != want {
		t.Fatalf("position mismatch: got=%+v want=%+v", got, want)
	}
	if p.Health != Sick || p.StepsToRecovery != InitialStepsToRecovery {
		t.Fatalf("expected sick with %d recovery steps, got %s/%d", InitialStepsToRecovery, p.Health, p.StepsToRecovery)
	}
	if p.State != AtHome {
		t.Fatalf("expected AtHome, got %s", p.State)
	}
}

func TestNewPerson_UnknownHome(t *testing.T) {
	_, err := NewPerson(1, city.HouseAmount, city.NewCityMap(), false, seeded(1))
	if !errors.Is(err, ErrUnknownHome) {
		t.Fatalf("expected ErrUnknownHome, got %v", err)
	}
}

func TestWalkingFromOrigin_MovesExactlyMaxDistanceOutsideHouses(t *testing.T) {
	m := city.NewCityMap()
	origin := city.Vec{X: 0, Y: 0}
	for seed := int64(1); seed <= 200; seed++ {
		p := testPerson(m, 1, 0, origin, Walking, Healthy)
		if _, err := p.advance(seeded(seed)); err != nil {
			t.Fatalf("seed %d: advance error: %v", seed, err)
		}
		if got := p.Position.ManhattanTo(origin); got != MaxDistancePerTurn {
			t.Fatalf("seed %d: manhattan distance %d want %d", seed, got, MaxDistancePerTurn)
		}
		if !city.InField(p.Position) {
			t.Fatalf("seed %d: left the field at %+v", seed, p.Position)
		}
		if m.IsInsideAnyHouse(p.Position) {
			t.Fatalf("seed %d: walked into a house at %+v", seed, p.Position)
		}
	}
}

func TestWalking_RetriesRejectedCandidates(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 1, 0, city.Vec{}, Walking, Healthy)
	r := &scriptedRand{t: t, ints: []int{10, 0, 10, 2, 10, 3}}
	if _, err := p.advance(r); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if got, want := p.Position, (city.Vec{X: 10, Y: 20}); got != want {
		t.Fatalf("position mismatch: got=%+v want=%+v", got, want)
	}
	if len(r.ints) != 0 {
		t.Fatalf("expected all scripted draws to be used, %d left", len(r.ints))
	}
}

func TestWalking_ExhaustedRetriesFail(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 4, 0, city.Vec{}, Walking, Healthy)
	_, err := p.advance(fixedRand{intn: 0, float64: 0.9})
	if !errors.Is(err, ErrWalkRetriesExhausted) {
		t.Fatalf("expected ErrWalkRetriesExhausted, got %v", err)
	}
}

func TestAtHome_StartsWalkingAndStepsSameTick(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 1, 0, city.Vec{X: 50, Y: 50}, AtHome, Healthy)
	r := &scriptedRand{t: t, floats: []float64{0.001}, ints: []int{0, 3}}
	if _, err := p.advance(r); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if p.State != Walking {
		t.Fatalf("expected Walking, got %s", p.State)
	}
	if got, want := p.Position, (city.Vec{X: 50, Y: 80}); got != want {
		t.Fatalf("position mismatch: got=%+v want=%+v", got, want)
	}
}

func TestAtHome_MovesOnlyWithinOwnHouse(t *testing.T) {
	m := city.NewCityMap()

	p := testPerson(m, 1, 0, city.Vec{X: 50, Y: 50}, AtHome, Healthy)
	r := &scriptedRand{t: t, floats: []float64{0.9}, ints: []int{0, 0}}
	if _, err := p.advance(r); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if got, want := p.Position, (city.Vec{X: 50, Y: 20}); got != want {
		t.Fatalf("expected move onto own wall: got=%+v want=%+v", got, want)
	}

	r = &scriptedRand{t: t, floats: []float64{0.9}, ints: []int{0, 0}}
	if _, err := p.advance(r); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if got, want := p.Position, (city.Vec{X: 50, Y: 20}); got != want {
		t.Fatalf("expected rejected move to keep position: got=%+v want=%+v", got, want)
	}
	if p.State != AtHome {
		t.Fatalf("expected AtHome, got %s", p.State)
	}
}

func TestGoingHome_MovesTowardCenter(t *testing.T) {
	m := city.NewCityMap()
	cases := []struct {
		name      string
		from      city.Vec
		want      city.Vec
		wantState State
	}{
		{name: "x budget first", from: city.Vec{X: 500, Y: 400}, want: city.Vec{X: 470, Y: 400}, wantState: GoingHome},
		{name: "remainder to y", from: city.Vec{X: 55, Y: 300}, want: city.Vec{X: 50, Y: 275}, wantState: GoingHome},
		{name: "snaps when close", from: city.Vec{X: 60, Y: 60}, want: city.Vec{X: 50, Y: 50}, wantState: AtHome},
		{name: "snaps at exact budget", from: city.Vec{X: 80, Y: 50}, want: city.Vec{X: 50, Y: 50}, wantState: AtHome},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testPerson(m, 1, 0, tc.from, GoingHome, Healthy)
			if _, err := p.advance(&scriptedRand{t: t}); err != nil {
				t.Fatalf("advance error: %v", err)
			}
			if p.Position != tc.want {
				t.Fatalf("position mismatch: got=%+v want=%+v", p.Position, tc.want)
			}
			if p.State != tc.wantState {
				t.Fatalf("state mismatch: got=%s want=%s", p.State, tc.wantState)
			}
		})
	}
}

func TestGoHome_OnlyAffectsWalkers(t *testing.T) {
	m := city.NewCityMap()
	walker := testPerson(m, 1, 0, city.Vec{X: 500, Y: 400}, Walking, Healthy)
	if !walker.GoHome() {
		t.Fatalf("expected walker to be sent home")
	}
	if walker.State != GoingHome || walker.Position != (city.Vec{X: 470, Y: 400}) {
		t.Fatalf("expected first homeward step, got %s at %+v", walker.State, walker.Position)
	}

	homebody := testPerson(m, 2, 0, city.Vec{X: 30, Y: 30}, AtHome, Healthy)
	if homebody.GoHome() {
		t.Fatalf("expected AtHome person to ignore GoHome")
	}
	if homebody.State != AtHome || homebody.Position != (city.Vec{X: 30, Y: 30}) {
		t.Fatalf("expected homebody untouched, got %s at %+v", homebody.State, homebody.Position)
	}
}

func TestSick_RecoveryCountdown(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 1, 0, city.Vec{X: 50, Y: 50}, AtHome, Sick)
	r := fixedRand{intn: 0, float64: 0.9}
	for tick := 1; tick < InitialStepsToRecovery; tick++ {
		if _, err := p.advance(r); err != nil {
			t.Fatalf("tick %d: advance error: %v", tick, err)
		}
		if p.Health != Sick {
			t.Fatalf("tick %d: expected still sick, got %s", tick, p.Health)
		}
		if got, want := p.StepsToRecovery, InitialStepsToRecovery-tick; got != want {
			t.Fatalf("tick %d: steps to recovery %d want %d", tick, got, want)
		}
	}
	out, err := p.advance(r)
	if err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if !out.recovered || p.Health != Healthy || p.StepsToRecovery != 0 {
		t.Fatalf("expected recovery on final tick, got %s/%d recovered=%v", p.Health, p.StepsToRecovery, out.recovered)
	}
}

func TestSick_DeathRollSkipsMovement(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 1, 0, city.Vec{X: 50, Y: 50}, AtHome, Sick)
	r := &scriptedRand{t: t, floats: []float64{ProbabilityOfDying / 2}}
	out, err := p.advance(r)
	if err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if !out.died || p.Health != Dead || p.StepsToRot != InitialStepsToRot {
		t.Fatalf("expected death with %d rot steps, got %s/%d", InitialStepsToRot, p.Health, p.StepsToRot)
	}
	if p.Position != (city.Vec{X: 50, Y: 50}) {
		t.Fatalf("expected no movement on death, got %+v", p.Position)
	}
}

func TestDead_NeverMovesAndRots(t *testing.T) {
	m := city.NewCityMap()
	pos := city.Vec{X: 300, Y: 90}
	p := testPerson(m, 1, 0, pos, Walking, Dead)
	for tick := 1; tick <= InitialStepsToRot; tick++ {
		if _, err := p.advance(&scriptedRand{t: t}); err != nil {
			t.Fatalf("advance error: %v", err)
		}
		if p.Position != pos {
			t.Fatalf("tick %d: dead person moved to %+v", tick, p.Position)
		}
		if got, want := p.StepsToRot, InitialStepsToRot-tick; got != want {
			t.Fatalf("tick %d: steps to rot %d want %d", tick, got, want)
		}
	}
	if !p.OutOfGame() {
		t.Fatalf("expected person to be out of the game")
	}
}

func TestBoredAfterFiveTicksAtHome(t *testing.T) {
	m := city.NewCityMap()
	p := testPerson(m, 1, 0, city.Vec{X: 50, Y: 50}, AtHome, Healthy)
	r := fixedRand{intn: 0, float64: 0.9}
	for tick := 1; tick <= BoredThreshold; tick++ {
		if _, err := p.advance(r); err != nil {
			t.Fatalf("advance error: %v", err)
		}
		if want := tick >= BoredThreshold; p.IsBored != want {
			t.Fatalf("tick %d: IsBored=%v want %v", tick, p.IsBored, want)
		}
	}

	p.Position = city.Vec{X: 300, Y: 90}
	p.State = GoingHome
	if _, err := p.advance(r); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	if p.IsBored {
		t.Fatalf("expected boredom to reset away from home")
	}
}
