package epidemic

import "covidsim/internal/domain/city"

type PersonView struct {
	ID       int      `json:"id"`
	HomeID   int      `json:"home_id"`
	Position city.Vec `json:"position"`
	Health   Health   `json:"health"`
	IsSick   bool     `json:"is_sick"`
	IsBored  bool     `json:"is_bored"`
	State    State    `json:"state"`
}

type MapView struct {
	Houses []city.House `json:"houses"`
}

type Snapshot struct {
	Tick   int          `json:"tick"`
	People []PersonView `json:"people"`
	Map    MapView      `json:"map"`
}

func (g *Game) Snapshot() Snapshot {
	people := make([]PersonView, 0, len(g.people))
	for _, p := range g.people {
		people = append(people, PersonView{
			ID:       p.ID,
			HomeID:   p.HomeID,
			Position: p.Position,
			Health:   p.Health,
			IsSick:   p.Health == Sick,
			IsBored:  p.IsBored,
			State:    p.State,
		})
	}
	return Snapshot{
		Tick:   g.tick,
		People: people,
		Map:    MapView{Houses: g.Map.Houses()},
	}
}
