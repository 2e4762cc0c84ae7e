package city

const (
	FieldWidth  = 1000
	FieldHeight = 500

	HouseAmount      = 42
	HouseWidth       = 60
	HouseHeight      = 60
	MaxPeopleInHouse = 10

	housesPerRow = 7
	gridOffsetX  = 20
	gridOffsetY  = 20
	gridStepX    = 140
	gridStepY    = 80
)

type HouseCoordinates struct {
	LeftTopCorner Vec `json:"left_top_corner"`
}

type House struct {
	ID            int              `json:"id"`
	Coordinates   HouseCoordinates `json:"coordinates"`
	ResidentCount int              `json:"resident_count"`
}

func (h House) Center() Vec {
	c := h.Coordinates.LeftTopCorner
	return Vec{X: c.X + HouseWidth/2, Y: c.Y + HouseHeight/2}
}

// CityMap is laid out once; only resident counters change, and only while a
// population is being created.
type CityMap struct {
	houses []House
}

func NewCityMap() *CityMap {
	houses := make([]House, HouseAmount)
	for i := range houses {
		houses[i] = House{
			ID: i,
			Coordinates: HouseCoordinates{LeftTopCorner: Vec{
				X: gridOffsetX + (i%housesPerRow)*gridStepX,
				Y: gridOffsetY + (i/housesPerRow)*gridStepY,
			}},
		}
	}
	return &CityMap{houses: houses}
}

func Capacity() int {
	return HouseAmount * MaxPeopleInHouse
}

func (m *CityMap) Houses() []House {
	out := make([]House, len(m.houses))
	copy(out, m.houses)
	return out
}

func (m *CityMap) House(id int) (House, bool) {
	if id < 0 || id >= len(m.houses) {
		return House{}, false
	}
	return m.houses[id], true
}

func (m *CityMap) AssignResident(id int) bool {
	if id < 0 || id >= len(m.houses) {
		return false
	}
	if m.houses[id].ResidentCount >= MaxPeopleInHouse {
		return false
	}
	m.houses[id].ResidentCount++
	return true
}

func (m *CityMap) IsInsideAnyHouse(p Vec) bool {
	for _, h := range m.houses {
		if IsInsideHouse(p, h) {
			return true
		}
	}
	return false
}

func InField(p Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= FieldWidth && p.Y <= FieldHeight
}

// IsInsideHouse excludes the walls so walkers may stand on them.
func IsInsideHouse(p Vec, h House) bool {
	c := h.Coordinates.LeftTopCorner
	return p.X > c.X && p.X < c.X+HouseWidth &&
		p.Y > c.Y && p.Y < c.Y+HouseHeight
}

// IsInsideOwnHouse counts the walls as part of the resting area.
func IsInsideOwnHouse(p Vec, h House) bool {
	c := h.Coordinates.LeftTopCorner
	return p.X >= c.X && p.X <= c.X+HouseWidth &&
		p.Y >= c.Y && p.Y <= c.Y+HouseHeight
}

func IsOnFootprint(p Vec, h House) bool {
	c := h.Coordinates.LeftTopCorner
	return p.X >= c.X && p.X < c.X+HouseWidth &&
		p.Y >= c.Y && p.Y < c.Y+HouseHeight
}
