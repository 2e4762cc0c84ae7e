package city

import "math"

type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) DistanceTo(o Vec) float64 {
	dx := float64(v.X - o.X)
	dy := float64(v.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (v Vec) ManhattanTo(o Vec) int {
	return Abs(v.X-o.X) + Abs(v.Y-o.Y)
}

func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func Sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
