package model

// Location представляет координаты в игровом мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	X float32
	Y float32
	Z float32
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z float32) Location {
	return Location{X: x, Y: y, Z: z}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt).
func (l Location) DistanceSquared(other Location) float64 {
	dx := float64(l.X - other.X)
	dy := float64(l.Y - other.Y)
	dz := float64(l.Z - other.Z)
	return dx*dx + dy*dy + dz*dz
}
