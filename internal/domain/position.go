package domain

import "math"

// Position - координаты в мире игры. Y - высота.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// DistanceTo возвращает расстояние в 3D
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	dz := float64(p.Z - other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance2DTo возвращает расстояние по плоскости пола (X/Z), высота игнорируется.
// Так игра считает дистанцию взаимодействия с сундуками.
func (p Position) Distance2DTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dz := float64(p.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}
