package core

import "fmt"

// Coordinate represents a cell on the grid
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// IsValid checks if the coordinate lies on a size×size grid
func (c Coordinate) IsValid(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Clamp pulls each axis independently back onto a size×size grid
func (c Coordinate) Clamp(size int) Coordinate {
	return Coordinate{
		X: clampInt(c.X, 0, size-1),
		Y: clampInt(c.Y, 0, size-1),
	}
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Sub returns a new coordinate that is the difference between this coordinate and another
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X - other.X,
		Y: c.Y - other.Y,
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	d := c.Sub(other)
	return abs(d.X) + abs(d.Y)
}

// OneIndexed returns the coordinate shifted for human display
func (c Coordinate) OneIndexed() Coordinate {
	return Coordinate{X: c.X + 1, Y: c.Y + 1}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func clampInt(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
