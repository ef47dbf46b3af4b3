package game

// Pitch dimensions in squares, including the out-of-bounds border rows and
// columns where the crowd sits. Playable squares are x in [1, PitchWidth-2]
// and y in [1, PitchHeight-2].
const (
	PitchWidth  = 28
	PitchHeight = 17
)

// Endzone columns. The home team sets up on the right half (x >= PitchWidth/2)
// and attacks the left endzone; away attacks the right one.
const (
	HomeTargetX = 1
	AwayTargetX = PitchWidth - 2
)

// Square is a board coordinate.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Sq(x, y int) Square {
	return Square{X: x, Y: y}
}

// Distance returns the Chebyshev distance: the number of king moves between
// the two squares.
func (s Square) Distance(other Square) int {
	dx := abs(s.X - other.X)
	dy := abs(s.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ManhattanDistance returns the sum of the axis distances, used for the
// diagonal push-direction rule.
func (s Square) ManhattanDistance(other Square) int {
	return abs(s.X-other.X) + abs(s.Y-other.Y)
}

// Adjacent reports whether other is one of the 8 neighbouring squares.
func (s Square) Adjacent(other Square) bool {
	return s.Distance(other) == 1
}

// OutOfBounds reports whether the square sits on the border (the crowd).
func (s Square) OutOfBounds() bool {
	return s.X <= 0 || s.X >= PitchWidth-1 || s.Y <= 0 || s.Y >= PitchHeight-1
}

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// AdjacentSquares returns the neighbouring squares inside the full grid,
// including out-of-bounds border squares (pushes may target the crowd).
func (s Square) AdjacentSquares() []Square {
	squares := make([]Square, 0, 8)
	for _, d := range directions {
		x, y := s.X+d[0], s.Y+d[1]
		if x < 0 || x >= PitchWidth || y < 0 || y >= PitchHeight {
			continue
		}
		squares = append(squares, Sq(x, y))
	}
	return squares
}

// PassPath returns the squares crossed by a pass from s to target, endpoints
// included, via Bresenham's line. Opponents standing on interior squares of
// the path are interception candidates.
func (s Square) PassPath(to Square) []Square {
	x1, y1 := s.X, s.Y
	x2, y2 := to.X, to.Y

	steep := abs(y2-y1) > abs(x2-x1)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}
	swapped := false
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
		swapped = true
	}

	dx := x2 - x1
	dy := abs(y2 - y1)
	err := dx / 2
	ystep := 1
	if y1 >= y2 {
		ystep = -1
	}

	path := make([]Square, 0, dx+1)
	y := y1
	for x := x1; x <= x2; x++ {
		if steep {
			path = append(path, Sq(y, x))
		} else {
			path = append(path, Sq(x, y))
		}
		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}

	if swapped {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
