// Package maze provides a DFS-carved maze and an area-query mock, used to
// exercise the planner end to end without a live elevation collaborator.
package maze

import (
	"math/rand"

	"geopath/pkg/geodesy"
)

// obstacleAlt and openAlt mirror the "alt>0 means obstacle" convention the
// scenario tests are specified against.
const (
	obstacleAlt = 1.0
	openAlt     = -5.0
)

// Maze is a DFS-carved grid maze: 1 marks a wall, 0 marks an open cell.
// Start and End are fixed near two opposite corners, two cells in from the
// edge, the way the reference generator anchors them.
type Maze struct {
	NumLon, NumLat int
	Step           float64
	Start, End     [2]int

	cells [][]int // cells[x][y]; 1 = wall, 0 = open
}

// New carves a maze sized numLon x numLat with the given cell spacing
// (degrees), using rng for its random walk so callers can seed it for
// deterministic tests.
func New(numLon, numLat int, step float64, rng *rand.Rand) *Maze {
	m := &Maze{
		NumLon: numLon,
		NumLat: numLat,
		Step:   step,
		Start:  [2]int{2, 2},
		End:    [2]int{numLon - 3, numLat - 3},
	}
	m.cells = make([][]int, numLon)
	for x := range m.cells {
		m.cells[x] = make([]int, numLat)
		for y := range m.cells[x] {
			m.cells[x][y] = 1
		}
	}
	m.carve(rng)
	m.ensureEndReachable()
	return m
}

// carve runs a randomized depth-first walk, opening a two-cell-wide step
// between visited cells so corridors stay wall-separated.
func (m *Maze) carve(rng *rand.Rand) {
	type dir struct{ dx, dy int }
	dirs := []dir{{2, 0}, {-2, 0}, {0, 2}, {0, -2}}

	stack := [][2]int{m.Start}
	m.cells[m.Start[0]][m.Start[1]] = 0

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		x, y := cur[0], cur[1]

		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		moved := false
		for _, d := range dirs {
			nx, ny := x+d.dx, y+d.dy
			if nx >= 2 && nx < m.NumLon-2 && ny >= 2 && ny < m.NumLat-2 && m.cells[nx][ny] == 1 {
				m.cells[x+d.dx/2][y+d.dy/2] = 0
				m.cells[nx][ny] = 0
				stack = append(stack, [2]int{nx, ny})
				moved = true
				break
			}
		}
		if !moved {
			stack = stack[:len(stack)-1]
		}
	}

	m.cells[m.End[0]][m.End[1]] = 0
}

// ensureEndReachable opens a neighbor of End if the carve left it isolated.
func (m *Maze) ensureEndReachable() {
	ex, ey := m.End[0], m.End[1]
	neighbors := [][2]int{{ex - 1, ey}, {ex + 1, ey}, {ex, ey - 1}, {ex, ey + 1}}
	for _, n := range neighbors {
		if n[0] >= 0 && n[0] < m.NumLon && n[1] >= 0 && n[1] < m.NumLat && m.cells[n[0]][n[1]] == 0 {
			m.cells[ex][ey] = 0
			return
		}
	}
	m.cells[neighbors[0][0]][neighbors[0][1]] = 0
	m.cells[ex][ey] = 0
}

// Moveable reports whether (x, y) is in bounds and open.
func (m *Maze) Moveable(x, y int) bool {
	return x >= 0 && x < m.NumLon && y >= 0 && y < m.NumLat && m.cells[x][y] == 0
}

// ToLLA converts a cell index to its geographic coordinate, with altitude
// encoding obstacle status the way the elevation collaborator would report.
func (m *Maze) ToLLA(x, y int) geodesy.LLA {
	alt := openAlt
	if m.cells[x][y] == 1 {
		alt = obstacleAlt
	}
	return geodesy.LLA{Lon: float64(x) * m.Step, Lat: float64(y) * m.Step, Alt: alt}
}
