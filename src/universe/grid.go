package universe

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	//ErrInvalidDimensions is returned by New when the width or the height is not positive
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	//ErrOutOfRange is the panic value cause for coordinates outside the grid
	ErrOutOfRange = errors.New("coordinates out of range")
)

//Area is a detached copy of the grid cells, rows of Entities are indexed as [y][x]
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
}

//axisResolver maps a neighbour coordinate on one axis into the grid
//returns false when the neighbour must be skipped
type axisResolver func(c int, size int) (int, bool)

//wrapAxis makes the axis circular
func wrapAxis(c int, size int) (int, bool) {
	if c < 0 {
		return size - 1, true
	}
	if c >= size {
		return 0, true
	}
	return c, true
}

//skipAxis drops the neighbours outside the axis
func skipAxis(c int, size int) (int, bool) {
	return c, c >= 0 && c < size
}

//Grid is the dense cell buffer and the generation rule
//Grid is not safe for concurrent use, the caller serializes all calls
type Grid struct {
	width    int
	height   int
	cells    []Cell
	next     []Cell //buffer for the next generation, swapped with cells on Advance
	circular bool
}

//New creates a circular grid with all cells Empty
func New(width int, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%v x %v", width, height)
	}
	return &Grid{
		width:    width,
		height:   height,
		cells:    make([]Cell, width*height),
		next:     make([]Cell, width*height),
		circular: true,
	}, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

//IsCircular reports whether the grid is a torus
func (g *Grid) IsCircular() bool {
	return g.circular
}

//SetCircular switches the topology, the next Advance uses it
func (g *Grid) SetCircular(circular bool) {
	g.circular = circular
}

//Contains reports whether x, y is a valid coordinate
func (g *Grid) Contains(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

//index maps the coordinates to the buffer position, panics outside the grid
func (g *Grid) index(x int, y int) int {
	if !g.Contains(x, y) {
		panic(errors.Wrapf(ErrOutOfRange, "(%v, %v) on %v x %v grid", x, y, g.width, g.height))
	}
	return x + y*g.width
}

//Get returns the cell at x, y
func (g *Grid) Get(x int, y int) Cell {
	return g.cells[g.index(x, y)]
}

//Set overwrites the cell at x, y
func (g *Grid) Set(x int, y int, c Cell) {
	g.cells[g.index(x, y)] = c
}

//Toggle switches the cell between Alive and Empty, a Dead cell becomes Alive
func (g *Grid) Toggle(x int, y int) {
	i := g.index(x, y)
	if g.cells[i] == Alive {
		g.cells[i] = Empty
	} else {
		g.cells[i] = Alive
	}
}

//Random populates every cell: Alive with the density's percent chance, Empty otherwise
func (g *Grid) Random(d Density, src Entropy) {
	for i := range g.cells {
		if src.IntN(100) < int(d) {
			g.cells[i] = Alive
		} else {
			g.cells[i] = Empty
		}
	}
}

//Fill sets every cell to c
func (g *Grid) Fill(c Cell) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

//Each calls cb for every cell in row-major order
func (g *Grid) Each(cb func(x int, y int, c Cell)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			cb(x, y, g.cells[g.index(x, y)])
		}
	}
}

//Population counts the Alive and the Dead cells
func (g *Grid) Population() (alive int, dead int) {
	for _, c := range g.cells {
		switch c {
		case Alive:
			alive++
		case Dead:
			dead++
		}
	}
	return
}

func (g *Grid) resolver() axisResolver {
	if g.circular {
		return wrapAxis
	}
	return skipAxis
}

//LiveNeighborCount counts the Alive cells in the Moore neighbourhood of x, y
func (g *Grid) LiveNeighborCount(x int, y int) int {
	g.index(x, y)
	return g.liveNeighbors(g.resolver(), x, y)
}

func (g *Grid) liveNeighbors(resolve axisResolver, x int, y int) (count int) {
	for dy := -1; dy < 2; dy++ {
		ny, ok := resolve(y+dy, g.height)
		if !ok {
			continue
		}
		for dx := -1; dx < 2; dx++ {
			//skip my position
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ok := resolve(x+dx, g.width)
			if !ok {
				continue
			}
			if g.cells[g.index(nx, ny)] == Alive {
				count++
			}
		}
	}
	return
}

//nextState is the transition table
func nextState(c Cell, liveNeighbors int) Cell {
	switch {
	case c == Alive && (liveNeighbors < 2 || liveNeighbors > 3):
		return Dead
	case c != Alive && liveNeighbors == 3:
		return Alive
	}
	return c
}

//Advance calculates the next generation
func (g *Grid) Advance() {
	g.advance()
}

//advance calculates the next generation into the spare buffer and swaps the buffers
//the current generation is never written while it is scanned
func (g *Grid) advance() (alive int, changed bool) {
	resolve := g.resolver()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := g.index(x, y)
			c := nextState(g.cells[i], g.liveNeighbors(resolve, x, y))
			if c == Alive {
				alive++
			}
			changed = changed || c != g.cells[i]
			g.next[i] = c
		}
	}
	g.cells, g.next = g.next, g.cells
	return
}

//Area returns a copy of the cells
func (g *Grid) Area() Area {
	a := createArea(g.width, g.height)
	g.Each(func(x int, y int, c Cell) {
		a.Entities[y][x] = c
	})
	return a
}

//String renders the grid, one line per row
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width*3 + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.cells[g.index(x, y)].Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

//createArea allocates the new area backed by one slice
func createArea(width int, height int) Area {
	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
