package universe

import (
	"fmt"

	"github.com/pkg/errors"
)

//Cell is the state of one grid position
type Cell uint8

const (
	Empty Cell = iota //never populated
	Alive             //live in the current generation
	Dead              //died in some previous generation, not populated since
)

//glyphs used by the text rendering of the grid
const (
	EmptyGlyph = ' '
	AliveGlyph = '◼'
	DeadGlyph  = '◻'
)

//IsAlive reports whether the cell counts as a live neighbour
func (c Cell) IsAlive() bool {
	return c == Alive
}

//Glyph returns the rune used to render the cell
func (c Cell) Glyph() rune {
	switch c {
	case Alive:
		return AliveGlyph
	case Dead:
		return DeadGlyph
	}
	return EmptyGlyph
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

//Density is the percent chance for a cell to become alive on random population
type Density uint8

const (
	Low    Density = 20
	Medium Density = 35
	High   Density = 50
)

//Densities lists the known densities from the sparsest one
var Densities = []Density{Low, Medium, High}

func (d Density) String() string {
	switch d {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return fmt.Sprintf("%d%%", uint8(d))
}

//ParseDensity returns the Density by its name (low, medium, high)
func ParseDensity(name string) (Density, bool) {
	for _, d := range Densities {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

//Next returns the next denser Density, High wraps to Low
func (d Density) Next() Density {
	for i, v := range Densities {
		if v == d {
			return Densities[(i+1)%len(Densities)]
		}
	}
	return Low
}

//MarshalText encodes the Density by its name
func (d Density) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

//UnmarshalText decodes the Density name
func (d *Density) UnmarshalText(text []byte) error {
	v, ok := ParseDensity(string(text))
	if !ok {
		return errors.Errorf("unknown density %q", text)
	}
	*d = v
	return nil
}
