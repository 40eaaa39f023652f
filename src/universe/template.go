package universe

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//PointerTemplate is the single cell template, stamping it toggles one cell
const PointerTemplate = "pointer"

//BuiltinTemplates are registered on every new universe
var BuiltinTemplates = []Template{
	{PointerTemplate, "a single cell", [][]int{{0, 0}}},
	{"blinker", "period 2 oscillator", [][]int{{1, 0}, {1, 1}, {1, 2}}},
	{"glider", "the smallest spaceship", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"lwss", "lightweight spaceship", [][]int{{1, 0}, {4, 0}, {0, 1}, {0, 2}, {4, 2}, {0, 3}, {1, 3}, {2, 3}, {3, 3}}},
	{"r-pentomino", "methuselah, stabilizes after 1103 generations", [][]int{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}},
	{"toad", "period 2 oscillator", [][]int{{1, 0}, {2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}}},
	{"testSample1", "the test sample with 3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//bounds returns the max x and the max y of the template
func (t Template) bounds() (w int, h int) {
	for _, c := range t.Coordinates {
		if c[0] > w {
			w = c[0]
		}
		if c[1] > h {
			h = c[1]
		}
	}
	return
}

//Size returns the width and the height of the template bounding box
func (t Template) Size() (int, int) {
	w, h := t.bounds()
	return w + 1, h + 1
}

//Rotate returns the template rotated by 90 degrees inside its bounding box
//left rotates counterclockwise
func (t Template) Rotate(left bool) Template {
	w, h := t.bounds()
	r := Template{Name: t.Name, Descr: t.Descr, Coordinates: make([][]int, len(t.Coordinates))}
	for i, c := range t.Coordinates {
		x, y := c[0], c[1]
		if left {
			r.Coordinates[i] = []int{y, w - x}
		} else {
			r.Coordinates[i] = []int{h - y, x}
		}
	}
	return r
}

//stamp toggles the template cells placed with the origin at x, y
//the cells outside the grid are skipped
func (t Template) stamp(g *Grid, x int, y int) {
	for _, c := range t.Coordinates {
		if len(c) < 2 || !g.Contains(x+c[0], y+c[1]) {
			continue
		}
		g.Toggle(x+c[0], y+c[1])
	}
}

//LoadTemplates reads the pattern file
//the file is a JSON object of groups, each group maps a pattern name to the list of "x,y" points
//the template names are "group/name" in lower case
func LoadTemplates(filename string) ([]Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadTemplates] failed to read file: %+v", filename)
	}
	var groups map[string]map[string][]string
	if err = json.Unmarshal(data, &groups); err != nil {
		return nil, errors.Wrapf(err, "[LoadTemplates] failed to unmarshal data from file: %+v", filename)
	}
	templates := make([]Template, 0)
	for group, patterns := range groups {
		for name, points := range patterns {
			tmpl := Template{
				Name:        strings.ToLower(group) + "/" + strings.ToLower(name),
				Descr:       name,
				Coordinates: make([][]int, 0, len(points)),
			}
			for _, p := range points {
				c, err := parsePoint(p)
				if err != nil {
					return nil, errors.Wrapf(err, "[LoadTemplates] pattern %v", tmpl.Name)
				}
				tmpl.Coordinates = append(tmpl.Coordinates, c)
			}
			templates = append(templates, tmpl)
		}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

//parsePoint parses "x,y"
func parsePoint(p string) ([]int, error) {
	n := strings.IndexByte(p, ',')
	if n < 0 {
		return nil, errors.Errorf("bad point %q", p)
	}
	x, err := strconv.Atoi(strings.TrimSpace(p[:n]))
	if err != nil {
		return nil, errors.Wrapf(err, "bad point %q", p)
	}
	y, err := strconv.Atoi(strings.TrimSpace(p[n+1:]))
	if err != nil {
		return nil, errors.Wrapf(err, "bad point %q", p)
	}
	if x < 0 || y < 0 {
		return nil, errors.Errorf("negative point %q", p)
	}
	return []int{x, y}, nil
}
