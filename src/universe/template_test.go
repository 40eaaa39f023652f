package universe

import (
	"os"
	"path/filepath"
	"testing"
)

func coordinateSet(t Template) map[[2]int]bool {
	res := map[[2]int]bool{}
	for _, c := range t.Coordinates {
		res[[2]int{c[0], c[1]}] = true
	}
	return res
}

func sameCoordinates(a Template, b Template) bool {
	as, bs := coordinateSet(a), coordinateSet(b)
	if len(as) != len(bs) {
		return false
	}
	for c := range as {
		if !bs[c] {
			return false
		}
	}
	return true
}

func TestTemplateRotate(t *testing.T) {
	glider := Template{"glider", "", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}}

	left := glider.Rotate(true)
	expected := Template{Coordinates: [][]int{{0, 1}, {1, 0}, {2, 2}, {2, 1}, {2, 0}}}
	if !sameCoordinates(left, expected) {
		t.Fatalf("rotated left: %v, expected %v", left.Coordinates, expected.Coordinates)
	}
	if !sameCoordinates(left.Rotate(false), glider) {
		t.Fatalf("left then right rotation is not the identity: %v", left.Rotate(false).Coordinates)
	}
	r := glider
	for i := 0; i < 4; i++ {
		r = r.Rotate(false)
	}
	if !sameCoordinates(r, glider) {
		t.Fatalf("four right rotations changed the glider: %v", r.Coordinates)
	}
	if glider.Coordinates[0][0] != 1 || glider.Coordinates[0][1] != 0 {
		t.Fatalf("rotation modified the source template")
	}

	lwss := Template{Coordinates: [][]int{{1, 0}, {4, 0}, {0, 1}}}
	if w, h := lwss.Size(); w != 5 || h != 2 {
		t.Fatalf("size %v x %v, expected 5 x 2", w, h)
	}
	if w, h := lwss.Rotate(true).Size(); w != 2 || h != 5 {
		t.Fatalf("rotated size %v x %v, expected 2 x 5", w, h)
	}
}

func TestTemplateStamp(t *testing.T) {
	g := newGrid(t, 5, 5)
	blinker := Template{"b", "", [][]int{{0, 0}, {0, 1}, {0, 2}}}

	blinker.stamp(g, 4, 3)
	if g.Get(4, 3) != Alive || g.Get(4, 4) != Alive {
		t.Fatalf("stamp missed in-range cells")
	}
	if a, _ := g.Population(); a != 2 {
		t.Fatalf("%v live cells, expected 2", a)
	}

	//stamping again toggles the cells back
	blinker.stamp(g, 4, 3)
	if a, _ := g.Population(); a != 0 {
		t.Fatalf("%v live cells, expected 0", a)
	}

	blinker.stamp(g, -1, 0)
	if a, _ := g.Population(); a != 0 {
		t.Fatalf("stamp outside the grid changed %v cells", a)
	}
}

func TestBuiltinTemplates(t *testing.T) {
	names := map[string]bool{}
	for _, tmpl := range BuiltinTemplates {
		if names[tmpl.Name] {
			t.Errorf("duplicated template %q", tmpl.Name)
		}
		names[tmpl.Name] = true
		for _, c := range tmpl.Coordinates {
			if len(c) != 2 || c[0] < 0 || c[1] < 0 {
				t.Errorf("template %q has bad coordinate %v", tmpl.Name, c)
			}
		}
	}
	if !names[PointerTemplate] {
		t.Errorf("pointer template is missing")
	}
}

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %v: %v", path, err)
	}
	return path
}

func TestLoadTemplates(t *testing.T) {
	path := writeFile(t, `{
		"Oscillators": {"Blinker": ["0,0", "0,1", "0,2"]},
		"Spaceships": {"Glider": ["1,0", "2,1", "0,2", "1,2", " 2, 2"]}
	}`)
	templates, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("%v templates, expected 2", len(templates))
	}
	if templates[0].Name != "oscillators/blinker" || templates[1].Name != "spaceships/glider" {
		t.Fatalf("unexpected names %q %q", templates[0].Name, templates[1].Name)
	}
	glider := Template{Coordinates: [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}}
	if !sameCoordinates(templates[1], glider) {
		t.Fatalf("glider coordinates %v", templates[1].Coordinates)
	}
}

func TestLoadTemplatesErrors(t *testing.T) {
	for name, data := range map[string]string{
		"not json":  `[1, 2`,
		"bad point": `{"G": {"P": ["1;2"]}}`,
		"not a num": `{"G": {"P": ["a,2"]}}`,
		"negative":  `{"G": {"P": ["-1,2"]}}`,
	} {
		if _, err := LoadTemplates(writeFile(t, data)); err == nil {
			t.Errorf("%v: expected error", name)
		}
	}
	if _, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("missing file: expected error")
	}
}
