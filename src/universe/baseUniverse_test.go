package universe

import (
	"testing"
	"time"
)

func newTestUniverse(t *testing.T, width int, height int, bounded bool) (*BaseUniverse, chan Status) {
	t.Helper()
	o := DefaultUniverseOptions
	o.Width = width
	o.Height = height
	o.Interval = 0
	o.Bounded = bounded
	o.Seed = 7
	stateCh := make(chan Status, 10)
	u, err := NewBaseUniverse(&o, stateCh)
	if err != nil {
		t.Fatalf("NewBaseUniverse: %v", err)
	}
	t.Cleanup(u.Close)
	return u, stateCh
}

//waitFor reads the status updates until one of the modes comes
func waitFor(t *testing.T, stateCh chan Status, modes ...RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			for _, m := range modes {
				if st.RunningMode == m {
					return st
				}
			}
		case <-timeout:
			t.Fatalf("timeout waiting for the running modes %v", modes)
		}
	}
}

func TestNewBaseUniverseInvalidOptions(t *testing.T) {
	o := DefaultUniverseOptions
	o.Width = 0
	if _, err := NewBaseUniverse(&o, nil); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestBaseUniverseStep(t *testing.T) {
	u, stateCh := newTestUniverse(t, 9, 5, true)
	u.Settle([][]int{{4, 1}, {4, 2}, {4, 3}, {100, 100}})
	if st := u.Status(); st.LiveCells != 3 {
		t.Fatalf("%v live cells after settle, expected 3", st.LiveCells)
	}

	u.Step()
	waitFor(t, stateCh, RunningStateStep)
	st := waitFor(t, stateCh, RunningStateManual, RunningStateFinished)
	if st.RunningMode != RunningStateManual {
		t.Fatalf("blinker finished the simulation")
	}
	if st.IterationNum != 1 || st.LiveCells != 3 || st.DeadCells != 2 {
		t.Fatalf("unexpected status %+v", st)
	}

	a := u.Area()
	for _, c := range [][2]int{{3, 2}, {4, 2}, {5, 2}} {
		if a.Entities[c[1]][c[0]] != Alive {
			t.Fatalf("cell %v is %v, expected alive", c, a.Entities[c[1]][c[0]])
		}
	}
	if a.Entities[1][4] != Dead || a.Entities[3][4] != Dead {
		t.Fatalf("blinker ends are not dead")
	}
}

func TestBaseUniverseFinishesOnExtinction(t *testing.T) {
	u, stateCh := newTestUniverse(t, 9, 5, false)
	u.InverseCell(2, 2)
	u.InverseCell(20, 2)

	u.Step()
	st := waitFor(t, stateCh, RunningStateManual, RunningStateFinished)
	if st.RunningMode != RunningStateFinished || st.LiveCells != 0 || st.DeadCells != 1 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestBaseUniverseRun(t *testing.T) {
	u, stateCh := newTestUniverse(t, 20, 20, false)
	u.state.Lock()
	u.options.MaxSteps = 5
	u.state.Unlock()
	u.SettleTemplate("blinker", 5, 5)

	u.Run()
	waitFor(t, stateCh, RunningStateRun)
	st := waitFor(t, stateCh, RunningStateFinished)
	if st.IterationNum != 5 || st.LiveCells != 3 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestBaseUniverseRunStop(t *testing.T) {
	u, stateCh := newTestUniverse(t, 20, 20, false)
	u.state.Lock()
	u.options.MaxSteps = 0
	u.options.Interval = time.Millisecond
	u.state.Unlock()
	u.SettleTemplate("blinker", 5, 5)

	u.Run()
	waitFor(t, stateCh, RunningStateRun)
	u.Stop()
	st := waitFor(t, stateCh, RunningStateManual, RunningStateFinished)
	if st.RunningMode != RunningStateManual {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestBaseUniverseClear(t *testing.T) {
	u, stateCh := newTestUniverse(t, 9, 5, false)
	u.SettleTemplate("glider", 0, 0)
	u.Step()
	waitFor(t, stateCh, RunningStateManual, RunningStateFinished)

	u.Clear()
	st := waitFor(t, stateCh, RunningStateManual)
	if st.IterationNum != 0 || st.LiveCells != 0 || st.DeadCells != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
	a := u.Area()
	for y := range a.Entities {
		for x, c := range a.Entities[y] {
			if c != Empty {
				t.Fatalf("cell (%d,%d) is %v after clear", x, y, c)
			}
		}
	}
}

func TestBaseUniverseSettleWithRandomData(t *testing.T) {
	areas := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		u, stateCh := newTestUniverse(t, 30, 20, false)
		u.SetDensity(High)
		u.SettleWithRandomData()
		waitFor(t, stateCh, RunningStateManual)
		//the step is queued after the random population
		u.Step()
		waitFor(t, stateCh, RunningStateManual, RunningStateFinished)
		areas = append(areas, u.String())
	}
	if areas[0] != areas[1] {
		t.Fatalf("the same seed gives different universes")
	}
}

func TestBaseUniverseSetCircular(t *testing.T) {
	u, _ := newTestUniverse(t, 9, 5, true)
	if o := u.Options(); !o.Bounded || o.Advanced["Topology"] != "bounded" {
		t.Fatalf("unexpected options %+v", o)
	}
	u.SetCircular(true)
	if o := u.Options(); o.Bounded || o.Advanced["Topology"] != "circular" {
		t.Fatalf("unexpected options %+v", o)
	}
	u.area.Lock()
	circular := u.area.IsCircular()
	u.area.Unlock()
	if !circular {
		t.Fatalf("grid topology is not switched")
	}
}

func TestBaseUniverseTemplates(t *testing.T) {
	u, _ := newTestUniverse(t, 9, 5, false)
	if _, ok := u.Template("glider"); !ok {
		t.Fatalf("builtin glider is missing")
	}
	u.AddTemplate(Template{Name: "custom/dot", Coordinates: [][]int{{0, 0}}})
	names := u.Templates()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names are not sorted: %v", names)
		}
	}
	u.SettleTemplate("custom/dot", 8, 4)
	u.SettleTemplate("unknown", 0, 0)
	if st := u.Status(); st.LiveCells != 1 {
		t.Fatalf("%v live cells, expected 1", st.LiveCells)
	}
}
