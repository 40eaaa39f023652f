package universe

import (
	"sort"
	"sync"
	"time"
)

//Options represents the Universe's configurable options
type Options struct {
	Width           int                    `json:"width"`
	Height          int                    `json:"height"`
	Interval        time.Duration          `json:"interval"`
	MaxSteps        int                    `json:"max_steps"`
	MaxSkippedTicks int                    `json:"max_skipped_ticks"`
	Bounded         bool                   `json:"bounded"`      //edge-clamped topology instead of the torus
	Density         Density                `json:"density"`      //density for SettleWithRandomData
	Seed            uint64                 `json:"seed"`         //entropy seed, 0 seeds from the clock
	DisplayDead     bool                   `json:"display_dead"` //render the Dead cells distinct from the Empty ones
	Advanced        map[string]interface{} `json:"-"`            //advanced options (informational)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	DeadCells     int
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 80
	DefHeight             = 60
	DefMaxSkippedTicks    = 5
	DefDensity            = Medium
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Density:         DefDensity,
	DisplayDead:     true,
}

//BaseUniverse implements Universe interface
//every mutation of the grid goes through the area mutex, the commands run on the main loop goroutine
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*Grid
		sync.Mutex
	}
	entropy   Entropy
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
	doneCh    chan struct{}
}

var _ Universe = (*BaseUniverse)(nil)

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	if o == nil {
		def := DefaultUniverseOptions
		o = &def
	}
	g, err := New(o.Width, o.Height)
	if err != nil {
		return nil, err
	}
	g.SetCircular(!o.Bounded)
	if o.Density == 0 {
		o.Density = DefDensity
	}

	u := BaseUniverse{
		options:   *o,
		entropy:   NewEntropy(o.Seed),
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		doneCh:    make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	u.options.Advanced = map[string]interface{}{
		"Topology": topologyName(g.IsCircular()),
		"Density":  u.options.Density.String(),
	}
	u.state.Details = make(map[string]interface{})
	u.area.Grid = g
	for _, tmpl := range BuiltinTemplates {
		u.AddTemplate(tmpl)
	}

	go u.mainLoop()
	return &u, nil
}

func topologyName(circular bool) string {
	if circular {
		return "circular"
	}
	return "bounded"
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.state.Lock()
	u.templates[tmpl.Name] = tmpl
	u.state.Unlock()
}

//Templates returns the sorted template names
func (u *BaseUniverse) Templates() []string {
	u.state.Lock()
	defer u.state.Unlock()
	names := make([]string, 0, len(u.templates))
	for k := range u.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Template returns the template by its name
func (u *BaseUniverse) Template(name string) (Template, bool) {
	u.state.Lock()
	defer u.state.Unlock()
	tmpl, ok := u.templates[name]
	return tmpl, ok
}

//Settle makes the cells alive
//vc - array of x,y coordinates, the coordinates outside the area are ignored
func (u *BaseUniverse) Settle(vc [][]int) {
	u.area.Lock()
	for _, v := range vc {
		if len(v) < 2 || !u.area.Contains(v[0], v[1]) {
			continue
		}
		u.area.Set(v[0], v[1], Alive)
	}
	u.area.Unlock()
	u.updatePopulation()
	u.refreshView()
}

//SettleTemplate toggles the cells of the template placed at x, y
func (u *BaseUniverse) SettleTemplate(name string, x int, y int) {
	tmpl, ok := u.Template(name)
	if !ok {
		return
	}
	u.area.Lock()
	tmpl.stamp(u.area.Grid, x, y)
	u.area.Unlock()
	u.updatePopulation()
	u.refreshView()
}

//SettleWithRandomData populates the universe with random data, returns immediately
//it is ignored while the simulation is running
func (u *BaseUniverse) SettleWithRandomData() {
	rm := u.Status().RunningMode
	if rm != RunningStateManual && rm != RunningStateFinished {
		return
	}
	u.controlCh <- u.clear
	u.controlCh <- func() {
		d := u.Options().Density
		u.area.Lock()
		u.area.Random(d, u.entropy)
		u.area.Unlock()
		u.updatePopulation()
		u.refreshView()
	}
}

//InverseCell inverses the cell state at point x, y
func (u *BaseUniverse) InverseCell(x int, y int) {
	u.area.Lock()
	if !u.area.Contains(x, y) {
		u.area.Unlock()
		return
	}
	u.area.Toggle(x, y)
	u.area.Unlock()
	u.updatePopulation()
	u.refreshView()
}

//SetCircular switches the topology of the universe
func (u *BaseUniverse) SetCircular(circular bool) {
	u.area.Lock()
	u.area.Grid.SetCircular(circular)
	u.area.Unlock()
	u.state.Lock()
	u.options.Bounded = !circular
	u.options.Advanced["Topology"] = topologyName(circular)
	u.state.Unlock()
	u.refreshView()
}

//SetDensity sets the density used by SettleWithRandomData
func (u *BaseUniverse) SetDensity(d Density) {
	u.state.Lock()
	u.options.Density = d
	u.options.Advanced["Density"] = d.String()
	u.state.Unlock()
	u.refreshView()
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.state.Lock()
	u.views = append(u.views, v)
	u.state.Unlock()
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	o := u.options
	o.Advanced = make(map[string]interface{}, len(u.options.Advanced))
	for k, v := range u.options.Advanced {
		o.Advanced[k] = v
	}
	return o
}

//Area returns a copy of the current universe area (field where cells is living)
func (u *BaseUniverse) Area() Area {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Grid.Area()
}

//String renders the current area as text
func (u *BaseUniverse) String() string {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Grid.String()
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.controlCh <- u.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.controlCh <- u.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.controlCh <- u.step
}

//Clear clears the universe (empty all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.controlCh <- u.clear
}

//Close stops the main loop, returns immediately
func (u *BaseUniverse) Close() {
	u.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.doneCh)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			u.stop()
			return
		}
	}
}

//updatePopulation recounts the live and the dead cells
func (u *BaseUniverse) updatePopulation() {
	u.area.Lock()
	alive, dead := u.area.Population()
	u.area.Unlock()
	u.state.Lock()
	u.state.LiveCells = alive
	u.state.DeadCells = dead
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	if u.Status().RunningMode == RunningStateRun {
		return
	}
	u.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan bool)
		stepCmd := func() {
			if u.Status().RunningMode == RunningStateRun {
				u.step()
			}
			done <- true
		}
		for u.Status().RunningMode == RunningStateRun {
			if skipped > u.options.MaxSkippedTicks {
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the main loop is still busy with another command
			select {
			case u.controlCh <- stepCmd:
				skipped = 0
				select {
				case <-done:
				case <-u.doneCh:
					return
				}
			case <-u.doneCh:
				return
			default:
				skipped++
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}
	}()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.Status().RunningMode == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (u *BaseUniverse) step() {
	rm := u.Status().RunningMode
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	u.switchRunningState(RunningStateStep)

	start := time.Now()
	u.area.Lock()
	alive, changed := u.area.advance()
	_, dead := u.area.Population()
	u.area.Unlock()

	u.state.Lock()
	u.state.IterationNum++
	u.state.LiveCells = alive
	u.state.DeadCells = dead
	u.state.IterationTime = time.Since(start)
	maxReached := u.options.MaxSteps != 0 && u.state.IterationNum >= u.options.MaxSteps
	u.state.Unlock()

	if maxReached || alive == 0 || !changed {
		u.switchRunningState(RunningStateFinished)
	} else {
		u.switchRunningState(rm)
	}
	u.refreshView()
}

//clear empties the universe, reset all counters
func (u *BaseUniverse) clear() {
	u.area.Lock()
	u.area.Fill(Empty)
	u.area.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.DeadCells = 0
	u.state.IterationTime = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	u.state.Lock()
	views := u.views
	u.state.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
