package universe

//Universe drives a Grid: it serializes the access to the grid, runs the generations
//on a timer and notifies the viewers
type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	String() string
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []string
	Template(name string) (Template, bool)
	SettleTemplate(name string, x int, y int)
	SettleWithRandomData()
	Settle(vc [][]int)
	InverseCell(x int, y int)
	SetCircular(circular bool)
	SetDensity(d Density)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
