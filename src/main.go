package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/integrii/flaggy"
	"golang.org/x/sync/errgroup"

	"lifegrid/src/universe"
	"lifegrid/src/view"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	print       bool
	noColors    bool
	density     string
	pattern     string
	patterns    string
	config      string
}

func main() {
	eo, uo := initOptions()

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u, err := universe.NewBaseUniverse(uo, stateCh)
	if err != nil {
		log.Fatalf("can't create the universe: %+v", err)
	}

	if eo.patterns != "" {
		templates, err := universe.LoadTemplates(eo.patterns)
		if err != nil {
			log.Fatalf("can't load the patterns: %+v", err)
		}
		for _, tmpl := range templates {
			u.AddTemplate(tmpl)
		}
	}

	if eo.randomData {
		u.SettleWithRandomData()
	} else {
		tmpl, ok := u.Template(eo.pattern)
		if !ok {
			log.Fatalf("unknown pattern %q, known patterns: %v", eo.pattern, strings.Join(u.Templates(), ", "))
		}
		w, h := tmpl.Size()
		u.SettleTemplate(tmpl.Name, (uo.Width-w)/2, (uo.Height-h)/2)
	}

	if eo.interactive {
		v := view.NewViewTerminal(uo.DisplayDead)
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	v := view.NewConsoleOut(!eo.noColors)
	u.RegisterViewer(v)
	v.Start()
	u.Run()
	st := watch(u, stateCh)
	u.Close()

	if st.RunningMode != universe.RunningStateFinished {
		fmt.Printf("Stopped on iteration %v\n", st.IterationNum)
	}
	if eo.print {
		fmt.Print(u.String())
	}
}

//watch consumes the status updates until the simulation finishes
//or until it is stopped by the interrupt signal
func watch(u universe.Universe, stateCh chan universe.Status) (last universe.Status) {
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var eg errgroup.Group
	done := make(chan struct{})
	eg.Go(func() error {
		select {
		case <-sigCtx.Done():
			u.Stop()
		case <-done:
		}
		return nil
	})
	eg.Go(func() error {
		defer close(done)
		for st := range stateCh {
			last = st
			if st.RunningMode == universe.RunningStateFinished {
				return nil
			}
			if sigCtx.Err() != nil && st.RunningMode == universe.RunningStateManual {
				return nil
			}
		}
		return nil
	})
	_ = eg.Wait()
	return
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	def := universe.DefaultUniverseOptions
	uo = &def
	eo = &EnvOptions{pattern: "testSample1", config: configArg(os.Args[1:])}
	if eo.config != "" {
		if err := LoadConfig(eo.config, uo); err != nil {
			log.Fatalf("%+v", err)
		}
	}
	eo.density = uo.Density.String()

	densityNames := make([]string, 0, len(universe.Densities))
	for _, d := range universe.Densities {
		densityNames = append(densityNames, d.String())
	}

	flaggy.SetName("lifegrid")
	flaggy.SetDescription("\"The Life\" game simulation with the dead cells trace")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.config, "c", "config", "JSON file with the universe options, the flags override it")
	flaggy.Int(&uo.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&uo.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Bool(&uo.Bounded, "b", "bounded", "Bounded field, the cells outside the edges are not counted")
	flaggy.Bool(&uo.DisplayDead, "", "showDead", "Display the dead cells distinct from the empty ones")
	flaggy.UInt64(&uo.Seed, "", "seed", "Seed for the random data, 0 seeds from the clock")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.density, "d", "density", "Density of the random data ["+strings.Join(densityNames, "|")+"]")
	flaggy.String(&eo.pattern, "p", "pattern", "Pattern to settle in the middle of the field")
	flaggy.String(&eo.patterns, "", "patterns", "JSON file with the additional patterns")
	flaggy.Bool(&eo.print, "", "print", "Print the field when the simulation is finished")
	flaggy.Bool(&eo.noColors, "", "noColors", "Disable the colored output")

	flaggy.Parse()

	d, ok := universe.ParseDensity(eo.density)
	if !ok {
		flaggy.ShowHelpAndExit("unknown density")
	}
	uo.Density = d

	if uo.Width <= 0 || uo.Height <= 0 {
		flaggy.ShowHelpAndExit("width and height must be positive")
	}

	return
}
