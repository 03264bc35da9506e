package mandel

import (
	"fmt"
	"sort"
	"strings"
)

// Region of the complex plane
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Center returns the midpoint of the region.
func (r Region) Center() complex128 {
	return complex((r.Xmin+r.Xmax)/2, (r.Ymin+r.Ymax)/2)
}

// View returns a bounds+pan view showing exactly r at zoom 1.
func (r Region) View() View {
	return View{Mapping: BoundsPan, Bounds: r, Zoom: 1}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Whole set, with the aspect ratio of an 800x600 window
	FullSet = Region{
		Xmin: -2.0,
		Xmax: 1.0,
		Ymin: -1.125,
		Ymax: 1.125,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var regionsByName = map[string]Region{
	"full":       FullSet,
	"seahorse":   SeahorseValley,
	"elephant":   ElephantValley,
	"minibrot":   SpiralMinibrot,
	"triple":     TripleSpiral,
	"dragon":     ValleyOfTheDragon,
	"minispiral": MinibrotInMiniSpiral,
}

// RegionNames lists the names accepted by LookupRegion, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(regionsByName))
	for n := range regionsByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupRegion finds a landmark region by its short name.
func LookupRegion(name string) (Region, error) {
	r, ok := regionsByName[strings.ToLower(name)]
	if !ok {
		return Region{}, fmt.Errorf("unknown region %q (known: %s)", name, strings.Join(RegionNames(), ", "))
	}
	return r, nil
}
