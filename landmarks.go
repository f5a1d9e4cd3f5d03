package fractal

// Region is a rectangle of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Center returns the middle of the region.
func (r Region) Center() Point {
	return Point{X: (r.Xmin + r.Xmax) / 2, Y: (r.Ymin + r.Ymax) / 2}
}

// ScaleFor returns the largest scale at which the whole region fits into a
// w×h pixel viewport.
func (r Region) ScaleFor(w, h int) float64 {
	sx := float64(w) / (r.Xmax - r.Xmin)
	sy := float64(h) / (r.Ymax - r.Ymin)
	return min(sx, sy)
}

// Home is the region holding the whole Mandelbrot set.
var Home = Region{Xmin: -2, Xmax: 1, Ymin: -1, Ymax: 1}

// Landmark is a named region worth visiting.
type Landmark struct {
	Name   string
	Region Region
}

// Frame points v at the landmark for a w×h viewport. Only the framing
// changes; the family, iteration depth and colors are kept.
func (l Landmark) Frame(v *ViewState, w, h int) {
	v.Center = l.Region.Center()
	v.Scale = l.Region.ScaleFor(w, h)
}

// Classic regions / landmarks in the Mandelbrot set
var Landmarks = []Landmark{
	// dense filaments and repeating "seahorse" curls
	{Name: "seahorse-valley", Region: Region{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}},
	// large bulb with trunk-like tendrils
	{Name: "elephant-valley", Region: Region{Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02}},
	// small Mandelbrot copy with tight spiral arms
	{Name: "spiral-minibrot", Region: Region{Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325}},
	// threefold symmetric spiral structure
	{Name: "triple-spiral", Region: Region{Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980}},
	// deep, highly detailed spiral filaments
	{Name: "dragon-valley", Region: Region{Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850}},
	// self-similar Mandelbrot copy inside a spiral arm
	{Name: "minibrot-in-spiral", Region: Region{Xmin: -1.7390, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.0220}},
}

// LandmarkByName looks a landmark up by name.
func LandmarkByName(name string) (Landmark, bool) {
	for _, l := range Landmarks {
		if l.Name == name {
			return l, true
		}
	}
	return Landmark{}, false
}
