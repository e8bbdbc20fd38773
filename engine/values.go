package engine

// StepValue is one vector's value at a single simulation data point,
// copied out of the engine's callback payload.
type StepValue struct {
	Name      string
	Real      float64
	Imag      float64
	IsScale   bool
	IsComplex bool
}

// StepValues is the full set of vector values for one accepted data
// point. Index counts accepted points from the start of the run.
type StepValues struct {
	Index  int
	Values []StepValue
}

// VectorMeta describes one vector announced at analysis start.
type VectorMeta struct {
	Number int
	Name   string
	IsReal bool
}

// PlotInfo describes the plot an analysis is about to produce, copied
// out of the engine's initialization callback payload.
type PlotInfo struct {
	Name    string
	Title   string
	Date    string
	Type    string
	Vectors []VectorMeta
}
