package runtime

import (
	"github.com/spicelab/spice-runtime/engine"
	"github.com/spicelab/spice-runtime/errors"
	"github.com/spicelab/spice-runtime/vector"
)

// CurrentPlot returns the name of the plot holding the most recent
// results, or "" when no analysis has run.
func (r *Runtime) CurrentPlot() (string, error) {
	if r.detached.Load() {
		return "", errors.Detached("current plot")
	}
	return r.eng.CurrentPlot()
}

// Plots returns the names of every plot the engine holds, in the
// engine's own listing order.
func (r *Runtime) Plots() ([]string, error) {
	if r.detached.Load() {
		return nil, errors.Detached("plot listing")
	}
	return r.eng.AllPlots()
}

// Vectors returns the vector names of one plot, each qualified as
// "plot.vector" so the names resolve from any plot context. An empty
// plot selects the current one.
func (r *Runtime) Vectors(plot string) ([]string, error) {
	if r.detached.Load() {
		return nil, errors.Detached("vector listing")
	}
	if plot == "" {
		cur, err := r.eng.CurrentPlot()
		if err != nil {
			return nil, err
		}
		plot = cur
	}
	names, err := r.eng.AllVecs(plot)
	if err != nil {
		return nil, err
	}
	qualified := make([]string, len(names))
	for i, name := range names {
		qualified[i] = engine.QualifyVector(plot, name)
	}
	return qualified, nil
}

// VectorInfo fetches one vector descriptor by plain or qualified name.
// The descriptor's real data aliases engine storage and is only valid
// until the next engine call; use Series or Table for an owned copy.
func (r *Runtime) VectorInfo(name string) (*engine.RawVector, error) {
	if r.detached.Load() {
		return nil, errors.Detached("vector query")
	}
	if !validText(name) {
		return nil, errors.InvalidEncoding(errors.PhaseQuery, "vector name", name)
	}
	return r.eng.VecInfo(name)
}

// Series fetches one vector and copies its real data into host-owned
// storage. Branch current names come back in measurement form, so
// "vdd#branch" reads as "i(vdd)".
func (r *Runtime) Series(name string) (vector.Series, error) {
	raw, err := r.VectorInfo(name)
	if err != nil {
		return vector.Series{}, err
	}
	data, err := raw.Range(0, -1)
	if err != nil {
		return vector.Series{}, err
	}
	return vector.Series{
		Name: engine.NormalizeVectorName(raw.Name),
		Data: data,
	}, nil
}

// Table copies every vector of one plot into an owned table. Columns
// carry the engine's unqualified names, normalized, in listing order.
// An empty plot selects the current one.
func (r *Runtime) Table(plot string) (*vector.Table, error) {
	names, err := r.Vectors(plot)
	if err != nil {
		return nil, err
	}
	table := vector.NewTable()
	for _, qualified := range names {
		raw, err := r.VectorInfo(qualified)
		if err != nil {
			return nil, err
		}
		data, err := raw.Range(0, -1)
		if err != nil {
			return nil, err
		}
		table.SetColumn(engine.NormalizeVectorName(raw.Name), data)
	}
	return table, nil
}
