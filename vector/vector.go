// Package vector provides host-owned containers for simulation
// results. A Series or Table holds copies of engine data and stays
// valid for as long as the caller keeps it, unlike the borrowed
// descriptors the engine package returns.
package vector

// Series is one named vector of real samples.
type Series struct {
	Name string
	Data []float64
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Data) }

// Table holds named columns in insertion order. Columns from one plot
// normally share a length, but the engine does not guarantee it; see
// Aligned.
type Table struct {
	names   []string
	columns map[string][]float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// SetColumn inserts a column, or replaces its data when the name is
// already present. Insertion order is preserved across replacement.
func (t *Table) SetColumn(name string, data []float64) {
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = data
}

// Column returns the data of one column.
func (t *Table) Column(name string) ([]float64, bool) {
	data, ok := t.columns[name]
	return data, ok
}

// Series returns one column as a Series.
func (t *Table) Series(name string) (Series, bool) {
	data, ok := t.columns[name]
	if !ok {
		return Series{}, false
	}
	return Series{Name: name, Data: data}, true
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Len returns the number of columns.
func (t *Table) Len() int { return len(t.names) }

// NumRows returns the length of the longest column.
func (t *Table) NumRows() int {
	rows := 0
	for _, data := range t.columns {
		if len(data) > rows {
			rows = len(data)
		}
	}
	return rows
}

// Aligned reports whether every column has the same length.
func (t *Table) Aligned() bool {
	if len(t.names) == 0 {
		return true
	}
	want := len(t.columns[t.names[0]])
	for _, name := range t.names[1:] {
		if len(t.columns[name]) != want {
			return false
		}
	}
	return true
}
