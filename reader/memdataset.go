package reader

// MemDataset is an in-memory reference implementation of Dataset, used by
// the test suite and cmd/reprojctl. It is not a file-format reader — any
// real ingestion path (NetCDF, GRIB, FELT, ...) is an external
// collaborator per spec.md §1.
type MemDataset struct {
	schema *Schema
	data   map[string][]float64
}

// NewMemDataset builds a MemDataset from a schema and a set of backing
// arrays keyed by variable name. Arrays are stored as given (fill-value
// form); callers bridge to NaN at the boundary.
func NewMemDataset(schema *Schema, data map[string][]float64) *MemDataset {
	return &MemDataset{schema: schema, data: data}
}

func (m *MemDataset) Variables() []Variable     { return m.schema.Variables() }
func (m *MemDataset) Dimensions() []Dimension   { return m.schema.Dimensions() }
func (m *MemDataset) Variable(name string) (Variable, bool) { return m.schema.Variable(name) }

func (m *MemDataset) GetData(name string) ([]float64, error) {
	d, ok := m.data[name]
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	return d, nil
}

// GetDataSlice returns the unlimitedDimPos'th horizontal plane of a
// variable whose outer dimension is not x/y (e.g. a vertical level or
// time index). Variables with only x/y dimensions ignore unlimitedDimPos.
func (m *MemDataset) GetDataSlice(name string, unlimitedDimPos int) ([]float64, error) {
	v, ok := m.schema.Variable(name)
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	full, ok := m.data[name]
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	if len(v.Shape) <= 2 {
		return full, nil
	}
	planeLen := 1
	for _, dimName := range v.Shape[len(v.Shape)-2:] {
		if d, ok := m.schema.dimLength(dimName); ok {
			planeLen *= d
		}
	}
	start := unlimitedDimPos * planeLen
	end := start + planeLen
	if start < 0 || end > len(full) {
		return nil, &ErrNotFound{Name: name}
	}
	return full[start:end], nil
}

// Schema exposes the dataset's mutable schema, e.g. for the metadata
// rewriter to operate on directly in tests.
func (m *MemDataset) Schema() *Schema { return m.schema }

// SetData replaces or inserts the backing array for a variable.
func (m *MemDataset) SetData(name string, values []float64) {
	if m.data == nil {
		m.data = make(map[string][]float64)
	}
	m.data[name] = values
}
