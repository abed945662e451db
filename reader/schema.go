package reader

import "golang.org/x/exp/maps"

// Schema is a mutable CDM-style metadata set: the MetadataRewriter
// (spec.md §4.5) operates on a Schema to install a new coordinate system,
// then a Dataset implementation is rebuilt (or, for MemDataset, mutated in
// place) from the result. Keeping this separate from Dataset lets the
// rewriter manipulate variables/dimensions without needing to know how to
// fetch data.
type Schema struct {
	vars map[string]Variable
	dims map[string]Dimension
	// order preserves variable insertion order for deterministic output.
	order []string
}

// NewSchema builds a Schema from an existing dataset's variables and
// dimensions.
func NewSchema(variables []Variable, dimensions []Dimension) *Schema {
	s := &Schema{
		vars: make(map[string]Variable, len(variables)),
		dims: make(map[string]Dimension, len(dimensions)),
	}
	for _, d := range dimensions {
		s.dims[d.Name] = d
	}
	for _, v := range variables {
		s.AddVariable(v)
	}
	return s
}

// Clone returns a deep-enough copy of s: further mutation of the clone
// does not affect s. Used to build-into-scratch-state before swapping on
// success (SPEC_FULL.md §7).
func (s *Schema) Clone() *Schema {
	c := &Schema{
		vars:  make(map[string]Variable, len(s.vars)),
		dims:  make(map[string]Dimension, len(s.dims)),
		order: append([]string(nil), s.order...),
	}
	for k, v := range s.vars {
		v.Shape = append([]string(nil), v.Shape...)
		v.Attributes = append([]Attribute(nil), v.Attributes...)
		c.vars[k] = v
	}
	for k, d := range s.dims {
		c.dims[k] = d
	}
	return c
}

// Variables returns the schema's variables in insertion order.
func (s *Schema) Variables() []Variable {
	out := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.vars[name])
	}
	return out
}

// Dimensions returns the schema's dimensions, in no particular order.
func (s *Schema) Dimensions() []Dimension {
	return maps.Values(s.dims)
}

// Variable looks up a variable by name.
func (s *Schema) Variable(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// dimLength returns a dimension's length by name.
func (s *Schema) dimLength(name string) (int, bool) {
	d, ok := s.dims[name]
	return d.Length, ok
}

// HasVariable reports whether name is present.
func (s *Schema) HasVariable(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// HasDimension reports whether name is present.
func (s *Schema) HasDimension(name string) bool {
	_, ok := s.dims[name]
	return ok
}

// AddVariable inserts or replaces a variable.
func (s *Schema) AddVariable(v Variable) {
	if _, exists := s.vars[v.Name]; !exists {
		s.order = append(s.order, v.Name)
	}
	s.vars[v.Name] = v
}

// RemoveVariable deletes a variable, if present.
func (s *Schema) RemoveVariable(name string) {
	if _, ok := s.vars[name]; !ok {
		return
	}
	delete(s.vars, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// AddDimension inserts or replaces a dimension.
func (s *Schema) AddDimension(d Dimension) {
	s.dims[d.Name] = d
}

// RemoveDimension deletes a dimension, if present and unreferenced by any
// remaining variable.
func (s *Schema) RemoveDimension(name string) {
	for _, v := range s.vars {
		for _, sh := range v.Shape {
			if sh == name {
				return
			}
		}
	}
	delete(s.dims, name)
}

// SetShape replaces a variable's shape (dimension name list) in place.
func (s *Schema) SetShape(varName string, shape []string) {
	v, ok := s.vars[varName]
	if !ok {
		return
	}
	v.Shape = append([]string(nil), shape...)
	s.vars[varName] = v
}

// AddOrReplaceAttribute sets an attribute on a variable, replacing any
// existing attribute of the same name.
func (s *Schema) AddOrReplaceAttribute(varName string, attr Attribute) {
	v, ok := s.vars[varName]
	if !ok {
		return
	}
	for i, a := range v.Attributes {
		if a.Name == attr.Name {
			v.Attributes[i] = attr
			s.vars[varName] = v
			return
		}
	}
	v.Attributes = append(v.Attributes, attr)
	s.vars[varName] = v
}

// RemoveAttribute deletes a named attribute from a variable, if present.
func (s *Schema) RemoveAttribute(varName, attrName string) {
	v, ok := s.vars[varName]
	if !ok {
		return
	}
	for i, a := range v.Attributes {
		if a.Name == attrName {
			v.Attributes = append(v.Attributes[:i], v.Attributes[i+1:]...)
			s.vars[varName] = v
			return
		}
	}
}
