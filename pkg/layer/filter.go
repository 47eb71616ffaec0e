// Package layer decides which named collision layers interact.
package layer

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownLayer is returned when a layer name was never declared
var ErrUnknownLayer = errors.New("unknown layer")

// Definition declares a layer and the layers it collides with. Interaction
// is symmetric: listing B under A is the same as listing A under B.
type Definition struct {
	Name         string   `json:"name" yaml:"name"`
	CollidesWith []string `json:"collidesWith" yaml:"collidesWith"`
}

// Filter is a symmetric interaction matrix between layers. Indexes are
// assigned per Filter when it is built.
type Filter struct {
	index  map[string]int
	names  []string
	matrix [][]bool
}

// NewFilter builds a filter. References to undeclared layers are ignored.
func NewFilter(defs []Definition) *Filter {
	f, _ := build(defs)
	return f
}

// Build is like NewFilter but fails on references to undeclared layers
func Build(defs []Definition) (*Filter, error) {
	f, unknown := build(defs)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownLayer, unknown)
	}
	return f, nil
}

func build(defs []Definition) (*Filter, []string) {
	f := &Filter{index: make(map[string]int)}
	for _, def := range defs {
		if _, ok := f.index[def.Name]; ok {
			continue
		}
		f.index[def.Name] = len(f.names)
		f.names = append(f.names, def.Name)
	}

	f.matrix = make([][]bool, len(f.names))
	for i := range f.matrix {
		f.matrix[i] = make([]bool, len(f.names))
	}

	var unknown []string
	for _, def := range defs {
		a := f.index[def.Name]
		for _, other := range def.CollidesWith {
			b, ok := f.index[other]
			if !ok {
				unknown = append(unknown, other)
				continue
			}
			f.matrix[a][b] = true
			f.matrix[b][a] = true
		}
	}
	return f, unknown
}

// Interact reports whether objects on layers a and b can collide. Unknown
// layers never interact.
func (f *Filter) Interact(a, b string) bool {
	i, ok := f.index[a]
	if !ok {
		return false
	}
	j, ok := f.index[b]
	if !ok {
		return false
	}
	return f.matrix[i][j]
}

// Index returns the matrix index assigned to name
func (f *Filter) Index(name string) (int, error) {
	i, ok := f.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return i, nil
}

// Layers returns the declared layer names in declaration order
func (f *Filter) Layers() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Definitions converts the filter back into a sorted, de-duplicated list
func (f *Filter) Definitions() []Definition {
	defs := make([]Definition, 0, len(f.names))
	for i, name := range f.names {
		def := Definition{Name: name}
		for j := i; j < len(f.names); j++ {
			if f.matrix[i][j] {
				def.CollidesWith = append(def.CollidesWith, f.names[j])
			}
		}
		sort.Strings(def.CollidesWith)
		defs = append(defs, def)
	}
	return defs
}

type document struct {
	Layers []Definition `yaml:"layers"`
}

// Parse reads layer definitions from YAML of the form
//
//	layers:
//	  - name: player
//	    collidesWith: [enemy, wall]
func Parse(data []byte) ([]Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layer definitions: %w", err)
	}
	return doc.Layers, nil
}

// LoadFile reads layer definitions from a YAML file
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer file: %w", err)
	}
	return Parse(data)
}
