// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-collide/pkg/layer"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// ErrInvalidConfig is wrapped by configuration errors
var ErrInvalidConfig = errors.New("invalid configuration")

// Index backends
const (
	IndexQuadTree = "quadtree"
	IndexGrid     = "grid"
)

// Bounds is the world rectangle covered by the spatial index
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect converts the bounds to a physics rectangle
func (b Bounds) Rect() physics.Rect {
	return physics.NewRect(b.X, b.Y, b.Width, b.Height)
}

// Config contains configuration for a collision world
type Config struct {
	WorldBounds            Bounds             `json:"worldBounds" yaml:"worldBounds"`
	MaxDepth               int                `json:"maxDepth" yaml:"maxDepth"`
	MaxItemsPerNode        int                `json:"maxItemsPerNode" yaml:"maxItemsPerNode"`
	ResolutionIterationCap int                `json:"resolutionIterationCap" yaml:"resolutionIterationCap"`
	ResolveCollisions      bool               `json:"resolveCollisions" yaml:"resolveCollisions"`
	Index                  string             `json:"index" yaml:"index"`
	GridCellSize           int                `json:"gridCellSize" yaml:"gridCellSize"`
	Layers                 []layer.Definition `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		WorldBounds: Bounds{
			X:      0,
			Y:      0,
			Width:  4096,
			Height: 4096,
		},
		MaxDepth:               8,
		MaxItemsPerNode:        8,
		ResolutionIterationCap: 16,
		ResolveCollisions:      true,
		Index:                  IndexQuadTree,
		GridCellSize:           32,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig loads a configuration from a file. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file, in YAML or JSON depending on
// the extension
func SaveConfig(config *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate clamps out-of-range values to safe minimums and returns a
// description of every adjustment. An unknown index backend is reset to
// the quadtree.
func (c *Config) Validate() []string {
	var adjusted []string

	if c.WorldBounds.Width < 1 {
		adjusted = append(adjusted, fmt.Sprintf("worldBounds.width %v raised to 1", c.WorldBounds.Width))
		c.WorldBounds.Width = 1
	}
	if c.WorldBounds.Height < 1 {
		adjusted = append(adjusted, fmt.Sprintf("worldBounds.height %v raised to 1", c.WorldBounds.Height))
		c.WorldBounds.Height = 1
	}
	if c.MaxDepth < 0 {
		adjusted = append(adjusted, fmt.Sprintf("maxDepth %d raised to 0", c.MaxDepth))
		c.MaxDepth = 0
	}
	if c.MaxItemsPerNode < 1 {
		adjusted = append(adjusted, fmt.Sprintf("maxItemsPerNode %d raised to 1", c.MaxItemsPerNode))
		c.MaxItemsPerNode = 1
	}
	if c.ResolutionIterationCap < 1 {
		adjusted = append(adjusted, fmt.Sprintf("resolutionIterationCap %d raised to 1", c.ResolutionIterationCap))
		c.ResolutionIterationCap = 1
	}
	if c.GridCellSize < 1 {
		adjusted = append(adjusted, fmt.Sprintf("gridCellSize %d raised to 1", c.GridCellSize))
		c.GridCellSize = 1
	}
	switch c.Index {
	case IndexQuadTree, IndexGrid:
	default:
		adjusted = append(adjusted, fmt.Sprintf("index %q replaced by %q", c.Index, IndexQuadTree))
		c.Index = IndexQuadTree
	}

	return adjusted
}

// LayerFilter builds the layer filter, or returns nil when no layers are
// configured (every object then interacts with every other).
func (c *Config) LayerFilter() *layer.Filter {
	if len(c.Layers) == 0 {
		return nil
	}
	return layer.NewFilter(c.Layers)
}
