// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvWorldWidth   = "COLLIDE_WORLD_WIDTH"
	EnvWorldHeight  = "COLLIDE_WORLD_HEIGHT"
	EnvMaxDepth     = "COLLIDE_MAX_DEPTH"
	EnvMaxItems     = "COLLIDE_MAX_ITEMS"
	EnvIterationCap = "COLLIDE_ITERATION_CAP"
	EnvResolve      = "COLLIDE_RESOLVE"
	EnvIndex        = "COLLIDE_INDEX"
	EnvLayerFile    = "COLLIDE_LAYER_FILE"
)

// ApplyEnvironmentOverrides overwrites fields of config with any COLLIDE_*
// variables that are set. A malformed value is reported as an error and
// leaves the config partially updated.
func ApplyEnvironmentOverrides(config *Config) error {
	if err := envFloat(EnvWorldWidth, &config.WorldBounds.Width); err != nil {
		return err
	}
	if err := envFloat(EnvWorldHeight, &config.WorldBounds.Height); err != nil {
		return err
	}
	if err := envInt(EnvMaxDepth, &config.MaxDepth); err != nil {
		return err
	}
	if err := envInt(EnvMaxItems, &config.MaxItemsPerNode); err != nil {
		return err
	}
	if err := envInt(EnvIterationCap, &config.ResolutionIterationCap); err != nil {
		return err
	}
	if err := envBool(EnvResolve, &config.ResolveCollisions); err != nil {
		return err
	}
	if value, ok := os.LookupEnv(EnvIndex); ok && value != "" {
		config.Index = strings.ToLower(value)
	}
	return nil
}

// LayerFileFromEnv returns the layer definition file named by
// COLLIDE_LAYER_FILE, if any
func LayerFileFromEnv() string {
	return os.Getenv(EnvLayerFile)
}

func envFloat(key string, dst *float64) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	*dst = parsed
	return nil
}

func envInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	*dst = parsed
	return nil
}

func envBool(key string, dst *bool) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
	}
	*dst = parsed
	return nil
}
