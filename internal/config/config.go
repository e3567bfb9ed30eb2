package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recommended bounds for the chunk edge length. The core planner only
// rejects non-positive edges; user-facing bounds are enforced here.
const (
	MinChunkEdge = 1
	MaxChunkEdge = 256
)

type Split struct {
	Enabled         bool   `yaml:"enabled"`
	ChunkEdge       int    `yaml:"chunk_edge"`
	GenerateReports bool   `yaml:"generate_reports"`
	IndexDB         string `yaml:"index_db"`
	CatalogDir      string `yaml:"catalog_dir"`
}

func Default() Split {
	return Split{
		Enabled:         true,
		ChunkEdge:       16,
		GenerateReports: true,
	}
}

func Load(path string) (Split, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("splitter config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Split) Validate() error {
	if c.ChunkEdge < MinChunkEdge || c.ChunkEdge > MaxChunkEdge {
		return fmt.Errorf("chunk_edge %d out of range [%d,%d]", c.ChunkEdge, MinChunkEdge, MaxChunkEdge)
	}
	return nil
}
