// Package schemtest holds shared fixtures for splitter tests: small
// deterministic schematics and a canned material resolver, so tests can
// live outside the packages they exercise.
package schemtest

import (
	"fmt"

	"schemsplit/internal/materials"
	"schemsplit/internal/schematic"
)

// PatternState derives a deterministic block state from a local
// coordinate. A handful of cells stay absent so presence handling is
// exercised too.
func PatternState(x, y, z int) string {
	if (x+y+z)%7 == 0 {
		return ""
	}
	return fmt.Sprintf("BLOCK_%d", (x+2*y+3*z)%5)
}

// Patterned builds a one-region schematic of the given signed size with
// every cell set from PatternState.
func Patterned(name string, size [3]int) *schematic.Schematic {
	s := schematic.New(name)
	r := schematic.NewRegion("main", [3]int{0, 0, 0}, size)
	sx, sy, sz := r.Extent()
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				if st := PatternState(x, y, z); st != "" {
					r.SetState(x, y, z, st)
				}
			}
		}
	}
	s.Regions = []*schematic.Region{r}
	s.Meta.TotalBlocks = r.BlockCount()
	return s
}

// Filled builds a one-region schematic with every cell set to one state.
func Filled(name string, size [3]int, state string) *schematic.Schematic {
	s := schematic.New(name)
	r := schematic.NewRegion("main", [3]int{0, 0, 0}, size)
	sx, sy, sz := r.Extent()
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				r.SetState(x, y, z, state)
			}
		}
	}
	s.Regions = []*schematic.Region{r}
	s.Meta.TotalBlocks = r.BlockCount()
	return s
}

// StaticResolver resolves block states from a fixed table. States
// without an entry resolve to one item of their own id.
type StaticResolver map[string][]materials.Requirement

func (r StaticResolver) Resolve(blockState string) []materials.Requirement {
	if blockState == "" {
		return nil
	}
	if reqs, ok := r[blockState]; ok {
		return reqs
	}
	return []materials.Requirement{{Item: blockState, DisplayName: blockState, Count: 1}}
}
