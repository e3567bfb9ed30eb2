package split

import (
	"errors"

	"schemsplit/internal/schematic"
)

// ErrInvalidChunkEdge is returned when the configured chunk edge length
// is not a positive integer. The config layer bounds the value before it
// reaches here; the planner still refuses bad input.
var ErrInvalidChunkEdge = errors.New("chunk edge must be >= 1")

// GridDims is the number of chunks per axis for one region.
type GridDims struct {
	X, Y, Z int
}

func (g GridDims) Total() int { return g.X * g.Y * g.Z }

// ChunkPlan locates one chunk of a region: its index in the grid, its
// local bounds within the region's absolute extent, and its offset in
// the shared coordinate space. Computed fresh per chunk, never stored.
type ChunkPlan struct {
	Region string
	Index  [3]int
	Start  [3]int
	End    [3]int
	Offset [3]int
}

// Extent returns the chunk's size per axis. Any component <= 0 marks an
// empty plan.
func (p ChunkPlan) Extent() (sx, sy, sz int) {
	return p.End[0] - p.Start[0], p.End[1] - p.Start[1], p.End[2] - p.Start[2]
}

// PlanGrid computes how many chunks a region of the given signed size
// needs per axis: max(1, ceil(abs(size)/edge)).
func PlanGrid(sizeX, sizeY, sizeZ, edge int) (GridDims, error) {
	if edge < 1 {
		return GridDims{}, ErrInvalidChunkEdge
	}
	return GridDims{
		X: axisChunks(sizeX, edge),
		Y: axisChunks(sizeY, edge),
		Z: axisChunks(sizeZ, edge),
	}, nil
}

func axisChunks(size, edge int) int {
	n := (schematic.AbsInt(size) + edge - 1) / edge
	if n < 1 {
		n = 1
	}
	return n
}

// ChunkBounds returns the half-open local bounds [start,end) of chunk
// `index` on one axis. The end is clamped to the region's absolute
// extent, so the highest-index chunk may be partial.
func ChunkBounds(sizeAxis, index, edge int) (start, end int) {
	start = index * edge
	end = start + edge
	if abs := schematic.AbsInt(sizeAxis); end > abs {
		end = abs
	}
	return start, end
}

// ChunkOffset maps a chunk index to its position on one axis of the
// shared coordinate space. For a positively-sized axis chunks lay out
// from the shared origin in increasing order; for a negatively-sized
// axis the chunk's own extent is subtracted so its positive local extent
// still lands contiguously when the region grows toward negative
// coordinates. The offset is independent of the region's anchor.
func ChunkOffset(index, edge, extent, sizeAxis int) int {
	sign := 1
	if sizeAxis < 0 {
		sign = -1
	}
	off := sign * index * edge
	if sign < 0 {
		off -= extent
	}
	return off
}

// PlanChunk assembles the full plan for one chunk index of a region.
// ok is false when the chunk has no extent on some axis; PlanGrid never
// produces such indices, but callers guard anyway.
func PlanChunk(regionName string, size [3]int, ix, iy, iz, edge int) (ChunkPlan, bool) {
	p := ChunkPlan{Region: regionName, Index: [3]int{ix, iy, iz}}
	for axis, idx := range [3]int{ix, iy, iz} {
		p.Start[axis], p.End[axis] = ChunkBounds(size[axis], idx, edge)
	}
	sx, sy, sz := p.Extent()
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return p, false
	}
	p.Offset = [3]int{
		ChunkOffset(ix, edge, sx, size[0]),
		ChunkOffset(iy, edge, sy, size[1]),
		ChunkOffset(iz, edge, sz, size[2]),
	}
	return p, true
}
