package schematic

import (
	"crypto/sha256"
	"encoding/binary"
)

// Region is a named sub-volume. Pos is its anchor in the shared
// coordinate space; Size components may be negative, meaning the region
// extends in the negative direction from the anchor. Block storage is
// always addressed by non-negative local coordinates bounded by the
// absolute size, regardless of sign.
//
// Blocks is a dense palette-indexed array, x fastest, then z, then y.
// Palette index 0 is reserved for the absent state.
type Region struct {
	Name string `json:"name"`
	Pos  [3]int `json:"pos"`
	Size [3]int `json:"size"`

	Palette []string `json:"palette"`
	Blocks  []uint16 `json:"blocks"`

	BlockEntities []BlockEntity `json:"block_entities,omitempty"`
	Entities      []Entity      `json:"entities,omitempty"`

	dirty bool
	hash  [32]byte
}

// BlockEntity is structured data attached to one cell, e.g. a container
// with an inventory. Pos is local to the owning region; the payload
// mirrors it under the "x"/"y"/"z" keys.
type BlockEntity struct {
	Pos  [3]int         `json:"pos"`
	Data map[string]any `json:"data,omitempty"`
}

// Entity is a free-position record: a continuous position plus an
// arbitrary payload, not bound to a single cell.
type Entity struct {
	ID   string         `json:"id,omitempty"`
	Pos  [3]float64     `json:"pos"`
	Data map[string]any `json:"data,omitempty"`
}

func NewRegion(name string, pos, size [3]int) *Region {
	sx, sy, sz := AbsInt(size[0]), AbsInt(size[1]), AbsInt(size[2])
	return &Region{
		Name:    name,
		Pos:     pos,
		Size:    size,
		Palette: []string{""},
		Blocks:  make([]uint16, sx*sy*sz),
	}
}

// Extent returns the absolute size per axis.
func (r *Region) Extent() (sx, sy, sz int) {
	return AbsInt(r.Size[0]), AbsInt(r.Size[1]), AbsInt(r.Size[2])
}

func (r *Region) index(x, y, z int) int {
	sx, _, sz := r.Extent()
	return x + z*sx + y*sx*sz
}

// StateAt returns the block state at a local coordinate, or "" when the
// cell is absent.
func (r *Region) StateAt(x, y, z int) string {
	return r.Palette[r.Blocks[r.index(x, y, z)]]
}

// SetState writes a block state at a local coordinate, interning it in
// the palette. Setting "" clears the cell.
func (r *Region) SetState(x, y, z int, state string) {
	i := r.index(x, y, z)
	b := r.paletteID(state)
	if r.Blocks[i] == b {
		return
	}
	r.Blocks[i] = b
	r.dirty = true
}

func (r *Region) paletteID(state string) uint16 {
	for i, s := range r.Palette {
		if s == state {
			return uint16(i)
		}
	}
	r.Palette = append(r.Palette, state)
	return uint16(len(r.Palette) - 1)
}

// BlockCount counts non-absent cells.
func (r *Region) BlockCount() int {
	n := 0
	for _, b := range r.Blocks {
		if b != 0 {
			n++
		}
	}
	return n
}

// BlockDigest hashes palette and block contents deterministically.
func (r *Region) BlockDigest() [32]byte {
	if r.dirty || r.hash == ([32]byte{}) {
		h := sha256.New()
		for _, s := range r.Palette {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		var tmp [2]byte
		for _, b := range r.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], b)
			h.Write(tmp[:])
		}
		copy(r.hash[:], h.Sum(nil))
		r.dirty = false
	}
	return r.hash
}

func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CloneData deep-copies a JSON-shaped payload (maps, slices, scalars).
func CloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
