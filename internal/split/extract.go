package split

import (
	"fmt"
	"log"
	"time"

	"schemsplit/internal/schematic"
)

// Extractor materializes planned chunks as independent one-region
// schematics. The source is read-only; every copied record is cloned by
// value so chunk and source never share payloads.
type Extractor struct {
	Log *log.Logger
	Now func() time.Time
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Extract copies the planned chunk out of the region. A plan with no
// extent on some axis yields nil (empty chunk, not an error); so does
// any internal fault, which is logged and recovered so one bad chunk
// never aborts the region sweep.
func (e *Extractor) Extract(src *schematic.Schematic, region *schematic.Region, plan ChunkPlan) (chunk *schematic.Schematic) {
	defer func() {
		if r := recover(); r != nil {
			if e.Log != nil {
				e.Log.Printf("%s: error extracting chunk [%d,%d,%d] of region %q: %v",
					CodeExtractionFault, plan.Index[0], plan.Index[1], plan.Index[2], region.Name, r)
			}
			chunk = nil
		}
	}()

	sx, sy, sz := plan.Extent()
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return nil
	}

	// The chunk region keeps the source region's orientation: its size
	// is signed to match, its anchor is the shared-frame offset. All
	// chunks of a split share one reference point, which is what lets
	// them reassemble when placed together.
	size := [3]int{
		copySign(sx, region.Size[0]),
		copySign(sy, region.Size[1]),
		copySign(sz, region.Size[2]),
	}
	out := schematic.NewRegion(region.Name, plan.Offset, size)

	blocks := 0
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				state := region.StateAt(plan.Start[0]+x, plan.Start[1]+y, plan.Start[2]+z)
				if state == "" {
					continue
				}
				out.SetState(x, y, z, state)
				blocks++
			}
		}
	}

	for _, be := range region.BlockEntities {
		if !inBoundsInt(be.Pos, plan.Start, plan.End) {
			continue
		}
		local := [3]int{
			be.Pos[0] - plan.Start[0],
			be.Pos[1] - plan.Start[1],
			be.Pos[2] - plan.Start[2],
		}
		data := schematic.CloneData(be.Data)
		if data != nil {
			data["x"] = local[0]
			data["y"] = local[1]
			data["z"] = local[2]
		}
		out.BlockEntities = append(out.BlockEntities, schematic.BlockEntity{Pos: local, Data: data})
	}

	for _, ent := range region.Entities {
		if !inBoundsFloat(ent.Pos, plan.Start, plan.End) {
			continue
		}
		out.Entities = append(out.Entities, schematic.Entity{
			ID: ent.ID,
			Pos: [3]float64{
				ent.Pos[0] - float64(plan.Start[0]),
				ent.Pos[1] - float64(plan.Start[1]),
				ent.Pos[2] - float64(plan.Start[2]),
			},
			Data: schematic.CloneData(ent.Data),
		})
	}

	// A chunk produces no artifact only when it holds nothing at all.
	// Free-position records keep a chunk alive even with zero present
	// cells, otherwise they would vanish from every chunk of the split.
	if blocks == 0 && len(out.BlockEntities) == 0 && len(out.Entities) == 0 {
		return nil
	}

	nowMillis := e.now().UnixMilli()
	name := src.Meta.Name + "_chunk"
	chunk = schematic.New(name)
	chunk.Meta = schematic.Metadata{
		Name:   name,
		Author: src.Meta.Author,
		Description: fmt.Sprintf("Chunk [%d,%d,%d] of %s",
			plan.Index[0], plan.Index[1], plan.Index[2], src.Meta.Name),
		CreatedMillis:  nowMillis,
		ModifiedMillis: nowMillis,
		TotalBlocks:    blocks,
	}
	chunk.Regions = []*schematic.Region{out}
	return chunk
}

func copySign(extent, sizeAxis int) int {
	if sizeAxis < 0 {
		return -extent
	}
	return extent
}

// Half-open on all axes: low inclusive, high exclusive, same test for
// cells, block entities and continuous entity positions.
func inBoundsInt(pos, start, end [3]int) bool {
	for a := 0; a < 3; a++ {
		if pos[a] < start[a] || pos[a] >= end[a] {
			return false
		}
	}
	return true
}

func inBoundsFloat(pos [3]float64, start, end [3]int) bool {
	for a := 0; a < 3; a++ {
		if pos[a] < float64(start[a]) || pos[a] >= float64(end[a]) {
			return false
		}
	}
	return true
}
