package materials

import (
	"sort"

	"schemsplit/internal/schematic"
)

// Entry is an aggregated requirement: total count of one item across a
// chunk. Item ids are unique within one list.
type Entry struct {
	Item        string
	DisplayName string
	Total       int
}

// Aggregate resolves every present cell of the schematic through the
// resolver and sums the contributions per item id. The result is sorted
// by display name (bytewise, for determinism), ties broken by item id.
// An empty list is valid and means no report should be produced.
func Aggregate(s *schematic.Schematic, r Resolver) []Entry {
	totals := map[string]*Entry{}
	for _, reg := range s.Regions {
		sx, sy, sz := reg.Extent()
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				for x := 0; x < sx; x++ {
					state := reg.StateAt(x, y, z)
					if state == "" {
						continue
					}
					for _, req := range r.Resolve(state) {
						e, ok := totals[req.Item]
						if !ok {
							e = &Entry{Item: req.Item, DisplayName: req.DisplayName}
							totals[req.Item] = e
						}
						e.Total += req.Count
					}
				}
			}
		}
	}

	out := make([]Entry, 0, len(totals))
	for _, e := range totals {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Item < out[j].Item
	})
	return out
}
