package schematic

// Document version written into the container header.
const Version = 1

type Header struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

// Metadata carries the descriptive fields of a schematic document.
// Timestamps are unix milliseconds so documents round-trip without
// timezone ambiguity.
type Metadata struct {
	Name           string `json:"name"`
	Author         string `json:"author,omitempty"`
	Description    string `json:"description,omitempty"`
	CreatedMillis  int64  `json:"created_ms"`
	ModifiedMillis int64  `json:"modified_ms"`
	TotalBlocks    int    `json:"total_blocks"`
}

// Schematic is an in-memory volume container: named regions plus
// document metadata. It is the unit both read from and written to disk.
type Schematic struct {
	Header  Header    `json:"header"`
	Meta    Metadata  `json:"meta"`
	Regions []*Region `json:"regions"`
}

func New(name string) *Schematic {
	return &Schematic{
		Header: Header{Version: Version, Name: name},
		Meta:   Metadata{Name: name},
	}
}

// Region returns the named region, or nil.
func (s *Schematic) Region(name string) *Region {
	for _, r := range s.Regions {
		if r.Name == name {
			return r
		}
	}
	return nil
}
