package materials

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Requirement is one (item, count) contribution of a resolved block
// state. A single placed block may require several distinct items.
type Requirement struct {
	Item        string
	DisplayName string
	Count       int
}

// Resolver converts a block state into its real-world item requirements.
// An empty result means the state costs nothing (e.g. fluids).
type Resolver interface {
	Resolve(blockState string) []Requirement
}

// Catalog is a Resolver backed by JSON definition files: blocks.json
// maps block states to item requirements, items.json supplies display
// names. A block without a definition falls back to one item of its own
// id when that item exists, and to nothing otherwise.
type Catalog struct {
	Blocks map[string]BlockDef
	Items  map[string]ItemDef

	BlocksDigest string
	ItemsDigest  string
}

type BlockDef struct {
	ID    string      `json:"id"`
	Items []ItemCount `json:"items"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type ItemDef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// LoadCatalog reads blocks.json and items.json from dir.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{}

	var blocks []BlockDef
	digest, err := loadDefs(filepath.Join(dir, "blocks.json"), &blocks)
	if err != nil {
		return nil, fmt.Errorf("blocks.json: %w", err)
	}
	c.Blocks = make(map[string]BlockDef, len(blocks))
	for _, b := range blocks {
		if _, dup := c.Blocks[b.ID]; dup {
			return nil, fmt.Errorf("blocks.json: duplicate id %q", b.ID)
		}
		c.Blocks[b.ID] = b
	}
	c.BlocksDigest = digest

	var items []ItemDef
	digest, err = loadDefs(filepath.Join(dir, "items.json"), &items)
	if err != nil {
		return nil, fmt.Errorf("items.json: %w", err)
	}
	c.Items = make(map[string]ItemDef, len(items))
	for _, it := range items {
		if _, dup := c.Items[it.ID]; dup {
			return nil, fmt.Errorf("items.json: duplicate id %q", it.ID)
		}
		c.Items[it.ID] = it
	}
	c.ItemsDigest = digest

	return c, nil
}

func loadDefs(path string, v any) (digest string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (c *Catalog) Resolve(blockState string) []Requirement {
	if blockState == "" {
		return nil
	}
	if def, ok := c.Blocks[blockState]; ok {
		reqs := make([]Requirement, 0, len(def.Items))
		for _, ic := range def.Items {
			if ic.Count <= 0 {
				continue
			}
			reqs = append(reqs, Requirement{
				Item:        ic.Item,
				DisplayName: c.displayName(ic.Item),
				Count:       ic.Count,
			})
		}
		return reqs
	}
	if _, ok := c.Items[blockState]; ok {
		return []Requirement{{Item: blockState, DisplayName: c.displayName(blockState), Count: 1}}
	}
	return nil
}

func (c *Catalog) displayName(item string) string {
	if def, ok := c.Items[item]; ok && def.DisplayName != "" {
		return def.DisplayName
	}
	return item
}
