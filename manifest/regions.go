package manifest

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// RegionTable is the TOML document written by WriteRegions. Games load it
// to look up UVs by name without the source images.
type RegionTable struct {
	Canvas  int      `toml:"canvas"`
	Format  string   `toml:"format"`
	Regions []Region `toml:"region"`
}

// Region is one packed image.
type Region struct {
	Name  string  `toml:"name"`
	Index int     `toml:"index"`
	X     int     `toml:"x"`
	Y     int     `toml:"y"`
	W     int     `toml:"w"`
	H     int     `toml:"h"`
	U0    float32 `toml:"u0"`
	V0    float32 `toml:"v0"`
	U1    float32 `toml:"u1"`
	V1    float32 `toml:"v1"`
}

// Regions collects the placement and UVs of every image in b.
func (b *Built) Regions() RegionTable {
	cfg := b.Atlas.Config()
	t := RegionTable{Canvas: cfg.CanvasSize, Format: cfg.Format.String()}
	for i, name := range b.Names {
		p, ok := b.Atlas.Placement(i)
		if !ok {
			continue
		}
		r := b.Atlas.Get(i)
		t.Regions = append(t.Regions, Region{
			Name: name, Index: i,
			X: p.X, Y: p.Y, W: p.W, H: p.H,
			U0: r.U0, V0: r.V0, U1: r.U1, V1: r.V1,
		})
		r.Release()
	}
	return t
}

// WriteRegions writes the region table of b as TOML.
func WriteRegions(w io.Writer, b *Built) error {
	t := b.Regions()
	if err := toml.NewEncoder(w).Encode(&t); err != nil {
		return fmt.Errorf("manifest: write regions: %w", err)
	}
	return nil
}

// DecodeRegions reads a table written by WriteRegions.
func DecodeRegions(r io.Reader) (*RegionTable, error) {
	var t RegionTable
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("manifest: decode regions: %w", err)
	}
	return &t, nil
}
