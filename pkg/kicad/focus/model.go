// Package focus slices a full schematic-derived model down to a bounded
// neighborhood around a set of selected components: the selection itself,
// its same-net peers, its spatially close neighbors, and the nets and
// proximity edges relevant to that combined set. The result is small enough
// to serve as context for a reviewer or a language model instead of the
// whole design.
package focus

import (
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/connect"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/proximity"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

// Component is the slim component view carried in a focus payload.
type Component struct {
	Reference string            `json:"reference"`
	Value     string            `json:"value,omitempty"`
	LibID     string            `json:"lib_id"`
	Position  schematic.Position `json:"position"`
}

// Model is the full derived model for one sheet, the input to Slice.
type Model struct {
	Components []schematic.ComponentRef
	Nets       []*connect.Net
	Edges      []proximity.Edge
}

// BuildModel derives the slicing input for one sheet: its component
// summaries, the current connectivity snapshot, and the proximity edges.
func BuildModel(sch *schematic.Schematic, analyzer *connect.Analyzer, cfg *proximity.Config) (*Model, error) {
	comps := sch.Components()
	edges, err := proximity.Score(comps, cfg)
	if err != nil {
		return nil, err
	}
	return &Model{
		Components: comps,
		Nets:       analyzer.Resolve().Nets,
		Edges:      edges,
	}, nil
}

// FocusNet is a net trimmed to the pins of the focused component set.
type FocusNet struct {
	Name         string           `json:"name"`
	PowerDerived bool             `json:"power_derived,omitempty"`
	Pins         []connect.NetPin `json:"pins"`
}

// FocusedModel is the bounded output of Slice: components grouped by why
// they were included, plus the trimmed nets and edges. Marshals directly to
// a context payload.
type FocusedModel struct {
	Selected  []Component      `json:"selected"`
	Connected []Component      `json:"connected"`
	Nearby    []Component      `json:"nearby"`
	Nets      []FocusNet       `json:"nets"`
	Edges     []proximity.Edge `json:"edges"`
}

// Refs returns every focused reference in selection order: selected, then
// connected, then nearby.
func (fm *FocusedModel) Refs() []string {
	refs := make([]string, 0, len(fm.Selected)+len(fm.Connected)+len(fm.Nearby))
	for _, c := range fm.Selected {
		refs = append(refs, c.Reference)
	}
	for _, c := range fm.Connected {
		refs = append(refs, c.Reference)
	}
	for _, c := range fm.Nearby {
		refs = append(refs, c.Reference)
	}
	return refs
}

func toComponent(c schematic.ComponentRef) Component {
	return Component{
		Reference: c.Reference,
		Value:     c.Value,
		LibID:     c.LibID,
		Position:  c.Position,
	}
}
