package focus

import (
	"fmt"
	"sort"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

// Options bounds the focus set. Zero values are invalid; start from
// DefaultOptions.
type Options struct {
	// MaxConnected caps how many same-net peers are included.
	MaxConnected int

	// MaxNearby caps how many spatial neighbors are included.
	MaxNearby int

	// MinScore filters spatial neighbors below this proximity score.
	MinScore float64
}

// DefaultOptions returns the slicer defaults.
func DefaultOptions() *Options {
	return &Options{
		MaxConnected: 20,
		MaxNearby:    10,
		MinScore:     0.2,
	}
}

// Validate checks the options for usable values.
func (o *Options) Validate() error {
	if o.MaxConnected < 0 || o.MaxNearby < 0 {
		return fmt.Errorf("focus: caps must be non-negative, got connected=%d nearby=%d", o.MaxConnected, o.MaxNearby)
	}
	if o.MinScore < 0 {
		return fmt.Errorf("focus: minimum score must be non-negative, got %v", o.MinScore)
	}
	return nil
}

// Slice reduces a model to the neighborhood of the selected references.
// Unknown references are dropped. Connected components are same-net peers
// of the selection; power-derived nets are excluded from that expansion
// (a ground net would pull in the whole sheet) but still appear, trimmed,
// in the output nets. Nearby components rank by their best proximity score
// against the selection. Output ordering is deterministic for a given
// snapshot.
func Slice(model *Model, selectedRefs []string, opts *Options) (*FocusedModel, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	byRef := make(map[string]schematic.ComponentRef, len(model.Components))
	for _, c := range model.Components {
		byRef[c.Reference] = c
	}

	fm := &FocusedModel{}
	included := make(map[string]bool)
	selected := make(map[string]bool)
	for _, ref := range selectedRefs {
		c, ok := byRef[ref]
		if !ok || included[ref] {
			continue
		}
		included[ref] = true
		selected[ref] = true
		fm.Selected = append(fm.Selected, toComponent(c))
	}

	// Same-net peers, in net order then pin order.
	for _, net := range model.Nets {
		if net.PowerDerived {
			continue
		}
		touchesSelection := false
		for _, p := range net.Pins {
			if selected[p.Reference] {
				touchesSelection = true
				break
			}
		}
		if !touchesSelection {
			continue
		}
		for _, p := range net.Pins {
			if len(fm.Connected) >= opts.MaxConnected {
				break
			}
			if included[p.Reference] {
				continue
			}
			c, ok := byRef[p.Reference]
			if !ok {
				continue
			}
			included[p.Reference] = true
			fm.Connected = append(fm.Connected, toComponent(c))
		}
	}

	// Spatial neighbors, ranked by best score against any selected ref.
	best := make(map[string]float64)
	for _, e := range model.Edges {
		var other string
		switch {
		case selected[e.RefA] && !included[e.RefB]:
			other = e.RefB
		case selected[e.RefB] && !included[e.RefA]:
			other = e.RefA
		default:
			continue
		}
		if e.Score > best[other] {
			best[other] = e.Score
		}
	}
	nearby := make([]string, 0, len(best))
	for ref, score := range best {
		if score >= opts.MinScore {
			nearby = append(nearby, ref)
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		if best[nearby[i]] != best[nearby[j]] {
			return best[nearby[i]] > best[nearby[j]]
		}
		return nearby[i] < nearby[j]
	})
	if len(nearby) > opts.MaxNearby {
		nearby = nearby[:opts.MaxNearby]
	}
	for _, ref := range nearby {
		c, ok := byRef[ref]
		if !ok {
			continue
		}
		included[ref] = true
		fm.Nearby = append(fm.Nearby, toComponent(c))
	}

	// Nets trimmed to the focused set.
	for _, net := range model.Nets {
		var kept FocusNet
		for _, p := range net.Pins {
			if included[p.Reference] {
				kept.Pins = append(kept.Pins, p)
			}
		}
		if len(kept.Pins) == 0 {
			continue
		}
		kept.Name = net.Name
		kept.PowerDerived = net.PowerDerived
		fm.Nets = append(fm.Nets, kept)
	}

	// Edges with a selected endpoint, both endpoints focused.
	for _, e := range model.Edges {
		if !selected[e.RefA] && !selected[e.RefB] {
			continue
		}
		if included[e.RefA] && included[e.RefB] {
			fm.Edges = append(fm.Edges, e)
		}
	}

	return fm, nil
}
