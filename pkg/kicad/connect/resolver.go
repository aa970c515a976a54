package connect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

// PinID identifies one pin of one placed component.
type PinID struct {
	Reference string
	Pin       string
}

// NetPin is one pin's membership in a net, with its absolute sheet position.
type NetPin struct {
	Reference string        `json:"reference"`
	Pin       string        `json:"pin"`
	Position  sexp.Position `json:"position"`
}

// NameSource records which naming rule produced a net's name.
type NameSource int

const (
	// NameAuto names are generated from the net's first pin.
	NameAuto NameSource = iota
	// NamePower names come from a power symbol's declared value.
	NamePower
	// NameLabel names come from an explicit label text.
	NameLabel
)

// Net is one electrical net: a name, the pins that share it, and whether the
// name was derived from a power symbol. Nets are rebuilt from scratch on
// every resolution pass and never mutated in place.
type Net struct {
	Name         string     `json:"name"`
	Source       NameSource `json:"-"`
	Pins         []NetPin   `json:"pins"`
	PowerDerived bool       `json:"power_derived,omitempty"`
}

// Result is the output of one resolution pass over a single sheet.
type Result struct {
	Nets        []*Net
	Diagnostics []Diagnostic

	pinNet map[PinID]int

	// Internals retained for cross-sheet aggregation: the union-find arena,
	// each net's root node, the node each global/hierarchical label text
	// attaches to (present even when its partition holds no pins, since a
	// pinless wire can still bridge two sheets), and the sheet-pin anchors
	// of every child sheet instance.
	nl           *netlist
	netRoot      []int32
	globalNode   map[string]int32
	hierNode     map[string]int32
	sheetAnchors []sheetAnchor
}

// sheetAnchor is one sheet-pin connection point on this sheet, referencing
// a child sheet by file name.
type sheetAnchor struct {
	file  string
	name  string
	shape string
	node  int32
}

// NetForPin returns the net containing the given pin, or nil if the pin is
// unknown, has no resolvable position, or sits alone with no wire, label, or
// power connection. Absent components are a normal editing state, not an
// error.
func (r *Result) NetForPin(ref, pin string) *Net {
	idx, ok := r.pinNet[PinID{Reference: ref, Pin: pin}]
	if !ok {
		return nil
	}
	net := r.Nets[idx]
	if len(net.Pins) < 2 && net.Source == NameAuto {
		return nil
	}
	return net
}

// ArePinsConnected reports whether both pins resolve into the same net.
func (r *Result) ArePinsConnected(ref1, pin1, ref2, pin2 string) bool {
	a, okA := r.pinNet[PinID{Reference: ref1, Pin: pin1}]
	b, okB := r.pinNet[PinID{Reference: ref2, Pin: pin2}]
	return okA && okB && a == b
}

// ConnectedPins returns every other pin sharing a net with the given pin.
// The query pin itself is excluded. An isolated or unknown pin yields an
// empty result.
func (r *Result) ConnectedPins(ref, pin string) []PinID {
	idx, ok := r.pinNet[PinID{Reference: ref, Pin: pin}]
	if !ok {
		return nil
	}
	var out []PinID
	for _, np := range r.Nets[idx].Pins {
		if np.Reference == ref && np.Pin == pin {
			continue
		}
		out = append(out, PinID{Reference: np.Reference, Pin: np.Pin})
	}
	return out
}

// pinEntry is a pin admitted to the graph during resolution.
type pinEntry struct {
	id   PinID
	pos  sexp.Position
	node int32
}

// Resolve builds the connectivity partition for one sheet. A pin whose
// symbol definition is missing or whose placement carries a non-canonical
// rotation is excluded and reported as a diagnostic; the pass never aborts
// on a single bad element.
func Resolve(sch *schematic.Schematic) *Result {
	nl := newNetlist()
	res := &Result{
		pinNet:     make(map[PinID]int),
		nl:         nl,
		globalNode: make(map[string]int32),
		hierNode:   make(map[string]int32),
	}

	// Wires: each polyline unions its consecutive points.
	for _, wire := range sch.Wires {
		var prev int32
		for i, pt := range wire.Points {
			node := nl.intern(quantize(pt))
			if i > 0 {
				nl.union(prev, node)
			}
			prev = node
		}
	}

	// Junctions carry no extra union (wires meeting there already share the
	// quantized key) but must be registered so an isolated junction still
	// exists as a graph node.
	for _, junc := range sch.Junctions {
		nl.intern(quantize(junc.Position))
	}

	// Component pins join whatever shares their quantized key.
	var pins []pinEntry
	powerPins := make(map[string][]int32) // declared value -> pin nodes
	var powerValues []string              // value first-seen order
	for i := range sch.Symbols {
		sym := &sch.Symbols[i]
		ref := sym.Reference()
		if ref == "" {
			continue
		}

		lib := sch.GetLibSymbol(sym.LibID)
		if lib == nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:      DiagUnresolvedPin,
				Reference: ref,
				Detail:    fmt.Sprintf("no symbol definition for %q", sym.LibID),
			})
			continue
		}

		place := Placement{Position: sym.Position, Rotation: sym.Angle, Mirror: sym.Mirror}
		isPower := sch.IsPowerSymbol(sym)

		for _, unit := range lib.Units {
			if !unitApplies(unit.Name, sym.Unit) {
				continue
			}
			for _, pin := range unit.Pins {
				abs, err := PinPosition(pin.Position, place)
				if err != nil {
					if errors.Is(err, ErrBadRotation) {
						res.Diagnostics = append(res.Diagnostics, Diagnostic{
							Kind:      DiagBadRotation,
							Reference: ref,
							Pin:       pin.Number.Number,
							Detail:    err.Error(),
						})
					}
					continue
				}
				node := nl.intern(quantize(abs))
				pins = append(pins, pinEntry{
					id:   PinID{Reference: ref, Pin: pin.Number.Number},
					pos:  abs,
					node: node,
				})
				if isPower {
					value := sym.Value()
					if _, seen := powerPins[value]; !seen {
						powerValues = append(powerValues, value)
					}
					powerPins[value] = append(powerPins[value], node)
				}
			}
		}
	}

	// Labels union by text within the sheet. Global and hierarchical label
	// texts are remembered for cross-sheet aggregation.
	labelNodes := make(map[string][]int32)
	var labelTexts []string // first-seen order, for naming
	addLabel := func(text string, pos sexp.Position) int32 {
		node := nl.intern(quantize(pos))
		if _, seen := labelNodes[text]; !seen {
			labelTexts = append(labelTexts, text)
		}
		labelNodes[text] = append(labelNodes[text], node)
		return node
	}
	for _, l := range sch.Labels {
		addLabel(l.Text, l.Position)
	}
	for _, l := range sch.GlobalLabels {
		res.globalNode[l.Text] = addLabel(l.Text, l.Position)
	}
	for _, l := range sch.HierLabels {
		res.hierNode[l.Text] = addLabel(l.Text, l.Position)
	}
	// Sheet pins anchor child-sheet connections at a point on this sheet.
	for si := range sch.Sheets {
		sheet := &sch.Sheets[si]
		for _, pin := range sheet.Pins {
			res.sheetAnchors = append(res.sheetAnchors, sheetAnchor{
				file:  sheet.FileName.Name,
				name:  pin.Name,
				shape: pin.Shape,
				node:  nl.intern(quantize(pin.Position)),
			})
		}
	}
	for _, text := range labelTexts {
		nodes := labelNodes[text]
		for _, node := range nodes[1:] {
			nl.union(nodes[0], node)
		}
	}

	// Power symbols union by declared value, ignoring distance. The value is
	// also a naming candidate, below any explicit label.
	for _, value := range powerValues {
		nodes := powerPins[value]
		for _, node := range nodes[1:] {
			nl.union(nodes[0], node)
		}
	}

	// Partition pins by root, net order following first pin appearance.
	rootNet := make(map[int32]int)
	for _, pe := range pins {
		root := nl.find(pe.node)
		idx, ok := rootNet[root]
		if !ok {
			idx = len(res.Nets)
			rootNet[root] = idx
			res.Nets = append(res.Nets, &Net{})
			res.netRoot = append(res.netRoot, root)
		}
		net := res.Nets[idx]
		net.Pins = append(net.Pins, NetPin{
			Reference: pe.id.Reference,
			Pin:       pe.id.Pin,
			Position:  pe.pos,
		})
		res.pinNet[pe.id] = idx
	}

	// Name each net: explicit label text beats power value beats the
	// auto-generated fallback. Two distinct label texts on one root is an
	// upstream modeling ambiguity; first-seen wins and the conflict is
	// flagged rather than silently resolved.
	for _, text := range labelTexts {
		root := nl.find(labelNodes[text][0])
		idx, ok := rootNet[root]
		if !ok {
			continue
		}
		net := res.Nets[idx]
		switch {
		case net.Source != NameLabel:
			net.Name = text
			net.Source = NameLabel
		case net.Name != text:
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:   DiagNameConflict,
				Detail: fmt.Sprintf("labels %q and %q share one net; keeping %q", net.Name, text, net.Name),
			})
		}
	}
	for _, value := range powerValues {
		root := nl.find(powerPins[value][0])
		idx, ok := rootNet[root]
		if !ok {
			continue
		}
		net := res.Nets[idx]
		net.PowerDerived = true
		if net.Source == NameAuto {
			net.Name = value
			net.Source = NamePower
		}
	}
	for _, net := range res.Nets {
		if net.Source == NameAuto {
			first := net.Pins[0]
			net.Name = fmt.Sprintf("Net-(%s-Pad%s)", first.Reference, first.Pin)
		}
	}

	return res
}

// unitApplies reports whether a lib symbol unit contributes pins to an
// instance placed as the given unit number. Unit names follow the
// "<name>_<unit>_<bodystyle>" convention; unit 0 holds pins common to all
// units.
func unitApplies(unitName string, instanceUnit int) bool {
	parts := strings.Split(unitName, "_")
	if len(parts) < 3 {
		return true
	}
	n, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return true
	}
	if n == 0 {
		return true
	}
	if instanceUnit == 0 {
		// Unplaced unit number: accept unit 1 as the default body.
		return n == 1
	}
	return n == instanceUnit
}
