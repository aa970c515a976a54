package focus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/connect"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/proximity"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

func comp(ref, libID string, x, y float64) schematic.ComponentRef {
	return schematic.ComponentRef{
		Reference: ref,
		LibID:     libID,
		Position:  sexp.Position{X: x, Y: y},
	}
}

func net(name string, refs ...string) *connect.Net {
	n := &connect.Net{Name: name}
	for _, ref := range refs {
		n.Pins = append(n.Pins, connect.NetPin{Reference: ref, Pin: "1"})
	}
	return n
}

// testModel: U1 shares a net with R1 and R2; C1 sits close to U1 with a
// high proximity score; C2 is near but weak; R3 is unrelated.
func testModel() *Model {
	return &Model{
		Components: []schematic.ComponentRef{
			comp("U1", "MCU_ST:STM32F103", 100, 100),
			comp("R1", "Device:R", 120, 100),
			comp("R2", "Device:R", 140, 100),
			comp("R3", "Device:R", 200, 200),
			comp("C1", "Device:C", 103, 100),
			comp("C2", "Device:C", 126, 100),
		},
		Nets: []*connect.Net{
			net("NRST", "U1", "R1", "R2"),
			net("Net-(R3-Pad1)", "R3"),
		},
		Edges: []proximity.Edge{
			{RefA: "U1", RefB: "C1", Score: 5.1},
			{RefA: "U1", RefB: "C2", Score: 0.12},
		},
	}
}

func TestSliceSelectsNeighborhood(t *testing.T) {
	fm, err := Slice(testModel(), []string{"U1"}, nil)
	require.NoError(t, err)

	require.Len(t, fm.Selected, 1)
	require.Equal(t, "U1", fm.Selected[0].Reference)

	require.Equal(t, []string{"R1", "R2"}, refsOf(fm.Connected))

	// C2 scores below the 0.2 threshold.
	require.Equal(t, []string{"C1"}, refsOf(fm.Nearby))

	// Only the net touching the focused set survives, pins trimmed.
	require.Len(t, fm.Nets, 1)
	require.Equal(t, "NRST", fm.Nets[0].Name)
	require.Len(t, fm.Nets[0].Pins, 3)

	require.Len(t, fm.Edges, 1)
	require.Equal(t, "C1", fm.Edges[0].RefB)
}

func TestSliceDropsUnknownRefs(t *testing.T) {
	fm, err := Slice(testModel(), []string{"U1", "X99", "U1"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"U1"}, refsOf(fm.Selected))
}

func TestSliceConnectedCap(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxConnected = 1
	fm, err := Slice(testModel(), []string{"U1"}, opts)
	require.NoError(t, err)
	require.Len(t, fm.Connected, 1)
}

func TestSliceThresholdMonotonic(t *testing.T) {
	// Raising the score threshold can only shrink the nearby set.
	model := testModel()
	prev := -1
	for _, min := range []float64{0.0, 0.2, 1.0, 6.0} {
		opts := DefaultOptions()
		opts.MinScore = min
		fm, err := Slice(model, []string{"U1"}, opts)
		require.NoError(t, err)
		if prev >= 0 {
			require.LessOrEqual(t, len(fm.Nearby), prev)
		}
		prev = len(fm.Nearby)
	}
}

func TestSlicePowerNetDoesNotExpand(t *testing.T) {
	model := testModel()
	gnd := net("GND", "U1", "R3", "C2")
	gnd.PowerDerived = true
	model.Nets = append(model.Nets, gnd)

	fm, err := Slice(model, []string{"U1"}, nil)
	require.NoError(t, err)

	// R3 shares only the ground net; it is not pulled into the focus set,
	// but the ground net itself still shows up trimmed.
	require.NotContains(t, refsOf(fm.Connected), "R3")
	var gndNet *FocusNet
	for i := range fm.Nets {
		if fm.Nets[i].Name == "GND" {
			gndNet = &fm.Nets[i]
		}
	}
	require.NotNil(t, gndNet)
	for _, p := range gndNet.Pins {
		require.NotEqual(t, "R3", p.Reference)
	}
}

func TestSliceEmptySelection(t *testing.T) {
	fm, err := Slice(testModel(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, fm.Selected)
	require.Empty(t, fm.Connected)
	require.Empty(t, fm.Nearby)
	require.Empty(t, fm.Nets)
	require.Empty(t, fm.Edges)
}

func TestFocusedModelRefsOrder(t *testing.T) {
	fm, err := Slice(testModel(), []string{"U1"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"U1", "R1", "R2", "C1"}, fm.Refs())
}

func refsOf(comps []Component) []string {
	var refs []string
	for _, c := range comps {
		refs = append(refs, c.Reference)
	}
	return refs
}
