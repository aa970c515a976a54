package proximity

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func findEdge(edges []Edge, a, b string) *Edge {
	for i := range edges {
		if (edges[i].RefA == a && edges[i].RefB == b) ||
			(edges[i].RefA == b && edges[i].RefB == a) {
			return &edges[i]
		}
	}
	return nil
}

func TestParseDesignator(t *testing.T) {
	tests := []struct {
		ref    string
		prefix string
		index  string
		suffix string
	}{
		{"R12", "R", "12", ""},
		{"U3A", "U", "3", "A"},
		{"C101", "C", "101", ""},
		{"#PWR01", "#PWR", "01", ""},
	}
	for _, tt := range tests {
		d, err := ParseDesignator(tt.ref)
		require.NoError(t, err, tt.ref)
		require.Equal(t, tt.prefix, d.Prefix, tt.ref)
		require.Equal(t, tt.index, d.Index, tt.ref)
		require.Equal(t, tt.suffix, d.Suffix, tt.ref)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ref   string
		libID string
		want  Category
	}{
		{"U1", "MCU_ST:STM32F103", CategoryIC},
		{"C3", "Device:C", CategoryCapacitor},
		{"R7", "Device:R", CategoryResistor},
		{"L1", "Device:L", CategoryInductor},
		{"Q2", "Device:Q_NPN_BCE", CategoryTransistor},
		{"J1", "Connector:Conn_01x04", CategoryOther},
		// Designator gives nothing; library id substring decides.
		{"X1", "Device:C_Polarized_cap", CategoryCapacitor},
		{"X2", "Regulator_Linear:AMS1117", CategoryIC},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.ref, tt.libID), "%s %s", tt.ref, tt.libID)
	}
}

func TestScoreCloserScoresHigher(t *testing.T) {
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		comp("C1", "Device:C", 105, 100), // 5mm away
		comp("C2", "Device:C", 118, 100), // 18mm away
	}
	edges, err := Score(comps, nil)
	require.NoError(t, err)

	near := findEdge(edges, "U1", "C1")
	far := findEdge(edges, "U1", "C2")
	require.NotNil(t, near)
	require.NotNil(t, far)
	require.Greater(t, near.Score, far.Score)
}

func TestScoreBeyondExtendedRadius(t *testing.T) {
	// 1.5 x 20mm = 30mm is the hard cutoff for an ic/capacitor pair.
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		comp("C1", "Device:C", 131, 100),
	}
	edges, err := Score(comps, nil)
	require.NoError(t, err)
	require.Nil(t, findEdge(edges, "U1", "C1"))
}

func TestScoreDecouplingWithinExtendedRadius(t *testing.T) {
	// 25mm exceeds the 20mm base radius but not the 30mm decoupling reach.
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		comp("C1", "Device:C", 125, 100),
		comp("R1", "Device:R", 125, 130),
	}
	edges, err := Score(comps, nil)
	require.NoError(t, err)

	require.NotNil(t, findEdge(edges, "U1", "C1"))
	// The resistor gets no extended reach; at ~39mm from U1 it is out.
	require.Nil(t, findEdge(edges, "U1", "R1"))
}

func TestScoreDecouplingBoost(t *testing.T) {
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		comp("C1", "Device:C", 110, 100),
		comp("R1", "Device:R", 110, 100),
	}
	edges, err := Score(comps, nil)
	require.NoError(t, err)

	capEdge := findEdge(edges, "U1", "C1")
	resEdge := findEdge(edges, "U1", "R1")
	require.NotNil(t, capEdge)
	require.NotNil(t, resEdge)

	// capacitor/ic weight 2.0 x boost 3.0 = 6.0 against the resistor's 1.0.
	require.InDelta(t, 6.0, capEdge.Weight, 1e-9)
	require.InDelta(t, 1.0, resEdge.Weight, 1e-9)
	require.Greater(t, capEdge.Score, resEdge.Score)
}

func TestScoreExcludesPowerSymbols(t *testing.T) {
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		{
			Reference: "#PWR01",
			LibID:     "power:GND",
			Position:  sexp.Position{X: 101, Y: 100},
			Power:     true,
		},
	}
	edges, err := Score(comps, nil)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestScoreDeterministicOrder(t *testing.T) {
	comps := []schematic.ComponentRef{
		comp("U1", "MCU_ST:STM32F103", 100, 100),
		comp("C1", "Device:C", 103, 100),
		comp("C2", "Device:C", 109, 100),
		comp("R1", "Device:R", 95, 100),
	}
	first, err := Score(comps, nil)
	require.NoError(t, err)
	second, err := Score(comps, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		require.GreaterOrEqual(t, first[i-1].Score, first[i].Score)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.BaseRadius = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DecouplingRadiusScale = 0.5
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Weights["bogus"] = -1
	require.Error(t, cfg.Validate())
}
