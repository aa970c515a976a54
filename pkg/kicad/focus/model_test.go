package focus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/connect"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

// buildTestSchematic wires U1 pin 1 to C1 pin 1; C2 sits nearby unwired.
func buildTestSchematic() *schematic.Schematic {
	lib := func(name string) schematic.LibSymbol {
		return schematic.LibSymbol{
			Name: name,
			Units: []schematic.SymbolUnit{{
				Name: "X_1_1",
				Pins: []schematic.Pin{
					{Number: schematic.PinNum{Number: "1"}, Position: sexp.Position{X: 2.54, Y: 0}},
				},
			}},
		}
	}
	sym := func(libID, ref string, x, y float64) schematic.Symbol {
		return schematic.Symbol{
			LibID:    libID,
			Position: sexp.Position{X: x, Y: y},
			Properties: []schematic.Property{
				{Key: "Reference", Value: ref},
				{Key: "Value", Value: ref},
			},
		}
	}
	return &schematic.Schematic{
		LibSymbols: []schematic.LibSymbol{lib("MCU_ST:STM32F103"), lib("Device:C")},
		Symbols: []schematic.Symbol{
			sym("MCU_ST:STM32F103", "U1", 100, 100),
			sym("Device:C", "C1", 110, 100),
			sym("Device:C", "C2", 104, 104),
		},
		Wires: []schematic.Wire{
			{Points: []sexp.Position{{X: 102.54, Y: 100}, {X: 112.54, Y: 100}}},
		},
	}
}

func TestBuildModelAndSlice(t *testing.T) {
	sch := buildTestSchematic()
	analyzer := connect.NewAnalyzer(sch)

	model, err := BuildModel(sch, analyzer, nil)
	require.NoError(t, err)
	require.Len(t, model.Components, 3)
	require.NotEmpty(t, model.Nets)
	require.NotEmpty(t, model.Edges)

	fm, err := Slice(model, []string{"U1"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"U1"}, refsOf(fm.Selected))
	require.Contains(t, refsOf(fm.Connected), "C1")
	require.Contains(t, refsOf(fm.Nearby), "C2")
}

func TestFocusedModelMarshals(t *testing.T) {
	sch := buildTestSchematic()
	model, err := BuildModel(sch, connect.NewAnalyzer(sch), nil)
	require.NoError(t, err)
	fm, err := Slice(model, []string{"U1"}, nil)
	require.NoError(t, err)

	payload, err := json.Marshal(fm)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"selected"`)
	require.Contains(t, string(payload), `"U1"`)
}
