package schematic

import (
	"strings"
	"testing"
)

func TestParseMinimalSchematic(t *testing.T) {
	input := `(kicad_sch
		(version 20250114)
		(generator "eeschema")
		(generator_version "9.0")
		(uuid 862335ee-c981-4fe1-9eb9-84db19301dd4)
		(paper "A4")
		(lib_symbols)
		(sheet_instances
			(path "/"
				(page "1")
			)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if sch.Version != 20250114 {
		t.Errorf("Expected version 20250114, got %d", sch.Version)
	}

	if sch.Generator != "eeschema" {
		t.Errorf("Expected generator 'eeschema', got '%s'", sch.Generator)
	}

	if sch.GeneratorVer != "9.0" {
		t.Errorf("Expected generator version '9.0', got '%s'", sch.GeneratorVer)
	}

	if sch.Paper != "A4" {
		t.Errorf("Expected paper 'A4', got '%s'", sch.Paper)
	}

	if len(sch.SheetInstances) != 1 {
		t.Errorf("Expected 1 sheet instance, got %d", len(sch.SheetInstances))
	}
}

func TestParseSchematicWithSymbol(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols
			(symbol "Device:R"
				(property "Reference" "R" (at 0 0 0))
				(property "Value" "R" (at 0 0 0))
				(symbol "R_0_1"
					(pin passive line (at 0 3.81 270) (length 1.27)
						(name "~")
						(number "1")
					)
					(pin passive line (at 0 -3.81 90) (length 1.27)
						(name "~")
						(number "2")
					)
				)
			)
		)
		(symbol (lib_id "Device:R")
			(at 100 50 0)
			(unit 1)
			(uuid sym-uuid-1)
			(property "Reference" "R1" (at 100 45 0))
			(property "Value" "10k" (at 100 55 0))
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.LibSymbols) != 1 {
		t.Errorf("Expected 1 lib symbol, got %d", len(sch.LibSymbols))
	}

	if len(sch.LibSymbols[0].Pins) != 2 {
		t.Errorf("Expected 2 pins in lib symbol, got %d", len(sch.LibSymbols[0].Pins))
	}

	if len(sch.Symbols) != 1 {
		t.Errorf("Expected 1 symbol instance, got %d", len(sch.Symbols))
	}

	if sch.Symbols[0].LibID != "Device:R" {
		t.Errorf("Expected lib_id 'Device:R', got '%s'", sch.Symbols[0].LibID)
	}

	// Test GetSymbol helper
	r1 := sch.GetSymbol("R1")
	if r1 == nil {
		t.Fatal("GetSymbol('R1') returned nil")
	}
	if r1.Value() != "10k" {
		t.Errorf("Expected value '10k', got '%s'", r1.Value())
	}

	// Test GetAllReferences
	refs := sch.GetAllReferences()
	if len(refs) != 1 || refs[0] != "R1" {
		t.Errorf("Expected refs ['R1'], got %v", refs)
	}

	// Test Components accessor
	comps := sch.Components()
	if len(comps) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(comps))
	}
	if comps[0].Reference != "R1" || comps[0].Power {
		t.Errorf("Unexpected component summary: %+v", comps[0])
	}
}

func TestParsePowerSymbol(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols
			(symbol "power:GND"
				(power)
				(property "Reference" "#PWR" (at 0 0 0))
				(property "Value" "GND" (at 0 0 0))
				(symbol "GND_0_1"
					(pin power_in line (at 0 0 270) (length 0)
						(name "GND")
						(number "1")
					)
				)
			)
		)
		(symbol (lib_id "power:GND")
			(at 110 80 0)
			(unit 1)
			(uuid pwr-uuid-1)
			(property "Reference" "#PWR01" (at 110 85 0))
			(property "Value" "GND" (at 110 84 0))
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	lib := sch.GetLibSymbol("power:GND")
	if lib == nil {
		t.Fatal("GetLibSymbol('power:GND') returned nil")
	}
	if !lib.Power {
		t.Error("Expected power flag on power:GND lib symbol")
	}

	sym := sch.GetSymbol("#PWR01")
	if sym == nil {
		t.Fatal("GetSymbol('#PWR01') returned nil")
	}
	if !sch.IsPowerSymbol(sym) {
		t.Error("Expected #PWR01 to be a power symbol")
	}

	comps := sch.Components()
	if len(comps) != 1 || !comps[0].Power {
		t.Errorf("Expected one power component, got %+v", comps)
	}
}

func TestParseSchematicWithWires(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(wire (pts (xy 100 50) (xy 150 50))
			(stroke (width 0) (type default))
			(uuid wire-1)
		)
		(wire (pts (xy 150 50) (xy 150 100))
			(stroke (width 0) (type default))
			(uuid wire-2)
		)
		(junction (at 150 50) (diameter 0) (color 0 0 0 0)
			(uuid junc-1)
		)
		(no_connect (at 150 100) (uuid nc-1))
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Wires) != 2 {
		t.Errorf("Expected 2 wires, got %d", len(sch.Wires))
	}

	if len(sch.Junctions) != 1 {
		t.Errorf("Expected 1 junction, got %d", len(sch.Junctions))
	}

	if len(sch.NoConnects) != 1 {
		t.Errorf("Expected 1 no-connect, got %d", len(sch.NoConnects))
	}
}

func TestParseSchematicWithLabels(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(label "VOUT" (at 100 50 0)
			(effects (font (size 1.27 1.27)))
			(uuid label-1)
		)
		(global_label "MCU_RESET" (shape input) (at 100 100 0)
			(effects (font (size 1.27 1.27)))
			(uuid glabel-1)
		)
		(hierarchical_label "DATA0" (shape bidirectional) (at 120 100 0)
			(effects (font (size 1.27 1.27)))
			(uuid hlabel-1)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Labels) != 1 {
		t.Errorf("Expected 1 label, got %d", len(sch.Labels))
	}

	if sch.Labels[0].Text != "VOUT" {
		t.Errorf("Expected label text 'VOUT', got '%s'", sch.Labels[0].Text)
	}

	if len(sch.GlobalLabels) != 1 {
		t.Errorf("Expected 1 global label, got %d", len(sch.GlobalLabels))
	}

	if len(sch.HierLabels) != 1 {
		t.Errorf("Expected 1 hierarchical label, got %d", len(sch.HierLabels))
	}

	// Test GetLabels helper
	labels := sch.GetLabels()
	if len(labels) != 3 {
		t.Errorf("Expected 3 total labels, got %d", len(labels))
	}
}

func TestParseSheet(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(sheet (at 140 60) (size 30 20)
			(stroke (width 0.1524) (type solid))
			(fill (color 0 0 0 0))
			(uuid sheet-1)
			(property "Sheetname" "power_supply")
			(property "Sheetfile" "power_supply.kicad_sch")
			(pin "VIN" input (at 140 65 180)
				(effects (font (size 1.27 1.27)))
				(uuid sheetpin-1)
			)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(sch.Sheets))
	}

	sheet := sch.Sheets[0]
	if sheet.Name.Name != "power_supply" {
		t.Errorf("Expected sheet name 'power_supply', got '%s'", sheet.Name.Name)
	}
	if sheet.FileName.Name != "power_supply.kicad_sch" {
		t.Errorf("Expected sheet file 'power_supply.kicad_sch', got '%s'", sheet.FileName.Name)
	}
	if len(sheet.Pins) != 1 || sheet.Pins[0].Name != "VIN" {
		t.Errorf("Expected sheet pin 'VIN', got %+v", sheet.Pins)
	}
}

func TestParseInvalidRoot(t *testing.T) {
	input := `(kicad_pcb (version 20231120))`

	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Error("Expected error for wrong root node type")
	}
}
