// Package schematic provides parsing for KiCad schematic files (.kicad_sch)
// and the in-memory document model consumed by the connectivity, proximity,
// and focus packages.
package schematic

import (
	"strings"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

// Re-export shared types from sexp package for convenience
type Position = sexp.Position
type Angle = sexp.Angle
type PositionAngle = sexp.PositionAngle
type Size = sexp.Size
type Color = sexp.Color
type Stroke = sexp.Stroke
type Fill = sexp.Fill
type UUID = sexp.UUID
type Effects = sexp.Effects
type Font = sexp.Font
type Justify = sexp.Justify
type Property = sexp.Property

// Schematic represents a complete KiCad schematic file
type Schematic struct {
	Version        int             // File format version
	Generator      string          // Generator info (e.g., "eeschema")
	GeneratorVer   string          // Generator version
	UUID           UUID            // Schematic UUID
	Paper          string          // Paper size (e.g., "A4")
	TitleBlock     TitleBlock      // Title block information
	LibSymbols     []LibSymbol     // Embedded library symbols
	Symbols        []Symbol        // Symbol instances on the schematic
	Wires          []Wire          // Wire connections
	Buses          []Bus           // Bus connections
	BusEntries     []BusEntry      // Bus entry points
	Junctions      []Junction      // Wire junctions
	NoConnects     []NoConnect     // No-connect markers
	Labels         []Label         // Local labels
	GlobalLabels   []GlobalLabel   // Global labels
	HierLabels     []HierLabel     // Hierarchical labels
	Sheets         []Sheet         // Hierarchical sheet references
	SheetInstances []SheetInstance // Sheet instance paths
	Polylines      []Polyline      // Graphical polylines
	Texts          []Text          // Graphical text
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comment1 string
	Comment2 string
	Comment3 string
	Comment4 string
}

// LibSymbol represents an embedded library symbol definition
type LibSymbol struct {
	Name       string       // Symbol name (e.g., "Device:R")
	Power      bool         // Power symbol (implicit global net)
	PinNumbers bool         // Show pin numbers
	PinNames   bool         // Show pin names
	InBom      bool         // Include in BOM
	OnBoard    bool         // Place on board
	Properties []Property   // Symbol properties
	Pins       []Pin        // Pin definitions (all units flattened)
	Units      []SymbolUnit // Symbol units (for multi-unit symbols)
}

// SymbolUnit represents a unit of a multi-unit symbol.
// Unit names follow the KiCad convention "<name>_<unit>_<bodystyle>",
// where unit 0 holds pins common to every unit.
type SymbolUnit struct {
	Name string // Unit name
	Pins []Pin  // Unit pins
}

// Pin represents a symbol pin declaration.
// Positions are in symbol space: millimeters with +Y pointing up,
// relative to the symbol anchor.
type Pin struct {
	Type     string   // Pin type (input, output, passive, power_in, etc.)
	Style    string   // Pin style (line, inverted, clock, etc.)
	Position Position // Pin offset in symbol space
	Angle    Angle    // Pin angle (0, 90, 180, 270)
	Length   float64  // Pin length
	Name     PinName  // Pin name
	Number   PinNum   // Pin number
	Hide     bool     // Hidden pin
}

// PinName contains pin name information
type PinName struct {
	Name    string
	Effects Effects
}

// PinNum contains pin number information
type PinNum struct {
	Number  string
	Effects Effects
}

// Symbol represents a symbol instance placed on the schematic
type Symbol struct {
	LibID      string     // Library identifier (e.g., "Device:R")
	Position   Position   // Position on schematic
	Angle      Angle      // Rotation angle (0, 90, 180, 270)
	Mirror     string     // Mirror mode (x, y, or empty)
	Unit       int        // Unit number (for multi-unit symbols)
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	UUID       UUID       // Instance UUID
	Properties []Property // Instance properties (Reference, Value, etc.)
	Pins       []PinRef   // Pin references
}

// PinRef represents a pin reference in a symbol instance
type PinRef struct {
	Number string // Pin number
	UUID   UUID   // Pin UUID
}

// Property returns the value of an instance property by key, or "".
func (s *Symbol) Property(key string) string {
	for _, prop := range s.Properties {
		if prop.Key == key {
			return prop.Value
		}
	}
	return ""
}

// Reference returns the symbol's reference designator (e.g. "R1", "#PWR01").
func (s *Symbol) Reference() string {
	return s.Property("Reference")
}

// Value returns the symbol's declared value (e.g. "10k", "GND").
func (s *Symbol) Value() string {
	return s.Property("Value")
}

// Wire represents a wire connection (polyline of at least 2 points)
type Wire struct {
	Points []Position // Wire points
	Stroke Stroke     // Wire stroke style
	UUID   UUID       // Wire UUID
}

// Bus represents a bus connection
type Bus struct {
	Points []Position // Bus points
	Stroke Stroke     // Bus stroke style
	UUID   UUID       // Bus UUID
}

// BusEntry represents a bus entry point
type BusEntry struct {
	Position Position // Entry position
	Size     Size     // Entry size
	Stroke   Stroke   // Entry stroke
	UUID     UUID     // Entry UUID
}

// Junction represents a deliberate multi-wire connection point
type Junction struct {
	Position Position // Junction position
	Diameter float64  // Junction diameter
	Color    Color    // Junction color
	UUID     UUID     // Junction UUID
}

// NoConnect represents a no-connect marker
type NoConnect struct {
	Position Position // Marker position
	UUID     UUID     // Marker UUID
}

// Label represents a local wire label (scope: one sheet)
type Label struct {
	Text     string   // Label text
	Position Position // Label position
	Angle    Angle    // Label rotation
	Effects  Effects  // Text effects
	UUID     UUID     // Label UUID
}

// GlobalLabel represents a global label (visible across sheets)
type GlobalLabel struct {
	Text       string     // Label text
	Shape      string     // Label shape (input, output, bidirectional, etc.)
	Position   Position   // Label position
	Angle      Angle      // Label rotation
	Effects    Effects    // Text effects
	UUID       UUID       // Label UUID
	Properties []Property // Label properties
}

// HierLabel represents a hierarchical label (connects to parent sheet pins)
type HierLabel struct {
	Text     string   // Label text
	Shape    string   // Label shape
	Position Position // Label position
	Angle    Angle    // Label rotation
	Effects  Effects  // Text effects
	UUID     UUID     // Label UUID
}

// Sheet represents a hierarchical sheet reference
type Sheet struct {
	Position   Position      // Sheet position
	Size       Size          // Sheet size
	Stroke     Stroke        // Border stroke
	Fill       Fill          // Background fill
	UUID       UUID          // Sheet UUID
	Name       SheetName     // Sheet name
	FileName   SheetFileName // Sheet file name
	Pins       []SheetPin    // Hierarchical pins
	Properties []Property    // Sheet properties
}

// SheetName contains sheet name information
type SheetName struct {
	Name    string
	Effects Effects
}

// SheetFileName contains sheet file name information
type SheetFileName struct {
	Name    string
	Effects Effects
}

// SheetPin represents a hierarchical pin on a sheet.
// It connects a point on the parent sheet to the hierarchical label of the
// same name inside the child sheet.
type SheetPin struct {
	Name     string   // Pin name
	Shape    string   // Pin shape (input, output, bidirectional, etc.)
	Position Position // Pin position (parent sheet coordinates)
	Effects  Effects  // Text effects
	UUID     UUID     // Pin UUID
}

// SheetInstance represents a sheet instance path
type SheetInstance struct {
	Path string // Instance path
	Page string // Page number
}

// Polyline represents a graphical polyline
type Polyline struct {
	Points []Position
	Stroke Stroke
	UUID   UUID
}

// Text represents graphical text on the schematic
type Text struct {
	Text     string
	Position Position
	Angle    Angle
	Effects  Effects
	UUID     UUID
}

// ComponentRef is the placement summary of one symbol instance, as consumed
// by the proximity scorer and the context slicer.
type ComponentRef struct {
	Reference string   // Reference designator (unique within a sheet)
	Value     string   // Declared value (e.g. "10k", "GND")
	LibID     string   // Library identifier
	Position  Position // Placement position
	Power     bool     // True for power symbols (implicit global nets)
}

// GetSymbol returns a symbol by reference designator
func (s *Schematic) GetSymbol(ref string) *Symbol {
	for i := range s.Symbols {
		if s.Symbols[i].Reference() == ref {
			return &s.Symbols[i]
		}
	}
	return nil
}

// GetLibSymbol returns an embedded library symbol definition by name
func (s *Schematic) GetLibSymbol(name string) *LibSymbol {
	for i := range s.LibSymbols {
		if s.LibSymbols[i].Name == name {
			return &s.LibSymbols[i]
		}
	}
	return nil
}

// GetSymbolsByLib returns all symbols with the given library ID
func (s *Schematic) GetSymbolsByLib(libID string) []Symbol {
	var result []Symbol
	for _, sym := range s.Symbols {
		if sym.LibID == libID {
			result = append(result, sym)
		}
	}
	return result
}

// GetAllReferences returns all reference designators
func (s *Schematic) GetAllReferences() []string {
	var refs []string
	for i := range s.Symbols {
		if ref := s.Symbols[i].Reference(); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// IsPowerSymbol reports whether a symbol instance denotes an implicit global
// net. The lib symbol's power flag is authoritative; the "power:" library
// prefix covers schematics whose embedded definitions predate the flag.
func (s *Schematic) IsPowerSymbol(sym *Symbol) bool {
	if lib := s.GetLibSymbol(sym.LibID); lib != nil && lib.Power {
		return true
	}
	return strings.HasPrefix(sym.LibID, "power:")
}

// Components returns the placement summary for every symbol instance that
// carries a reference designator.
func (s *Schematic) Components() []ComponentRef {
	comps := make([]ComponentRef, 0, len(s.Symbols))
	for i := range s.Symbols {
		sym := &s.Symbols[i]
		ref := sym.Reference()
		if ref == "" {
			continue
		}
		comps = append(comps, ComponentRef{
			Reference: ref,
			Value:     sym.Value(),
			LibID:     sym.LibID,
			Position:  sym.Position,
			Power:     s.IsPowerSymbol(sym),
		})
	}
	return comps
}

// GetLabels returns all label names (local + global + hierarchical)
func (s *Schematic) GetLabels() []string {
	seen := make(map[string]bool)
	var labels []string

	for _, l := range s.Labels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}
	for _, l := range s.GlobalLabels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}
	for _, l := range s.HierLabels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}

	return labels
}

// GetBoundingBox calculates the bounding box of all elements in the schematic
func (s *Schematic) GetBoundingBox() sexp.BoundingBox {
	bbox := sexp.NewBoundingBox()

	for _, wire := range s.Wires {
		for _, pt := range wire.Points {
			bbox.Expand(pt)
		}
	}

	for _, bus := range s.Buses {
		for _, pt := range bus.Points {
			bbox.Expand(pt)
		}
	}

	for _, sym := range s.Symbols {
		bbox.Expand(sym.Position)
	}

	for _, label := range s.Labels {
		bbox.Expand(label.Position)
	}

	for _, label := range s.GlobalLabels {
		bbox.Expand(label.Position)
	}

	for _, label := range s.HierLabels {
		bbox.Expand(label.Position)
	}

	for _, sheet := range s.Sheets {
		bbox.Expand(sheet.Position)
		bbox.Expand(Position{
			X: sheet.Position.X + sheet.Size.Width,
			Y: sheet.Position.Y + sheet.Size.Height,
		})
	}

	for _, junc := range s.Junctions {
		bbox.Expand(junc.Position)
	}

	for _, nc := range s.NoConnects {
		bbox.Expand(nc.Position)
	}

	for _, txt := range s.Texts {
		bbox.Expand(txt.Position)
	}

	return bbox
}
