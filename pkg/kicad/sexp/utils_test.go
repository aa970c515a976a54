package sexp

import (
	"testing"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp/kicadsexp"
)

func parseOne(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	if len(sexps) != 1 {
		t.Fatalf("Expected 1 sexp, got %d", len(sexps))
	}
	return sexps[0]
}

func TestFindNode(t *testing.T) {
	root := parseOne(t, `(symbol (at 100 50 90) (uuid abc))`)

	atNode, found := FindNode(root, "at")
	if !found {
		t.Fatal("Expected to find 'at' node")
	}
	name, err := GetNodeName(atNode)
	if err != nil || name != "at" {
		t.Errorf("Expected node name 'at', got %q (%v)", name, err)
	}

	if _, found := FindNode(root, "missing"); found {
		t.Error("Found nonexistent node")
	}
}

func TestFindAllNodes(t *testing.T) {
	root := parseOne(t, `(pts (xy 1 2) (xy 3 4) (xy 5 6))`)

	nodes := FindAllNodes(root, "xy")
	if len(nodes) != 3 {
		t.Errorf("Expected 3 xy nodes, got %d", len(nodes))
	}
}

func TestGetPosition(t *testing.T) {
	pos, err := GetPosition(parseOne(t, `(at 127.5 63.25 90)`))
	if err != nil {
		t.Fatalf("GetPosition failed: %v", err)
	}
	if pos.X != 127.5 || pos.Y != 63.25 {
		t.Errorf("Expected (127.5, 63.25), got (%v, %v)", pos.X, pos.Y)
	}
	if pos.Angle != 90 {
		t.Errorf("Expected angle 90, got %v", pos.Angle)
	}

	// Angle is optional
	pos, err = GetPosition(parseOne(t, `(at 10 20)`))
	if err != nil {
		t.Fatalf("GetPosition failed: %v", err)
	}
	if pos.Angle != 0 {
		t.Errorf("Expected angle 0, got %v", pos.Angle)
	}

	if _, err := GetPosition(parseOne(t, `(xy 1 2)`)); err == nil {
		t.Error("Expected error for non-at node")
	}
}

func TestGetPositionXY(t *testing.T) {
	pos, err := GetPositionXY(parseOne(t, `(xy 1.27 -2.54)`))
	if err != nil {
		t.Fatalf("GetPositionXY failed: %v", err)
	}
	if pos.X != 1.27 || pos.Y != -2.54 {
		t.Errorf("Expected (1.27, -2.54), got (%v, %v)", pos.X, pos.Y)
	}
}

func TestGetStroke(t *testing.T) {
	stroke, err := GetStroke(parseOne(t, `(stroke (width 0.254) (type dash))`))
	if err != nil {
		t.Fatalf("GetStroke failed: %v", err)
	}
	if stroke.Width != 0.254 {
		t.Errorf("Expected width 0.254, got %v", stroke.Width)
	}
	if stroke.Type != "dash" {
		t.Errorf("Expected type 'dash', got %q", stroke.Type)
	}
}

func TestGetQuotedString(t *testing.T) {
	prop := parseOne(t, `(property "Reference" "R1")`)

	key, err := GetQuotedString(prop, 1)
	if err != nil || key != "Reference" {
		t.Errorf("Expected 'Reference', got %q (%v)", key, err)
	}
	value, err := GetQuotedString(prop, 2)
	if err != nil || value != "R1" {
		t.Errorf("Expected 'R1', got %q (%v)", value, err)
	}
}

func TestGetProperty(t *testing.T) {
	prop, err := GetProperty(parseOne(t, `(property "Value" "10k" (at 5 10 0))`))
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}
	if prop.Key != "Value" || prop.Value != "10k" {
		t.Errorf("Expected Value=10k, got %s=%s", prop.Key, prop.Value)
	}
	if prop.Position.X != 5 || prop.Position.Y != 10 {
		t.Errorf("Expected position (5, 10), got (%v, %v)", prop.Position.X, prop.Position.Y)
	}
}

func TestGetEffects(t *testing.T) {
	effects, err := GetEffects(parseOne(t, `(effects (font (size 1.27 1.27)) (justify left) hide)`))
	if err != nil {
		t.Fatalf("GetEffects failed: %v", err)
	}
	if effects.Font.Size.Width != 1.27 {
		t.Errorf("Expected font width 1.27, got %v", effects.Font.Size.Width)
	}
	if effects.Justify.Horizontal != "left" {
		t.Errorf("Expected justify left, got %q", effects.Justify.Horizontal)
	}
	if !effects.Hide {
		t.Error("Expected hide flag")
	}
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	if !bb.IsEmpty() {
		t.Error("New bounding box should be empty")
	}

	bb.Expand(Position{X: 10, Y: 20})
	bb.Expand(Position{X: 30, Y: 5})

	if bb.Width() != 20 || bb.Height() != 15 {
		t.Errorf("Expected 20x15, got %vx%v", bb.Width(), bb.Height())
	}
	center := bb.Center()
	if center.X != 20 || center.Y != 12.5 {
		t.Errorf("Expected center (20, 12.5), got (%v, %v)", center.X, center.Y)
	}
	if !bb.Contains(Position{X: 15, Y: 10}) {
		t.Error("Expected (15,10) inside box")
	}
	if bb.Contains(Position{X: 50, Y: 10}) {
		t.Error("Expected (50,10) outside box")
	}
}
