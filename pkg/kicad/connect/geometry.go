package connect

import (
	"fmt"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

// ErrBadRotation is returned for placement angles outside {0, 90, 180, 270}.
// KiCad only emits the four canonical rotations for symbol instances; anything
// else indicates a malformed file and the pin is excluded rather than guessed.
var ErrBadRotation = fmt.Errorf("rotation angle not in {0, 90, 180, 270}")

// Placement is the part of a symbol instance that positions its pins:
// anchor position on the sheet, rotation angle, and mirror axis
// ("x", "y", or "" for none).
type Placement struct {
	Position sexp.Position
	Rotation sexp.Angle
	Mirror   string
}

// PinPosition maps a pin offset from symbol space into absolute sheet
// coordinates. Symbol space has +Y up; sheet space has +Y down. The steps
// run in a fixed order: flip the Y axis, apply the mirror, rotate in sheet
// space, then translate to the anchor. Reordering any two steps produces
// coordinates that are wrong for every rotated or mirrored instance.
func PinPosition(offset sexp.Position, p Placement) (sexp.Position, error) {
	x, y := offset.X, -offset.Y

	switch p.Mirror {
	case "x":
		y = -y
	case "y":
		x = -x
	}

	switch p.Rotation {
	case 0:
	case 90:
		x, y = y, -x
	case 180:
		x, y = -x, -y
	case 270:
		x, y = -y, x
	default:
		return sexp.Position{}, fmt.Errorf("%w: %v", ErrBadRotation, float64(p.Rotation))
	}

	return sexp.Position{X: p.Position.X + x, Y: p.Position.Y + y}, nil
}
