package connect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/sexp"
)

func TestPinPosition(t *testing.T) {
	// Pin 2.54mm right, 1.27mm up of the anchor in symbol space.
	offset := sexp.Position{X: 2.54, Y: 1.27}
	anchor := sexp.Position{X: 100, Y: 50}

	tests := []struct {
		name     string
		rotation sexp.Angle
		mirror   string
		want     sexp.Position
	}{
		{"rot0", 0, "", sexp.Position{X: 102.54, Y: 48.73}},
		{"rot90", 90, "", sexp.Position{X: 98.73, Y: 47.46}},
		{"rot180", 180, "", sexp.Position{X: 97.46, Y: 51.27}},
		{"rot270", 270, "", sexp.Position{X: 101.27, Y: 52.54}},
		{"mirror-x", 0, "x", sexp.Position{X: 102.54, Y: 51.27}},
		{"mirror-y", 0, "y", sexp.Position{X: 97.46, Y: 48.73}},
		{"mirror-x-rot90", 90, "x", sexp.Position{X: 101.27, Y: 47.46}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PinPosition(offset, Placement{
				Position: anchor,
				Rotation: tt.rotation,
				Mirror:   tt.mirror,
			})
			require.NoError(t, err)
			require.InDelta(t, tt.want.X, got.X, 1e-9)
			require.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestPinPositionRejectsBadRotation(t *testing.T) {
	_, err := PinPosition(sexp.Position{X: 1, Y: 1}, Placement{Rotation: 45})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadRotation))
}

func TestRotationRoundTrip(t *testing.T) {
	// Four quarter turns in sheet space compose back to the identity.
	start, err := PinPosition(sexp.Position{X: 2.54, Y: 1.27}, Placement{})
	require.NoError(t, err)

	x, y := start.X, start.Y
	for i := 0; i < 4; i++ {
		x, y = y, -x
	}
	require.InDelta(t, start.X, x, 1e-9)
	require.InDelta(t, start.Y, y, 1e-9)
}

func TestQuantizeMergesNearbyPoints(t *testing.T) {
	a := quantize(sexp.Position{X: 103.48, Y: 100})
	b := quantize(sexp.Position{X: 103.4849, Y: 99.9951})
	c := quantize(sexp.Position{X: 103.5, Y: 100})
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
