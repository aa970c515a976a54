package connect

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

// cacheSize bounds how many generations of resolution output are retained.
// Callers normally only touch the current generation; a small window lets a
// viewer undo a mutation without paying for a rebuild.
const cacheSize = 4

// Analyzer wraps a schematic with lazily-built, cached connectivity.
//
// The document itself carries no change notification, so the Analyzer keeps
// an explicit generation counter: callers must Invalidate after any
// structural mutation (component, wire, junction, or label added, removed,
// or moved), which bumps the generation and forces the next query to rebuild
// from the current snapshot. There is no incremental update. The Analyzer is
// single-writer: it must not be queried concurrently with a mutation of the
// underlying document.
type Analyzer struct {
	sch        *schematic.Schematic
	generation uint64
	results    *lru.Cache[uint64, *Result]
}

// NewAnalyzer creates an Analyzer over a schematic document.
func NewAnalyzer(sch *schematic.Schematic) *Analyzer {
	results, err := lru.New[uint64, *Result](cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Analyzer{sch: sch, results: results}
}

// Invalidate signals that the underlying document was structurally mutated.
// The next query rebuilds connectivity from the current snapshot.
func (a *Analyzer) Invalidate() {
	a.generation++
}

// Generation returns the current snapshot generation.
func (a *Analyzer) Generation() uint64 {
	return a.generation
}

// Resolve returns the connectivity result for the current generation,
// building it on first use.
func (a *Analyzer) Resolve() *Result {
	if res, ok := a.results.Get(a.generation); ok {
		return res
	}
	res := Resolve(a.sch)
	a.results.Add(a.generation, res)
	return res
}

// ArePinsConnected reports whether two pins share a net in the current
// snapshot. Unknown references answer false, never an error.
func (a *Analyzer) ArePinsConnected(ref1, pin1, ref2, pin2 string) bool {
	return a.Resolve().ArePinsConnected(ref1, pin1, ref2, pin2)
}

// NetForPin returns the net containing a pin, or nil.
func (a *Analyzer) NetForPin(ref, pin string) *Net {
	return a.Resolve().NetForPin(ref, pin)
}

// ConnectedPins returns all other pins sharing a net with the given pin.
func (a *Analyzer) ConnectedPins(ref, pin string) []PinID {
	return a.Resolve().ConnectedPins(ref, pin)
}
