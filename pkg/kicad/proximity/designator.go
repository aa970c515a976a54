// Package proximity scores how much two components on one sheet matter to
// each other physically. The motivating case is decoupling capacitors: a
// capacitor within reach of an IC is far more relevant to that IC than the
// same capacitor across the board. Scores are cheap to recompute and carry
// no caching contract.
package proximity

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Designator is a parsed reference designator, e.g. "R12" or "U3A":
// an alphabetic prefix, a numeric index, and an optional unit suffix.
// Power references like "#PWR01" keep the "#PWR" prefix.
type Designator struct {
	Prefix string `parser:"@Letters"`
	Index  string `parser:"@Digits?"`
	Suffix string `parser:"@Letters?"`
}

var designatorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letters", Pattern: `[#A-Za-z]+`},
	{Name: "Digits", Pattern: `[0-9]+`},
})

var designatorParser = participle.MustBuild[Designator](
	participle.Lexer(designatorLexer),
)

// ParseDesignator splits a reference designator into its parts. Designators
// that do not follow the prefix-index convention return an error; callers
// treating classification as best-effort should fall back to the raw string.
func ParseDesignator(ref string) (*Designator, error) {
	return designatorParser.ParseString("", ref)
}
