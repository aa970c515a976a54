package proximity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

// Config controls the proximity scorer. Zero values are invalid; start from
// DefaultConfig.
type Config struct {
	// BaseRadius is the distance in millimeters beyond which a pair is
	// ignored, before any pair-specific scaling.
	BaseRadius float64

	// DecouplingRadiusScale widens the radius for ic/capacitor pairs, so
	// decoupling caps slightly out of base reach still register.
	DecouplingRadiusScale float64

	// DecouplingBoost multiplies the weight of an ic/capacitor pair when
	// either reference carries a chip-like "U" prefix.
	DecouplingBoost float64

	// Weights maps category pairs to weight multipliers. Keys come from
	// PairKey; unlisted pairs weigh 1.0.
	Weights map[string]float64
}

// DefaultConfig returns the scorer defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseRadius:            20.0,
		DecouplingRadiusScale: 1.5,
		DecouplingBoost:       3.0,
		Weights: map[string]float64{
			PairKey(CategoryCapacitor, CategoryIC):    2.0,
			PairKey(CategoryCapacitor, CategoryOther): 1.2,
		},
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.BaseRadius <= 0 {
		return fmt.Errorf("proximity: base radius must be positive, got %v", c.BaseRadius)
	}
	if c.DecouplingRadiusScale < 1 {
		return fmt.Errorf("proximity: decoupling radius scale must be >= 1, got %v", c.DecouplingRadiusScale)
	}
	if c.DecouplingBoost <= 0 {
		return fmt.Errorf("proximity: decoupling boost must be positive, got %v", c.DecouplingBoost)
	}
	for key, w := range c.Weights {
		if w <= 0 {
			return fmt.Errorf("proximity: weight for %q must be positive, got %v", key, w)
		}
	}
	return nil
}

// PairKey builds the canonical (order-independent) weight table key for a
// category pair.
func PairKey(a, b Category) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "/" + string(b)
}

// Edge is a scored unordered pair of components within reach of each other.
type Edge struct {
	RefA      string   `json:"ref_a"`
	RefB      string   `json:"ref_b"`
	CategoryA Category `json:"category_a"`
	CategoryB Category `json:"category_b"`
	Distance  float64  `json:"distance_mm"`
	Weight    float64  `json:"weight"`
	Score     float64  `json:"score"` // in (0, Weight]; 0 exactly at the radius never emits
}

// treeItem adapts one component for R-tree insertion.
type treeItem struct {
	index int
	rect  rtreego.Rect
}

func (ti *treeItem) Bounds() rtreego.Rect { return ti.rect }

// Score computes all qualifying proximity edges for one sheet's components.
// Power symbols are excluded: their placement is notation, not physical
// layout. Edges come back sorted by descending score, ties broken by
// reference pair, so equal snapshots yield equal output.
func Score(comps []schematic.ComponentRef, cfg *Config) ([]Edge, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	type candidate struct {
		ref      string
		category Category
		pos      r2.Vec
	}
	var cands []candidate
	for _, c := range comps {
		if c.Power {
			continue
		}
		cands = append(cands, candidate{
			ref:      c.Reference,
			category: Classify(c.Reference, c.LibID),
			pos:      r2.Vec{X: c.Position.X, Y: c.Position.Y},
		})
	}
	if len(cands) < 2 {
		return nil, nil
	}

	tree := rtreego.NewTree(2, 8, 16)
	for i, c := range cands {
		tree.Insert(&treeItem{
			index: i,
			rect:  rtreego.Point{c.pos.X, c.pos.Y}.ToRect(0.001),
		})
	}

	maxRadius := cfg.BaseRadius * cfg.DecouplingRadiusScale
	var edges []Edge
	for i, a := range cands {
		search := rtreego.Point{a.pos.X, a.pos.Y}.ToRect(maxRadius)
		for _, hit := range tree.SearchIntersect(search) {
			j := hit.(*treeItem).index
			if j <= i {
				continue
			}
			b := cands[j]

			dist := r2.Norm(r2.Sub(a.pos, b.pos))
			decoupling := isDecouplingPair(a.category, b.category)
			radius := cfg.BaseRadius
			if decoupling {
				radius *= cfg.DecouplingRadiusScale
			}
			if dist > radius {
				continue
			}

			weight := 1.0
			if w, ok := cfg.Weights[PairKey(a.category, b.category)]; ok {
				weight = w
			}
			if decoupling && (chipLike(a.ref) || chipLike(b.ref)) {
				weight *= cfg.DecouplingBoost
			}

			score := (radius - dist) / radius * weight
			if score <= 0 {
				continue
			}
			edges = append(edges, Edge{
				RefA:      a.ref,
				RefB:      b.ref,
				CategoryA: a.category,
				CategoryB: b.category,
				Distance:  dist,
				Weight:    weight,
				Score:     score,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Score != edges[j].Score {
			return edges[i].Score > edges[j].Score
		}
		if edges[i].RefA != edges[j].RefA {
			return edges[i].RefA < edges[j].RefA
		}
		return edges[i].RefB < edges[j].RefB
	})
	return edges, nil
}

func isDecouplingPair(a, b Category) bool {
	return (a == CategoryIC && b == CategoryCapacitor) ||
		(a == CategoryCapacitor && b == CategoryIC)
}

// chipLike reports whether a reference uses the "U" designator convention.
func chipLike(ref string) bool {
	return strings.HasPrefix(strings.ToUpper(ref), "U")
}
