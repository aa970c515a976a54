package proximity

import "strings"

// Category is the coarse component class used for proximity weighting.
type Category string

const (
	CategoryIC         Category = "ic"
	CategoryCapacitor  Category = "capacitor"
	CategoryResistor   Category = "resistor"
	CategoryInductor   Category = "inductor"
	CategoryTransistor Category = "transistor"
	CategoryOther      Category = "other"
)

// prefixCategories maps reference-designator prefixes to categories.
var prefixCategories = map[string]Category{
	"U":  CategoryIC,
	"IC": CategoryIC,
	"C":  CategoryCapacitor,
	"R":  CategoryResistor,
	"L":  CategoryInductor,
	"Q":  CategoryTransistor,
	"T":  CategoryTransistor,
}

// libIDCategories maps library-identifier substrings to categories, checked
// in order. The substring match catches parts whose designator convention
// is unusual (e.g. a capacitor array on a "CN" prefix).
var libIDCategories = []struct {
	substr   string
	category Category
}{
	{"cap", CategoryCapacitor},
	{"resistor", CategoryResistor},
	{"inductor", CategoryInductor},
	{"transistor", CategoryTransistor},
	{"mcu", CategoryIC},
	{"amplifier", CategoryIC},
	{"regulator", CategoryIC},
}

// Classify assigns a component to a category from its reference designator
// prefix and library identifier. This is a cheap heuristic for weighting,
// not an authoritative part classification.
func Classify(ref, libID string) Category {
	if d, err := ParseDesignator(ref); err == nil {
		if cat, ok := prefixCategories[strings.ToUpper(d.Prefix)]; ok {
			return cat
		}
	}
	lib := strings.ToLower(libID)
	for _, entry := range libIDCategories {
		if strings.Contains(lib, entry.substr) {
			return entry.category
		}
	}
	return CategoryOther
}
