// Package ingredient turns free-text ingredient lines into structured ingredients and
// normalizes ingredient names for aggregation across recipes.
package ingredient

import "strings"

// unitAliases maps lower-cased unit spellings to the canonical unit
var unitAliases = map[string]string{
	"cup": "cup", "cups": "cup", "c": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbsps": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tbls": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp", "tsps": "tsp",
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"fl oz": "fl oz", "fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"gram": "g", "grams": "g", "g": "g", "gr": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg", "kgs": "kg",
	"milligram": "mg", "milligrams": "mg", "mg": "mg",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml", "ml": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
	"pint": "pint", "pints": "pint", "pt": "pint",
	"quart": "quart", "quarts": "quart", "qt": "quart",
	"gallon": "gallon", "gallons": "gallon", "gal": "gallon",
	"clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can",
	"package": "package", "packages": "package", "pkg": "package",
	"packet": "packet", "packets": "packet",
	"jar": "jar", "jars": "jar",
	"slice": "slice", "slices": "slice",
	"piece": "piece", "pieces": "piece",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"bunch": "bunch", "bunches": "bunch",
	"sprig": "sprig", "sprigs": "sprig",
	"stalk": "stalk", "stalks": "stalk",
	"head": "head", "heads": "head",
	"handful": "handful", "handfuls": "handful",
	"stick": "stick", "sticks": "stick",

	// size and state descriptors, matched like units but never kept as one
	"small": "small", "medium": "medium", "large": "large", "big": "large",
	"extra-large": "extra-large", "xl": "extra-large",
	"fresh": "fresh", "whole": "whole",
	"heaping": "heaping", "heaped": "heaping", "level": "level",
}

// caseSensitiveUnits are recognized before lower-casing, "T" and "t" differ
var caseSensitiveUnits = map[string]string{
	"T":   "tbsp",
	"Tb":  "tbsp",
	"t":   "tsp",
	"tsp": "tsp",
}

var descriptiveUnits = map[string]bool{
	"small": true, "medium": true, "large": true, "extra-large": true,
	"fresh": true, "whole": true, "heaping": true, "level": true,
}

// NormalizeUnit maps a raw unit token to its canonical spelling.
// Returns false if the token is not a known unit or descriptor.
func NormalizeUnit(token string) (string, bool) {
	tok := strings.TrimSuffix(strings.TrimSpace(token), ".")
	if tok == "" {
		return "", false
	}
	if u, ok := caseSensitiveUnits[tok]; ok {
		return u, true
	}
	u, ok := unitAliases[strings.ToLower(strings.Join(strings.Fields(tok), " "))]
	return u, ok
}

// IsDescriptive reports whether a canonical unit is a size/state descriptor rather than a quantity unit
func IsDescriptive(unit string) bool {
	return descriptiveUnits[strings.ToLower(unit)]
}
