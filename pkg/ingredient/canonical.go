package ingredient

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	disjunction   = regexp.MustCompile(`\s+(?:or|and/or)\s+|\s*/\s*`)
)

// prepAdjectives are stripped from the front of a name
var prepAdjectives = map[string]bool{
	"fresh": true, "freshly": true, "chopped": true, "finely": true, "roughly": true, "coarsely": true,
	"minced": true, "diced": true, "sliced": true, "thinly": true, "grated": true, "shredded": true,
	"crushed": true, "softened": true, "melted": true, "peeled": true, "cubed": true, "halved": true,
	"large": true, "medium": true, "small": true, "extra-large": true, "packed": true, "sifted": true,
	"cold": true, "warm": true, "room-temperature": true, "trimmed": true, "rinsed": true, "drained": true,
}

// trailingUnitWords are dropped from the end of a name unless the whole name is a known compound
var trailingUnitWords = map[string]bool{
	"clove": true, "cloves": true, "stalk": true, "stalks": true, "sprig": true, "sprigs": true,
	"bunch": true, "bunches": true, "head": true, "heads": true, "can": true, "cans": true,
	"leaf": true, "leaves": true, "piece": true, "pieces": true, "slice": true, "slices": true,
	"breast": true, "breasts": true, "fillet": true, "fillets": true, "stick": true, "sticks": true,
}

// semanticCompounds end in a unit word that is part of what the ingredient is
var semanticCompounds = map[string]bool{
	"chicken breast": true, "chicken breasts": true, "turkey breast": true, "duck breast": true,
	"salmon fillet": true, "salmon fillets": true, "fish fillets": true, "cod fillet": true,
	"bay leaf": true, "bay leaves": true, "curry leaves": true, "kaffir lime leaves": true, "lime leaves": true,
	"cinnamon stick": true, "cinnamon sticks": true, "bread slices": true,
}

// CanonicalName normalizes an ingredient name for cross-recipe aggregation:
// lower-cased, first option of a disjunction, no leading preparation adjectives
// and no trailing unit word ("garlic cloves" -> "garlic", "chicken breast" stays).
func CanonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = parenthetical.ReplaceAllString(n, " ")
	if i := strings.Index(n, ","); i >= 0 {
		n = n[:i]
	}
	if loc := disjunction.FindStringIndex(n); loc != nil && loc[0] > 0 {
		n = n[:loc[0]]
	}

	words := strings.Fields(n)
	for len(words) > 1 && prepAdjectives[words[0]] {
		words = words[1:]
	}
	n = strings.Join(words, " ")
	if len(words) > 1 && semanticCompounds[strings.Join(words[len(words)-2:], " ")] {
		return n
	}
	if len(words) > 1 && trailingUnitWords[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// singular is a light plural folding used for grouping keys only
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 4:
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "oes") && len(name) > 4:
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "ss"), strings.HasSuffix(name, "us"):
		return name
	case strings.HasSuffix(name, "s") && len(name) > 3:
		return strings.TrimSuffix(name, "s")
	}
	return name
}
