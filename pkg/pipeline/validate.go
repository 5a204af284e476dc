package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/umputun/recipescope/pkg/domain"
)

const (
	minTitleChars   = 3
	minIngredients  = 2
	minInstructions = 2
)

var (
	pureNumber = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	rangeStart = regexp.MustCompile(`(\d+)\s*(?:-|–|—|to)\s*\d+`)
)

// validate checks completeness of a sanitized recipe. It returns warnings for thin recipes and
// a rejection for empty ones, or for thin ones produced from whole-page fallback text.
func validate(r *domain.CombinedRecipe, fromFallback bool) (warnings []string, rejection *domain.ParseError) {
	title := strings.TrimSpace(r.Title)
	if r.IsEmpty() {
		switch {
		case fromFallback:
			return nil, domain.NewParseError(domain.CodeNotRecipePage, "this doesn't look like a recipe page")
		case title == "":
			return nil, domain.NewParseError(domain.CodeGenerationEmpty, "no recipe could be generated from the input")
		default:
			return nil, domain.NewParseError(domain.CodeFinalValidationFailed,
				"the recipe has no ingredients or instructions, try a different source")
		}
	}

	thin := len(r.Ingredients) < minIngredients || len(r.Instructions) < minInstructions
	if fromFallback && thin {
		return nil, domain.NewParseError(domain.CodeNotRecipePage, "this doesn't look like a recipe page")
	}

	if utf8.RuneCountInString(title) < minTitleChars {
		warnings = append(warnings, "title is missing or too short")
	}
	if len(r.Ingredients) < minIngredients {
		warnings = append(warnings, "fewer than 2 ingredients")
	}
	if len(r.Instructions) < minInstructions {
		warnings = append(warnings, "fewer than 2 instructions")
	}
	return warnings, nil
}

// NormalizeYield collapses comma-separated duplicates, prefers a pure number,
// then the first number of a range, else keeps the deduplicated text
func NormalizeYield(yield string) string {
	var parts []string
	seen := map[string]bool{}
	for _, p := range strings.Split(yield, ",") {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		parts = append(parts, p)
	}

	for _, p := range parts {
		if pureNumber.MatchString(p) {
			return p
		}
	}
	for _, p := range parts {
		if m := rangeStart.FindStringSubmatch(p); m != nil {
			return m[1]
		}
	}
	return strings.Join(parts, ", ")
}
