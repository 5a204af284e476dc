package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldRecipe holds fields taken from a schema.org Recipe block, verbatim except for html cleanup
type ldRecipe struct {
	title        string
	ingredients  []string
	instructions []string
	yield        string
	prepTime     string
	cookTime     string
	totalTime    string
}

// findLDRecipe scans every JSON-LD block and returns the first Recipe object found.
// The object may be top-level, inside a top-level array, inside @graph or under mainEntity.
func (e *Extractor) findLDRecipe(doc *goquery.Document) *ldRecipe {
	var node map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true // broken blocks are common, keep scanning
		}
		node = findRecipeNode(data)
		return node == nil
	})
	if node == nil {
		return nil
	}

	res := &ldRecipe{
		title:     e.cleanText(ldString(node["name"])),
		yield:     ldYield(node["recipeYield"]),
		prepTime:  ldString(node["prepTime"]),
		cookTime:  ldString(node["cookTime"]),
		totalTime: ldString(node["totalTime"]),
	}
	if res.yield == "" {
		res.yield = ldYield(node["yield"])
	}

	ingr := node["recipeIngredient"]
	if ingr == nil {
		ingr = node["ingredients"]
	}
	for _, v := range ldList(ingr) {
		if s := e.cleanText(ldString(v)); s != "" {
			res.ingredients = append(res.ingredients, s)
		}
	}
	res.instructions = e.flattenInstructions(node["recipeInstructions"])
	return res
}

func findRecipeNode(v any) map[string]any {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if n := findRecipeNode(item); n != nil {
				return n
			}
		}
	case map[string]any:
		if isRecipeType(val["@type"]) {
			return val
		}
		if g, ok := val["@graph"]; ok {
			if n := findRecipeNode(g); n != nil {
				return n
			}
		}
		if m, ok := val["mainEntity"]; ok {
			return findRecipeNode(m)
		}
	}
	return nil
}

func isRecipeType(t any) bool {
	switch val := t.(type) {
	case string:
		return strings.EqualFold(val, "Recipe") || strings.HasSuffix(val, "/Recipe")
	case []any:
		for _, item := range val {
			if isRecipeType(item) {
				return true
			}
		}
	}
	return false
}

// flattenInstructions supports plain strings, HowToStep objects and HowToSection groups
func (e *Extractor) flattenInstructions(v any) []string {
	var res []string
	switch val := v.(type) {
	case string:
		for _, line := range strings.Split(val, "\n") {
			if s := e.cleanText(line); s != "" {
				res = append(res, s)
			}
		}
	case []any:
		for _, item := range val {
			res = append(res, e.flattenInstructions(item)...)
		}
	case map[string]any:
		if items, ok := val["itemListElement"]; ok {
			return e.flattenInstructions(items)
		}
		text := ldString(val["text"])
		if text == "" {
			text = ldString(val["name"])
		}
		if s := e.cleanText(text); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func ldList(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case nil:
		return nil
	default:
		return []any{val}
	}
}

func ldString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return fmt.Sprintf("%g", val)
	case map[string]any: // e.g. {"@type":"QuantitativeValue","value":4}
		if s := ldString(val["value"]); s != "" {
			return s
		}
		return ldString(val["name"])
	}
	return ""
}

// ldYield keeps every yield value, duplicates are collapsed later by yield normalization
func ldYield(v any) string {
	var parts []string
	for _, item := range ldList(v) {
		if s := ldString(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
