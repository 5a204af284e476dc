// Package content fetches recipe pages and extracts recipe text from raw HTML
// using a tiered strategy: structured data, recipe-plugin selectors, keyword scans
// and finally the cleaned page text guarded by a quality gate.
package content

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/recipescope/pkg/domain"
)

// ErrNoRecipe is returned when the page does not look like a recipe
var ErrNoRecipe = errors.New("no recipe found")

const (
	minRegionChars   = 500 // main content candidate must be longer than this
	minFieldChars    = 50  // shorter ingredients or instructions trigger the raw fallback
	maxYieldLineChar = 200 // longer element text is a paragraph, not a yield line
	maxPageChars     = 30000 // fallback page text is cut to this, the recipe is near the top
)

// structural elements are never stripped, themes put plugin classes like popup-maker-enabled on them
const keepElements = "html, body, main, article"

var (
	spaces         = regexp.MustCompile(`\s+`)
	quantityGlyph  = regexp.MustCompile(`[0-9½⅓⅔¼¾⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`)
	yieldKeywordRe = regexp.MustCompile(`(?i)\b(?:servings|serves|yield|makes)\s*:`)
)

// Extractor turns raw HTML into ExtractedContent. It is safe for concurrent use.
type Extractor struct {
	policy *bluemonday.Policy
}

// NewExtractor makes an Extractor
func NewExtractor() *Extractor {
	return &Extractor{policy: bluemonday.StrictPolicy()}
}

// Extract runs the extraction tiers in order, each one only for fields still missing.
// Returns ErrNoRecipe if the page has no usable recipe text.
func (e *Extractor) Extract(rawHTML string) (*domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	res := &domain.ExtractedContent{}

	// structured data
	if ld := e.findLDRecipe(doc); ld != nil {
		res.Title = ld.title
		res.IngredientsText = strings.Join(ld.ingredients, "\n")
		res.InstructionsText = strings.Join(ld.instructions, "\n")
		res.YieldText, res.PrepTime, res.CookTime, res.TotalTime = ld.yield, ld.prepTime, ld.cookTime, ld.totalTime
		if res.IngredientsText != "" && res.InstructionsText != "" {
			lgr.Printf("[DEBUG] recipe extracted from structured data, %q", res.Title)
			return res, nil
		}
	}

	ogTitle, _ := doc.Find(`meta[property="og:title"]`).Attr("content")

	doc.Find(stripSelectors).Not(keepElements).Remove()
	root := e.isolateRegion(doc)

	// recipe plugin and microdata selectors
	fill(&res.Title, func() string { return e.firstText(root, titleSelectors) })
	fill(&res.IngredientsText, func() string { return e.collectLines(root, ingredientSelectors) })
	fill(&res.InstructionsText, func() string { return e.collectLines(root, instructionSelectors) })
	fill(&res.YieldText, func() string { return e.firstText(root, yieldSelectors) })
	fill(&res.PrepTime, func() string { return e.firstTime(root, prepTimeSelectors) })
	fill(&res.CookTime, func() string { return e.firstTime(root, cookTimeSelectors) })
	fill(&res.TotalTime, func() string { return e.firstTime(root, totalTimeSelectors) })

	// yield by keyword
	fill(&res.YieldText, func() string { return e.yieldByKeyword(root) })

	fill(&res.Title, func() string { return e.cleanText(ogTitle) })
	fill(&res.Title, func() string { return metadataTitle(rawHTML) })

	// raw page text for whatever is still missing or too short
	ingrShort, instrShort := charLen(res.IngredientsText) < minFieldChars, charLen(res.InstructionsText) < minFieldChars
	if ingrShort || instrShort {
		pageText := truncateText(e.pageText(root), maxPageChars)
		res.IsFallback = true
		switch {
		case ingrShort && instrShort:
			res.FallbackType = domain.FallbackBoth
			res.IngredientsText, res.InstructionsText = pageText, pageText
		case ingrShort:
			res.FallbackType = domain.FallbackIngredients
			res.IngredientsText = pageText
		default:
			res.FallbackType = domain.FallbackInstructions
			res.InstructionsText = pageText
		}
	}

	if res.IsFallback && !passesQualityGate(res) {
		lgr.Printf("[DEBUG] fallback extraction rejected, title %q, %d/%d chars",
			res.Title, charLen(res.IngredientsText), charLen(res.InstructionsText))
		return nil, ErrNoRecipe
	}
	return res, nil
}

// passesQualityGate rejects fallback content that is too short or has no quantities at all
func passesQualityGate(c *domain.ExtractedContent) bool {
	if charLen(c.IngredientsText) < minFieldChars && charLen(c.InstructionsText) < minFieldChars {
		return false
	}
	return quantityGlyph.MatchString(c.IngredientsText)
}

// isolateRegion returns the first region candidate with enough text, or the whole document
func (e *Extractor) isolateRegion(doc *goquery.Document) *goquery.Selection {
	for _, sel := range regionSelectors {
		var found *goquery.Selection
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if charLen(strings.TrimSpace(s.Text())) > minRegionChars {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			lgr.Printf("[DEBUG] content region isolated by %q", sel)
			return found
		}
	}
	return doc.Selection
}

// collectLines returns deduplicated lines from the first selector that yields anything
func (e *Extractor) collectLines(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		seen := map[string]bool{}
		var lines []string
		root.Find(sel).Each(func(_ int, s *goquery.Selection) {
			inner, err := s.Html()
			if err != nil {
				inner = s.Text()
			}
			line := e.cleanText(inner)
			if line == "" || seen[line] {
				return
			}
			seen[line] = true
			lines = append(lines, line)
		})
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	return ""
}

func (e *Extractor) firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if s := e.cleanText(root.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

// firstTime prefers machine-readable content or datetime attributes over visible text
func (e *Extractor) firstTime(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		s := root.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		for _, attr := range []string{"content", "datetime"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		if t := e.cleanText(s.Text()); t != "" {
			return t
		}
	}
	return ""
}

func (e *Extractor) yieldByKeyword(root *goquery.Selection) string {
	var res string
	root.Find(yieldKeywordElements).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		line := e.cleanText(s.Text())
		if line == "" || charLen(line) > maxYieldLineChar {
			return true
		}
		if loc := yieldKeywordRe.FindStringIndex(line); loc != nil {
			res = strings.TrimSpace(line[loc[0]:])
			return false
		}
		return true
	})
	return res
}

// pageText is the tag-free, whitespace-collapsed text of the selection
func (e *Extractor) pageText(root *goquery.Selection) string {
	raw, err := goquery.OuterHtml(root)
	if err != nil {
		return e.cleanText(root.Text())
	}
	return e.cleanText(raw)
}

// truncateText cuts s to at most n runes, at the last space when there is one
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut
}

// cleanText strips any markup, decodes entities and collapses whitespace
func (e *Extractor) cleanText(s string) string {
	if s == "" {
		return ""
	}
	// block boundaries become spaces so words from adjacent elements don't glue together
	s = strings.NewReplacer("<br", " <br", "</p>", "</p> ", "</li>", "</li> ", "</div>", "</div> ", "</span>", "</span> ").Replace(s)
	s = html.UnescapeString(e.policy.Sanitize(s))
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// metadataTitle is the title of last resort, taken from page metadata
func metadataTitle(rawHTML string) string {
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		ExcludeComments: true,
		Deduplicate:     true,
	})
	if err != nil || result == nil {
		return ""
	}
	return strings.TrimSpace(result.Metadata.Title)
}

func fill(field *string, get func() string) {
	if *field != "" {
		return
	}
	*field = get()
}

func charLen(s string) int { return utf8.RuneCountInString(s) }
