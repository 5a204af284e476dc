package ingredient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/umputun/recipescope/pkg/domain"
)

// amountPattern is one entry of the ordered amount matchers, first match wins
type amountPattern struct {
	name  string
	re    *regexp.Regexp
	value func(m []string) (string, bool)
}

const rangeConnector = `\s*(?:-|–|—|to)\s*`

var amountPatterns = []amountPattern{
	// "1-1/2" is the US way to write one and a half, a range would not end in a proper fraction
	{name: "hyphen mixed", re: regexp.MustCompile(`^(\d+)-(\d+)/(\d+)`), value: func(m []string) (string, bool) {
		num, _ := strconv.Atoi(m[2])
		den, _ := strconv.Atoi(m[3])
		if num >= den {
			return "", false
		}
		v, ok := mixedValue(m[1], m[2], m[3])
		return FormatAmount(v), ok
	}},
	{name: "mixed", re: regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`), value: func(m []string) (string, bool) {
		v, ok := mixedValue(m[1], m[2], m[3])
		return FormatAmount(v), ok
	}},
	{name: "fraction", re: regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`), value: func(m []string) (string, bool) {
		v, ok := mixedValue("0", m[1], m[2])
		return FormatAmount(v), ok
	}},
	{name: "decimal", re: regexp.MustCompile(`^(\d*\.\d+)`), value: func(m []string) (string, bool) {
		v, err := strconv.ParseFloat(m[1], 64)
		return FormatAmount(v), err == nil
	}},
	{name: "integer", re: regexp.MustCompile(`^(\d+)`), value: func(m []string) (string, bool) {
		v, err := strconv.ParseFloat(m[1], 64)
		return FormatAmount(v), err == nil
	}},
	{name: "range", re: regexp.MustCompile(`^(\d+(?:\s+\d+/\d+|/\d+|\.\d+)?)` + rangeConnector + `(\d+(?:\s+\d+/\d+|/\d+|\.\d+)?)`),
		value: func(m []string) (string, bool) {
			lo, ok1 := numberValue(m[1])
			hi, ok2 := numberValue(m[2])
			return FormatAmount(lo) + "-" + FormatAmount(hi), ok1 && ok2
		}},
	{name: "about", re: regexp.MustCompile(`(?i)^(?:about|approx\.?|approximately|around|~)\s*(\d+(?:\.\d+)?)`), value: func(m []string) (string, bool) {
		v, err := strconv.ParseFloat(m[1], 64)
		return FormatAmount(v), err == nil
	}},
}

// indefinitePhrases match quantity words without a number; keep is the part that stays in the name
var indefinitePhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:a|an)\s+((?:pinch|dash|splash|sprinkle|handful|drizzle)\s+of\s+.*)$`),
	regexp.MustCompile(`(?i)^some\s+(.*)$`),
}

var (
	leadingBullets = regexp.MustCompile(`^[\s\-•*▢◦·]+`)
	unitTwoWords   = regexp.MustCompile(`^([A-Za-z]+\s+[A-Za-z]+)\.?(?:\s+|$)`)
	unitOneWord    = regexp.MustCompile(`^([A-Za-z][A-Za-z\-]*)\.?(?:\s+|$)`)
	ofPrefix       = regexp.MustCompile(`(?i)^of\s+`)
	rangeAhead     = regexp.MustCompile(`^\s*(?:-|–|—|to\s)`)
	fractionAhead  = regexp.MustCompile(`^\s+\d+\s*/`)
)

var vulgarFractions = map[rune]string{
	'½': "1/2", '⅓': "1/3", '⅔': "2/3", '¼': "1/4", '¾': "3/4",
	'⅕': "1/5", '⅖': "2/5", '⅗': "3/5", '⅘': "4/5", '⅙': "1/6",
	'⅚': "5/6", '⅛': "1/8", '⅜': "3/8", '⅝': "5/8", '⅞': "7/8",
}

// Parse splits one free-text ingredient line into amount, unit, name and preparation.
// It never fails: when no amount is recognized the whole original line becomes the name.
func Parse(line string) domain.StructuredIngredient {
	original := strings.TrimSpace(line)
	text := leadingBullets.ReplaceAllString(normalizeFractions(original), "")
	text, prep := splitPreparation(text)

	amount, rest, found := matchAmount(text)
	indefinite := false
	if !found {
		amount, rest, found = matchIndefinite(text)
		indefinite = found
	}
	if !found {
		return domain.StructuredIngredient{Name: original}
	}

	var unit string
	if !indefinite {
		if u, raw, remaining, ok := matchUnit(rest); ok {
			if IsDescriptive(u) {
				rest = strings.TrimSpace(raw + " " + remaining) // descriptor belongs to the name
			} else {
				unit, rest = u, remaining
			}
		}
	}

	name := strings.TrimSpace(ofPrefix.ReplaceAllString(strings.TrimSpace(rest), ""))
	return domain.StructuredIngredient{
		Name:        name,
		Amount:      &amount,
		Unit:        domain.StrPtr(unit),
		Preparation: domain.StrPtr(prep),
	}
}

// ParseAll parses each non-blank line
func ParseAll(lines []string) []domain.StructuredIngredient {
	res := make([]domain.StructuredIngredient, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		res = append(res, Parse(l))
	}
	return res
}

// FormatAmount renders a number with at most two decimals and no trailing zeros
func FormatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func matchAmount(text string) (amount, rest string, ok bool) {
	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rest = text[len(m[0]):]
		if !amountBoundary(rest) {
			continue
		}
		if amount, ok = p.value(m); ok {
			return amount, strings.TrimSpace(rest), true
		}
	}
	return "", text, false
}

// amountBoundary rejects matches that stop in the middle of a longer number or a range
func amountBoundary(rest string) bool {
	if rest == "" {
		return true
	}
	r := []rune(rest)[0]
	if unicode.IsDigit(r) || r == '/' || r == '.' {
		return false
	}
	return !rangeAhead.MatchString(rest) && !fractionAhead.MatchString(rest)
}

func matchIndefinite(text string) (amount, rest string, ok bool) {
	for _, re := range indefinitePhrases {
		if m := re.FindStringSubmatch(text); m != nil {
			return "1", strings.TrimSpace(m[1]), true
		}
	}
	return "", text, false
}

// matchUnit tries a two-word unit first ("fl oz"), then a single word
func matchUnit(text string) (unit, raw, rest string, ok bool) {
	for _, re := range []*regexp.Regexp{unitTwoWords, unitOneWord} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if u, found := NormalizeUnit(m[1]); found {
			return u, m[1], strings.TrimSpace(text[len(m[0]):]), true
		}
	}
	return "", "", text, false
}

// splitPreparation cuts the trailing clause after the first comma outside parentheses
func splitPreparation(text string) (head, prep string) {
	depth := 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
			}
		}
	}
	return strings.TrimSpace(text), ""
}

func normalizeFractions(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if f, ok := vulgarFractions[r]; ok {
			sb.WriteString(" " + f)
			continue
		}
		if r == '⁄' {
			sb.WriteRune('/')
			continue
		}
		sb.WriteRune(r)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func mixedValue(whole, num, den string) (float64, bool) {
	w, err1 := strconv.ParseFloat(whole, 64)
	n, err2 := strconv.ParseFloat(num, 64)
	d, err3 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || err3 != nil || d == 0 {
		return 0, false
	}
	return w + n/d, true
}

// numberValue parses "2", "1.5", "1/2" or "1 1/2"
func numberValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Fields(s)
	switch {
	case len(parts) == 2 && strings.Contains(parts[1], "/"):
		nd := strings.SplitN(parts[1], "/", 2)
		return mixedValue(parts[0], nd[0], nd[1])
	case strings.Contains(s, "/"):
		nd := strings.SplitN(s, "/", 2)
		return mixedValue("0", nd[0], nd[1])
	default:
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
}
