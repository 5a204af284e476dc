package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/ingredient"
)

// fencedBlock matches a payload fully wrapped in one markdown code fence
var fencedBlock = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)\r?\n?```$")

// ParseError is returned when model output can't be turned into a recipe.
// Raw keeps the model output for diagnostics, it must not reach end users.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse model output: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Sanitize turns raw model output into a CombinedRecipe. It strips a wrapping code fence,
// repairs trailing garbage after a complete JSON value, and nulls out array fields that
// came back with a wrong type instead of failing the whole parse.
func Sanitize(raw string) (*domain.CombinedRecipe, error) {
	text := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if text == "" {
		return nil, &ParseError{Raw: raw, Err: ErrEmptyResponse}
	}

	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		repaired, ok := truncateTrailing(text, err)
		if !ok {
			return nil, &ParseError{Raw: raw, Err: err}
		}
		if err = json.Unmarshal([]byte(repaired), &data); err != nil {
			return nil, &ParseError{Raw: raw, Err: err}
		}
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("expected json object, got %T", data)}
	}
	if inner, ok := obj["recipe"].(map[string]any); ok && len(obj) == 1 {
		obj = inner // some models wrap the object
	}
	return toRecipe(obj), nil
}

// truncateTrailing handles the one repairable failure: a valid value followed by extra text.
// The syntax error offset points right past the first unexpected character.
func truncateTrailing(text string, err error) (string, bool) {
	var se *json.SyntaxError
	if !errors.As(err, &se) || !strings.Contains(se.Error(), "after top-level value") {
		return "", false
	}
	n := int(se.Offset) - 1
	if n <= 0 || n > len(text) {
		return "", false
	}
	return strings.TrimSpace(text[:n]), true
}

func toRecipe(obj map[string]any) *domain.CombinedRecipe {
	res := &domain.CombinedRecipe{
		Title:             scalar(obj["title"]),
		Yield:             scalar(obj["yield"]),
		PrepTime:          scalar(obj["prepTime"]),
		CookTime:          scalar(obj["cookTime"]),
		TotalTime:         scalar(obj["totalTime"]),
		SubstitutionsText: scalar(obj["substitutionsText"]),
	}

	if items, ok := obj["ingredients"].([]any); ok {
		res.Ingredients = make([]domain.StructuredIngredient, 0, len(items))
		for _, item := range items {
			if ing, ok := toIngredient(item); ok {
				res.Ingredients = append(res.Ingredients, ing)
			}
		}
	}

	if steps, ok := obj["instructions"].([]any); ok {
		res.Instructions = make([]string, 0, len(steps))
		for _, step := range steps {
			s := scalar(step)
			if m, ok := step.(map[string]any); ok {
				s = scalar(m["text"])
			}
			if s = strings.TrimSpace(s); s != "" {
				res.Instructions = append(res.Instructions, s)
			}
		}
	}

	if n, ok := obj["nutrition"].(map[string]any); ok {
		res.Nutrition = &domain.Nutrition{Calories: scalar(n["calories"]), Protein: scalar(n["protein"])}
	}
	return res
}

// toIngredient accepts a structured object or a plain line, which goes through the ingredient parser
func toIngredient(v any) (domain.StructuredIngredient, bool) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return domain.StructuredIngredient{}, false
		}
		return ingredient.Parse(val), true
	case map[string]any:
		ing := domain.StructuredIngredient{
			Name:        strings.TrimSpace(scalar(val["name"])),
			Amount:      optScalar(val["amount"]),
			Unit:        optScalar(val["unit"]),
			Preparation: optScalar(val["preparation"]),
		}
		if subs, ok := val["substitutions"].([]any); ok {
			ing.Substitutions = make([]domain.Substitution, 0, len(subs))
			for _, s := range subs {
				if m, ok := s.(map[string]any); ok {
					ing.Substitutions = append(ing.Substitutions, domain.Substitution{
						Name: scalar(m["name"]), Amount: scalar(m["amount"]),
						Unit: scalar(m["unit"]), Description: scalar(m["description"]),
					})
				}
			}
		}
		return ing, ing.Name != "" || ing.Amount != nil
	}
	return domain.StructuredIngredient{}, false
}

// scalar renders strings, numbers and booleans as a string, anything else as empty
func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func optScalar(v any) *string {
	return domain.StrPtr(strings.TrimSpace(scalar(v)))
}
