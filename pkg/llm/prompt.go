package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/umputun/recipescope/pkg/domain"
)

// defaultSystemPrompt instructs the model to return one recipe object. The schema is appended at runtime.
const defaultSystemPrompt = `You convert recipe text into a single structured JSON object.

Rules:
- Use only information present in the input. Do not invent ingredients or steps.
- Keep ingredients in the order they appear. Split each one into name, amount, unit and preparation.
- amount is a string with a decimal number ("1.5") or a range ("2-3"); use null if there is no amount.
- unit is a short canonical unit (cup, tbsp, tsp, g, kg, ml, l, oz, lb, clove, can) or null.
- instructions is an array with one element per step, without step numbers.
- Copy yield and times as written. Leave a field empty if the input does not state it.
- If the text mentions substitutions, put them under the ingredient and summarize them in substitutionsText.
- If the input is not a recipe, return {"title":"","ingredients":[],"instructions":[]}.
- Respond with JSON only, no markdown, no commentary.`

var (
	schemaOnce sync.Once
	schemaText string
)

// recipeSchema is the JSON schema of CombinedRecipe, generated once
func recipeSchema() string {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true, AllowAdditionalProperties: false}
		data, err := json.MarshalIndent(r.Reflect(&domain.CombinedRecipe{}), "", "  ")
		if err != nil {
			return // schema is a hint for the model, prompts still work without it
		}
		schemaText = string(data)
	})
	return schemaText
}

// PromptBuilder makes recipe prompts
type PromptBuilder struct {
	systemPrompt string
	temperature  float64
}

// NewPromptBuilder makes a builder, empty systemPrompt selects the built-in one
func NewPromptBuilder(systemPrompt string, temperature float64) *PromptBuilder {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &PromptBuilder{systemPrompt: systemPrompt, temperature: temperature}
}

// ForExtracted makes a prompt from text extracted from a web page
func (b *PromptBuilder) ForExtracted(c *domain.ExtractedContent, sourceURL string) Prompt {
	var sb strings.Builder
	if sourceURL != "" {
		sb.WriteString("Source: " + sourceURL + "\n\n")
	}
	if c.Title != "" {
		sb.WriteString("Title: " + c.Title + "\n\n")
	}

	if c.IsFallback && c.FallbackType == domain.FallbackBoth {
		sb.WriteString("The page text below was not split into sections. " +
			"Find the ingredients and the steps and ignore navigation, ads and comments.\n\n")
		sb.WriteString("Page text:\n" + c.IngredientsText + "\n")
	} else {
		if c.IsFallback {
			sb.WriteString(fmt.Sprintf("Note: %s were taken from the whole page text and may contain unrelated content.\n\n",
				c.FallbackType))
		}
		sb.WriteString("Ingredients:\n" + c.IngredientsText + "\n\n")
		sb.WriteString("Instructions:\n" + c.InstructionsText + "\n")
	}

	for _, f := range []struct{ name, val string }{
		{"Yield", c.YieldText}, {"Prep time", c.PrepTime}, {"Cook time", c.CookTime}, {"Total time", c.TotalTime},
	} {
		if f.val != "" {
			sb.WriteString("\n" + f.name + ": " + f.val)
		}
	}
	return b.prompt(sb.String())
}

// ForText makes a prompt from free text pasted by the user
func (b *PromptBuilder) ForText(text string) Prompt {
	return b.prompt("Recipe text:\n" + strings.TrimSpace(text))
}

func (b *PromptBuilder) prompt(user string) Prompt {
	system := b.systemPrompt
	if schema := recipeSchema(); schema != "" {
		system += "\n\nJSON schema of the response:\n" + schema
	}
	return Prompt{
		SystemInstruction: system,
		UserText:          strings.TrimSpace(user),
		ExpectJSON:        true,
		Temperature:       b.temperature,
		RequestID:         uuid.NewString(),
	}
}
