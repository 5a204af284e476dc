package domain

// InputType is the detected kind of the raw input
type InputType string

// input types
const (
	InputURL     InputType = "url"
	InputRawText InputType = "raw_text"
	InputImage   InputType = "image"
	InputVideo   InputType = "video"
)

// RawInput is the caller-supplied input after classification
type RawInput struct {
	Text         string
	DetectedType InputType
}

// Intent selects how the orchestrator may reuse cached results
type Intent string

// parse intents
const (
	IntentLiteral    Intent = "literal"
	IntentFuzzyMatch Intent = "fuzzy_match"
)

// FallbackType tells which fields of ExtractedContent came from whole-page text
type FallbackType string

// fallback types
const (
	FallbackIngredients  FallbackType = "ingredients"
	FallbackInstructions FallbackType = "instructions"
	FallbackBoth         FallbackType = "both"
)

// ExtractedContent holds text fields pulled out of a recipe page
type ExtractedContent struct {
	Title            string
	IngredientsText  string
	InstructionsText string
	YieldText        string
	PrepTime         string
	CookTime         string
	TotalTime        string
	IsFallback       bool
	FallbackType     FallbackType
}
