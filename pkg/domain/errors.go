package domain

import "fmt"

// ErrorCode identifies a class of parse failure reported to callers
type ErrorCode string

// error codes
const (
	CodeInvalidInput          ErrorCode = "INVALID_INPUT"
	CodeUnsupportedInputType  ErrorCode = "UNSUPPORTED_INPUT_TYPE"
	CodeExtractionFailed      ErrorCode = "EXTRACTION_FAILED"
	CodeNotRecipePage         ErrorCode = "NOT_RECIPE_PAGE"
	CodeGenerationFailed      ErrorCode = "GENERATION_FAILED"
	CodeGenerationEmpty       ErrorCode = "GENERATION_EMPTY"
	CodeFinalValidationFailed ErrorCode = "FINAL_VALIDATION_FAILED"
)

// ParseError is the user-facing error of a parse request. Message is safe to show,
// raw model output and internal causes never go here.
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewParseError makes a ParseError with the given code and message
func NewParseError(code ErrorCode, msg string) *ParseError {
	return &ParseError{Code: code, Message: msg}
}
