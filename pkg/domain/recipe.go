package domain

import "time"

// CombinedRecipe is the normalized recipe record produced by the parse pipeline.
// Once written to the cache it is never mutated, edits produce a fork.
type CombinedRecipe struct {
	Title             string                 `json:"title" jsonschema:"description=Recipe title"`
	Ingredients       []StructuredIngredient `json:"ingredients" jsonschema:"description=Ingredients in the order they appear"`
	Instructions      []string               `json:"instructions" jsonschema:"description=One entry per step in cooking order"`
	Yield             string                 `json:"yield" jsonschema:"description=Servings or yield as written (e.g. 4 servings)"`
	PrepTime          string                 `json:"prepTime" jsonschema:"description=Preparation time (e.g. 15 minutes)"`
	CookTime          string                 `json:"cookTime" jsonschema:"description=Cooking time"`
	TotalTime         string                 `json:"totalTime" jsonschema:"description=Total time"`
	Nutrition         *Nutrition             `json:"nutrition" jsonschema:"description=Per-serving nutrition if stated or estimable"`
	SubstitutionsText string                 `json:"substitutionsText" jsonschema:"description=Free-text notes about substitutions"`
}

// StructuredIngredient is one ingredient line split into parts
type StructuredIngredient struct {
	Name          string         `json:"name" jsonschema:"description=Ingredient name without amount or unit"`
	Amount        *string        `json:"amount" jsonschema:"description=Numeric amount as a string (e.g. 1.5 or 2-3)"`
	Unit          *string        `json:"unit" jsonschema:"description=Unit of measure (e.g. cup or tbsp)"`
	Preparation   *string        `json:"preparation" jsonschema:"description=Preparation note (e.g. finely chopped)"`
	Substitutions []Substitution `json:"substitutions" jsonschema:"description=Possible substitutes"`
}

// Substitution describes an alternative for an ingredient
type Substitution struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// Nutrition holds the per-serving nutrition summary
type Nutrition struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
}

// IsEmpty reports whether the recipe carries neither ingredients nor instructions
func (r *CombinedRecipe) IsEmpty() bool {
	return r == nil || (len(r.Ingredients) == 0 && len(r.Instructions) == 0)
}

// CacheEntry is a stored recipe addressed by its cache key
type CacheEntry struct {
	Key            string         `json:"key"`
	Recipe         CombinedRecipe `json:"recipe"`
	SourceType     InputType      `json:"sourceType"`
	Embedding      []float32      `json:"-"`
	ParentKey      string         `json:"parentKey,omitempty"`
	IsUserModified bool           `json:"isUserModified"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// SimilarEntry is a similarity search hit
type SimilarEntry struct {
	Entry      *CacheEntry `json:"entry"`
	Similarity float64     `json:"similarity"`
}

// StrPtr returns a pointer to s, or nil for an empty string
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal dereferences p, returning empty string for nil
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StoreStats summarizes the recipe store and the hot cache
type StoreStats struct {
	Recipes     int   `json:"recipes"`
	Forks       int   `json:"forks"`
	Embedded    int   `json:"embedded"`
	HotCache    bool  `json:"hotCache"`
	CacheHits   int64 `json:"cacheHits"`
	CacheMisses int64 `json:"cacheMisses"`
}
