package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/ingredient"
	"github.com/umputun/recipescope/pkg/pipeline"
	"github.com/umputun/recipescope/server/mocks"
)

func pancakes() *domain.CombinedRecipe {
	return &domain.CombinedRecipe{
		Title: "Pancakes",
		Ingredients: []domain.StructuredIngredient{
			{Name: "flour", Amount: domain.StrPtr("2"), Unit: domain.StrPtr("cup")},
			{Name: "eggs", Amount: domain.StrPtr("2")},
		},
		Instructions: []string{"mix", "fry"},
	}
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_parseHandler(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseFunc: func(_ context.Context, input string, _ pipeline.Options) pipeline.Result {
			switch input {
			case "https://example.com/pancakes":
				return pipeline.Result{Recipe: pancakes(), CacheKey: input, InputType: domain.InputURL}
			case "https://youtu.be/x":
				return pipeline.Result{Err: domain.NewParseError(domain.CodeUnsupportedInputType, "video input is not supported")}
			case "https://example.com/about":
				return pipeline.Result{Err: domain.NewParseError(domain.CodeNotRecipePage, "not a recipe")}
			case "https://example.com/down":
				return pipeline.Result{Err: domain.NewParseError(domain.CodeGenerationFailed, "try later")}
			}
			return pipeline.Result{Err: domain.NewParseError(domain.CodeInvalidInput, "input is empty")}
		},
		ParseBatchFunc: func(_ context.Context, inputs []string, _ pipeline.Options) []pipeline.Result {
			res := make([]pipeline.Result, len(inputs))
			for i, in := range inputs {
				res[i] = pipeline.Result{CacheKey: in, Recipe: pancakes()}
			}
			return res
		},
	}
	srv := New(testConfig(":8080"), parser, &mocks.RecipesMock{}, "test", false)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "ok", body: `{"input":"https://example.com/pancakes"}`, wantCode: http.StatusOK, wantBody: `"title":"Pancakes"`},
		{name: "invalid input", body: `{"input":""}`, wantCode: http.StatusBadRequest, wantBody: `"code":"INVALID_INPUT"`},
		{name: "unsupported", body: `{"input":"https://youtu.be/x"}`, wantCode: http.StatusUnsupportedMediaType,
			wantBody: `"code":"UNSUPPORTED_INPUT_TYPE"`},
		{name: "not a recipe", body: `{"input":"https://example.com/about"}`, wantCode: http.StatusUnprocessableEntity,
			wantBody: `"code":"NOT_RECIPE_PAGE"`},
		{name: "generation failed", body: `{"input":"https://example.com/down"}`, wantCode: http.StatusBadGateway,
			wantBody: `"code":"GENERATION_FAILED"`},
		{name: "bad json", body: `{"input":`, wantCode: http.StatusBadRequest, wantBody: "invalid request body"},
		{name: "bad intent", body: `{"input":"x","intent":"guess"}`, wantCode: http.StatusBadRequest, wantBody: "unknown intent"},
		{name: "batch", body: `{"inputs":["a","b"]}`, wantCode: http.StatusOK, wantBody: `"results":[`},
		{name: "batch too large", body: `{"inputs":["a","b","c","d"]}`, wantCode: http.StatusBadRequest, wantBody: "too many inputs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/parse", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	t.Run("options passed through", func(t *testing.T) {
		before := len(parser.ParseCalls())
		w := do(t, srv, http.MethodPost, "/api/v1/parse",
			`{"input":"https://example.com/pancakes","forceNewParse":true,"intent":"fuzzy_match"}`)
		require.Equal(t, http.StatusOK, w.Code)
		calls := parser.ParseCalls()
		require.Len(t, calls, before+1)
		assert.Equal(t, pipeline.Options{ForceNewParse: true, Intent: domain.IntentFuzzyMatch}, calls[len(calls)-1].Opts)

		do(t, srv, http.MethodPost, "/api/v1/parse", `{"input":"https://example.com/pancakes"}`)
		calls = parser.ParseCalls()
		assert.Equal(t, domain.IntentLiteral, calls[len(calls)-1].Opts.Intent, "literal by default")
	})
}

func TestServer_getRecipeHandler(t *testing.T) {
	recipes := &mocks.RecipesMock{
		GetFunc: func(_ context.Context, key string) (*domain.CacheEntry, error) {
			switch key {
			case "https://example.com/pancakes":
				return &domain.CacheEntry{Key: key, Recipe: *pancakes(), SourceType: domain.InputURL}, nil
			case "broken":
				return nil, errors.New("disk error")
			}
			return nil, nil
		},
	}
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, recipes, "test", false)

	w := do(t, srv, http.MethodGet, "/api/v1/recipe?key=https%3A%2F%2Fexample.com%2Fpancakes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entry domain.CacheEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entry))
	assert.Equal(t, "Pancakes", entry.Recipe.Title)
	assert.Equal(t, domain.InputURL, entry.SourceType)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/recipe?key=missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/v1/recipe", "").Code)
	w = do(t, srv, http.MethodGet, "/api/v1/recipe?key=broken", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk error", "internal errors are not exposed")
}

func TestServer_forkHandler(t *testing.T) {
	recipes := &mocks.RecipesMock{
		ForkFunc: func(_ context.Context, parentKey string, recipe *domain.CombinedRecipe) (*domain.CacheEntry, error) {
			if parentKey == "missing" {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, parentKey)
			}
			return &domain.CacheEntry{Key: "fork-1", ParentKey: parentKey, Recipe: *recipe, IsUserModified: true}, nil
		},
		ForksFunc: func(_ context.Context, parentKey string) ([]*domain.CacheEntry, error) {
			return []*domain.CacheEntry{{Key: "fork-1", ParentKey: parentKey, IsUserModified: true}}, nil
		},
	}
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, recipes, "test", false)

	body, err := json.Marshal(forkRequest{ParentKey: "https://example.com/pancakes", Recipe: pancakes()})
	require.NoError(t, err)
	w := do(t, srv, http.MethodPost, "/api/v1/recipe/fork", string(body))
	require.Equal(t, http.StatusCreated, w.Code)
	var entry domain.CacheEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entry))
	assert.Equal(t, "fork-1", entry.Key)
	assert.Equal(t, "https://example.com/pancakes", entry.ParentKey)
	assert.True(t, entry.IsUserModified)
	require.Len(t, recipes.ForkCalls(), 1)
	assert.Equal(t, "Pancakes", recipes.ForkCalls()[0].Recipe.Title)

	body, err = json.Marshal(forkRequest{ParentKey: "missing", Recipe: pancakes()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/v1/recipe/fork", string(body)).Code)

	assert.Equal(t, http.StatusBadRequest,
		do(t, srv, http.MethodPost, "/api/v1/recipe/fork", `{"parentKey":"k"}`).Code, "recipe required")
	assert.Equal(t, http.StatusBadRequest,
		do(t, srv, http.MethodPost, "/api/v1/recipe/fork", `{"parentKey":"k","recipe":{"title":"x"}}`).Code, "empty recipe")
	assert.Len(t, recipes.ForkCalls(), 2)

	w = do(t, srv, http.MethodGet, "/api/v1/recipe/forks?key=https%3A%2F%2Fexample.com%2Fpancakes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"fork-1"`)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/v1/recipe/forks", "").Code)
}

func TestServer_parseIngredientsHandler(t *testing.T) {
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, &mocks.RecipesMock{}, "test", false)

	w := do(t, srv, http.MethodPost, "/api/v1/ingredients/parse",
		`{"lines":["2 cups all-purpose flour"],"text":"3 cloves garlic, minced\n\n1 tbsp olive oil"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ingredients []parsedIngredient `json:"ingredients"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Ingredients, 3)
	first := resp.Ingredients[0]
	assert.Equal(t, ingredient.Parse("2 cups all-purpose flour").Name, first.Name)
	assert.Equal(t, "2", domain.StrVal(first.Amount))
	assert.Equal(t, ingredient.CanonicalName(first.Name), first.Canonical)
	assert.Equal(t, "minced", domain.StrVal(resp.Ingredients[1].Preparation))

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/ingredients/parse", `{"text":"  "}`).Code)
}

func TestServer_groceryHandler(t *testing.T) {
	recipes := &mocks.RecipesMock{
		GetFunc: func(_ context.Context, key string) (*domain.CacheEntry, error) {
			if key == "pancakes" {
				return &domain.CacheEntry{Key: key, Recipe: *pancakes()}, nil
			}
			return nil, nil
		},
	}
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, recipes, "test", false)

	body := `{"recipes":[{"key":"pancakes","scale":2},
		{"recipe":{"title":"Bread","ingredients":[{"name":"flour","amount":"1","unit":"cup"}],"instructions":["bake"]}}]}`
	w := do(t, srv, http.MethodPost, "/api/v1/grocery", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []ingredient.GroceryItem `json:"items"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, ingredient.GroceryItem{Name: "flour", Amount: "5", Unit: "cup", Sources: 2}, resp.Items[0])
	assert.Equal(t, "4", resp.Items[1].Amount)

	assert.Equal(t, http.StatusNotFound,
		do(t, srv, http.MethodPost, "/api/v1/grocery", `{"recipes":[{"key":"nope"}]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/grocery", `{"recipes":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/grocery", `{"recipes":[{}]}`).Code)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		code domain.ErrorCode
		want int
	}{
		{domain.CodeInvalidInput, http.StatusBadRequest},
		{domain.CodeUnsupportedInputType, http.StatusUnsupportedMediaType},
		{domain.CodeExtractionFailed, http.StatusUnprocessableEntity},
		{domain.CodeNotRecipePage, http.StatusUnprocessableEntity},
		{domain.CodeFinalValidationFailed, http.StatusUnprocessableEntity},
		{domain.CodeGenerationFailed, http.StatusBadGateway},
		{domain.CodeGenerationEmpty, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatus(domain.NewParseError(tt.code, "x")))
		})
	}
	assert.Equal(t, http.StatusOK, parseStatus(nil))
}
