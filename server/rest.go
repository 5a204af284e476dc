package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/ingredient"
	"github.com/umputun/recipescope/pkg/pipeline"
)

type parseRequest struct {
	Input         string        `json:"input"`
	Inputs        []string      `json:"inputs"`
	ForceNewParse bool          `json:"forceNewParse"`
	Intent        domain.Intent `json:"intent"`
}

type forkRequest struct {
	ParentKey string                 `json:"parentKey"`
	Recipe    *domain.CombinedRecipe `json:"recipe"`
}

type ingredientsRequest struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

// parsedIngredient is a parsed line with its canonical grocery name
type parsedIngredient struct {
	domain.StructuredIngredient
	Canonical string `json:"canonical"`
}

type groceryRequest struct {
	Recipes []struct {
		Key    string                 `json:"key"`
		Recipe *domain.CombinedRecipe `json:"recipe"`
		Scale  float64                `json:"scale"`
	} `json:"recipes"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	st, err := s.recipes.Status(r.Context())
	if err != nil {
		log.Printf("[WARN] can't get store status: %v", err)
		status["status"] = "degraded"
	} else {
		status["store"] = st
	}
	renderJSON(w, r, http.StatusOK, status)
}

// parseHandler parses one input, or a batch when "inputs" is set
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	switch req.Intent {
	case "":
		req.Intent = domain.IntentLiteral
	case domain.IntentLiteral, domain.IntentFuzzyMatch:
	default:
		renderError(w, r, fmt.Errorf("unknown intent %q", req.Intent), http.StatusBadRequest)
		return
	}
	opts := pipeline.Options{ForceNewParse: req.ForceNewParse, Intent: req.Intent}

	if len(req.Inputs) > 0 {
		if maxBatch := s.config.GetFullConfig().Server.MaxBatch; maxBatch > 0 && len(req.Inputs) > maxBatch {
			renderError(w, r, fmt.Errorf("too many inputs, max %d", maxBatch), http.StatusBadRequest)
			return
		}
		results := s.parser.ParseBatch(r.Context(), req.Inputs, opts)
		renderJSON(w, r, http.StatusOK, map[string]any{"results": results})
		return
	}

	res := s.parser.Parse(r.Context(), req.Input, opts)
	if res.Err != nil {
		log.Printf("[INFO] parse failed, %s: %s", res.Err.Code, res.Err.Message)
	}
	renderJSON(w, r, parseStatus(res.Err), res)
}

// getRecipeHandler returns a stored recipe by key
func (s *Server) getRecipeHandler(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		renderError(w, r, fmt.Errorf("key is required"), http.StatusBadRequest)
		return
	}

	entry, err := s.recipes.Get(r.Context(), key)
	if err != nil {
		log.Printf("[ERROR] failed to get recipe %s: %v", key, err)
		renderError(w, r, fmt.Errorf("can't load recipe"), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		renderError(w, r, ErrNotFound, http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, entry)
}

// forkHandler stores an edited copy of a recipe
func (s *Server) forkHandler(w http.ResponseWriter, r *http.Request) {
	var req forkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ParentKey) == "" || req.Recipe == nil {
		renderError(w, r, fmt.Errorf("parentKey and recipe are required"), http.StatusBadRequest)
		return
	}
	if req.Recipe.IsEmpty() {
		renderError(w, r, fmt.Errorf("recipe has no ingredients or instructions"), http.StatusBadRequest)
		return
	}

	entry, err := s.recipes.Fork(r.Context(), req.ParentKey, req.Recipe)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			renderError(w, r, ErrNotFound, http.StatusNotFound)
			return
		}
		log.Printf("[ERROR] failed to fork recipe %s: %v", req.ParentKey, err)
		renderError(w, r, fmt.Errorf("can't save recipe"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusCreated, entry)
}

// forksHandler lists forks of a recipe
func (s *Server) forksHandler(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		renderError(w, r, fmt.Errorf("key is required"), http.StatusBadRequest)
		return
	}
	forks, err := s.recipes.Forks(r.Context(), key)
	if err != nil {
		log.Printf("[ERROR] failed to list forks of %s: %v", key, err)
		renderError(w, r, fmt.Errorf("can't load forks"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"forks": forks})
}

// parseIngredientsHandler parses free-form ingredient lines without calling the model
func (s *Server) parseIngredientsHandler(w http.ResponseWriter, r *http.Request) {
	var req ingredientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	lines := make([]string, 0, len(req.Lines))
	lines = append(lines, req.Lines...)
	lines = append(lines, strings.Split(req.Text, "\n")...)
	parsed := ingredient.ParseAll(lines)
	if len(parsed) == 0 {
		renderError(w, r, fmt.Errorf("no ingredient lines"), http.StatusBadRequest)
		return
	}

	res := make([]parsedIngredient, 0, len(parsed))
	for _, p := range parsed {
		res = append(res, parsedIngredient{StructuredIngredient: p, Canonical: ingredient.CanonicalName(p.Name)})
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"ingredients": res})
}

// groceryHandler merges ingredients of several recipes into one list.
// A recipe is passed inline or by its key, scale multiplies its amounts.
func (s *Server) groceryHandler(w http.ResponseWriter, r *http.Request) {
	var req groceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if len(req.Recipes) == 0 {
		renderError(w, r, fmt.Errorf("recipes are required"), http.StatusBadRequest)
		return
	}

	lists := make([][]domain.StructuredIngredient, 0, len(req.Recipes))
	for _, item := range req.Recipes {
		recipe := item.Recipe
		if recipe == nil {
			if item.Key == "" {
				renderError(w, r, fmt.Errorf("each recipe needs a key or a body"), http.StatusBadRequest)
				return
			}
			entry, err := s.recipes.Get(r.Context(), item.Key)
			if err != nil {
				log.Printf("[ERROR] failed to get recipe %s: %v", item.Key, err)
				renderError(w, r, fmt.Errorf("can't load recipe"), http.StatusInternalServerError)
				return
			}
			if entry == nil {
				renderError(w, r, fmt.Errorf("%w: %s", ErrNotFound, item.Key), http.StatusNotFound)
				return
			}
			recipe = &entry.Recipe
		}

		list := recipe.Ingredients
		if item.Scale > 0 && item.Scale != 1 {
			list = make([]domain.StructuredIngredient, 0, len(recipe.Ingredients))
			for _, ing := range recipe.Ingredients {
				list = append(list, ingredient.Scale(ing, item.Scale))
			}
		}
		lists = append(lists, list)
	}

	renderJSON(w, r, http.StatusOK, map[string]any{"items": ingredient.Aggregate(lists...)})
}

// parseStatus maps a parse failure to the http status of a single parse response
func parseStatus(perr *domain.ParseError) int {
	if perr == nil {
		return http.StatusOK
	}
	switch perr.Code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeUnsupportedInputType:
		return http.StatusUnsupportedMediaType
	case domain.CodeGenerationFailed, domain.CodeGenerationEmpty:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
