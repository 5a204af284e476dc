package content

// stripSelectors are removed before any visible-markup tier
const stripSelectors = "script, style, noscript, nav, footer, iframe, svg, form, " +
	"[class*=cookie], [id*=cookie], [class*=consent], [id*=consent], [class*=gdpr], " +
	"[class*=modal], [class*=popup], [class*=newsletter], [aria-modal=true]"

// regionSelectors locate the main content region, most specific first
var regionSelectors = []string{
	".wprm-recipe-container", ".wprm-recipe", ".tasty-recipes", ".mv-create-card",
	"[itemtype*='schema.org/Recipe']", "[class*=recipe-card]", "#recipe", ".recipe",
	"main", "article", "[role=main]",
}

var titleSelectors = []string{
	".wprm-recipe-name", ".tasty-recipes-title", ".mv-create-title",
	"[itemprop=name]", ".recipe-title", "h1",
}

var ingredientSelectors = []string{
	".wprm-recipe-ingredient", ".tasty-recipes-ingredients li", ".mv-create-ingredients li",
	"[itemprop=recipeIngredient]", "[itemprop=ingredients]",
	".recipe-ingredients li", ".ingredients li", "[class*=ingredient-list] li", "li[class*=ingredient]",
}

var instructionSelectors = []string{
	".wprm-recipe-instruction-text", ".tasty-recipes-instructions li", ".mv-create-instructions li",
	"[itemprop=recipeInstructions] li", "[itemprop=recipeInstructions]",
	".recipe-instructions li", ".instructions li", ".directions li", ".method li",
	"[class*=instruction] li", "[class*=direction] li",
}

var yieldSelectors = []string{
	".wprm-recipe-servings", ".tasty-recipes-yield", ".mv-create-yield",
	"[itemprop=recipeYield]", ".recipe-yield", ".servings", ".yield",
}

var prepTimeSelectors = []string{"[itemprop=prepTime]", ".wprm-recipe-prep_time-container", ".tasty-recipes-prep-time", ".prep-time"}
var cookTimeSelectors = []string{"[itemprop=cookTime]", ".wprm-recipe-cook_time-container", ".tasty-recipes-cook-time", ".cook-time"}
var totalTimeSelectors = []string{"[itemprop=totalTime]", ".wprm-recipe-total_time-container", ".tasty-recipes-total-time", ".total-time"}

// yieldKeywordElements are scanned line by line for yield keywords
const yieldKeywordElements = "p, li, span, td, dd, dt, strong, b, small, div"
