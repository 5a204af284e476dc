package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/recipescope/pkg/domain"
)

func TestExtractor_StructuredData(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		title  string
		ingr   string
		instr  string
		yield  string
		prep   string
		cook   string
		totalT string
	}{
		{
			name: "graph with sections",
			html: `<html><head><script type="application/ld+json">
				{"@context":"https://schema.org","@graph":[
					{"@type":"WebPage","name":"Page"},
					{"@type":"Recipe","name":"Lemon Cake",
					 "recipeIngredient":["2 cups flour","1 cup sugar","Salt &amp; pepper"],
					 "recipeInstructions":[
						{"@type":"HowToSection","name":"Batter","itemListElement":[
							{"@type":"HowToStep","text":"<p>Mix the flour and sugar.</p>"},
							{"@type":"HowToStep","name":"Add eggs."}]},
						{"@type":"HowToStep","text":"Bake for 30 minutes."}],
					 "recipeYield":["8","8 slices"],"prepTime":"PT15M","cookTime":"PT30M","totalTime":"PT45M"}
				]}</script></head><body><p>ignored</p></body></html>`,
			title: "Lemon Cake", ingr: "2 cups flour\n1 cup sugar\nSalt & pepper",
			instr: "Mix the flour and sugar.\nAdd eggs.\nBake for 30 minutes.",
			yield: "8, 8 slices", prep: "PT15M", cook: "PT30M", totalT: "PT45M",
		},
		{
			name: "top-level array with type list and plain string steps",
			html: `<script type="application/ld+json">[
					{"@type":"Organization","name":"Site"},
					{"@type":["Recipe","NewsArticle"],"name":"Toast",
					 "recipeIngredient":["1 slice bread"],
					 "recipeInstructions":"Toast the bread.\nButter it.","recipeYield":1}
				]</script>`,
			title: "Toast", ingr: "1 slice bread", instr: "Toast the bread.\nButter it.", yield: "1",
		},
		{
			name: "first recipe wins over later ones",
			html: `<script type="application/ld+json">{ broken json </script>
				<script type="application/ld+json">{"@type":"Recipe","name":"First",
					"recipeIngredient":["1 egg"],"recipeInstructions":["Boil it."]}</script>
				<script type="application/ld+json">{"@type":"Recipe","name":"Second",
					"recipeIngredient":["2 eggs"],"recipeInstructions":["Fry them."]}</script>`,
			title: "First", ingr: "1 egg", instr: "Boil it.",
		},
	}

	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Extract(tt.html)
			require.NoError(t, err)
			assert.False(t, res.IsFallback)
			assert.Equal(t, tt.title, res.Title)
			assert.Equal(t, tt.ingr, res.IngredientsText)
			assert.Equal(t, tt.instr, res.InstructionsText)
			assert.Equal(t, tt.yield, res.YieldText)
			assert.Equal(t, tt.prep, res.PrepTime)
			assert.Equal(t, tt.cook, res.CookTime)
			assert.Equal(t, tt.totalT, res.TotalTime)
		})
	}
}

const pluginPage = `<html><head><title>Best Banana Bread | Blog</title></head><body>
<nav>Home Recipes About</nav>
<div class="cookie-banner">We use cookies, 10 of them</div>
<div class="wprm-recipe-container"><div class="wprm-recipe">
	<h2 class="wprm-recipe-name">Banana Bread</h2>
	<span class="wprm-recipe-servings">8</span>
	<time itemprop="prepTime" datetime="PT10M">10 mins</time>
	<ul>
		<li class="wprm-recipe-ingredient"><span class="wprm-recipe-ingredient-amount">3</span><span class="wprm-recipe-ingredient-name">ripe bananas</span></li>
		<li class="wprm-recipe-ingredient"><span>2</span> <span>cups</span> <span>all-purpose flour</span></li>
		<li class="wprm-recipe-ingredient">1 tsp baking soda</li>
		<li class="wprm-recipe-ingredient">1/2 cup melted butter</li>
		<li class="wprm-recipe-ingredient">1 tsp baking soda</li>
	</ul>
	<div class="wprm-recipe-instruction-text">Preheat the oven to 350F and grease a loaf pan.</div>
	<div class="wprm-recipe-instruction-text">Mash the bananas and mix with the melted butter.</div>
	<div class="wprm-recipe-instruction-text">Fold in flour and baking soda, bake for 60 minutes.</div>
</div></div>
<footer>Copyright 2024</footer>
</body></html>`

func TestExtractor_Selectors(t *testing.T) {
	res, err := NewExtractor().Extract(pluginPage)
	require.NoError(t, err)
	assert.False(t, res.IsFallback)
	assert.Equal(t, "Banana Bread", res.Title)
	assert.Equal(t, "3 ripe bananas\n2 cups all-purpose flour\n1 tsp baking soda\n1/2 cup melted butter", res.IngredientsText)
	assert.Equal(t, "Preheat the oven to 350F and grease a loaf pan.\n"+
		"Mash the bananas and mix with the melted butter.\n"+
		"Fold in flour and baking soda, bake for 60 minutes.", res.InstructionsText)
	assert.Equal(t, "8", res.YieldText)
	assert.Equal(t, "PT10M", res.PrepTime)
}

func TestExtractor_ThemeClassesOnStructuralElements(t *testing.T) {
	page := `<html class="cookies-not-set"><body class="home wp-theme popup-maker-enabled">
		<main class="site-main modal-ready"><h1>Pasta Aglio e Olio</h1>
		<ul class="ingredients"><li>200 g spaghetti</li><li>4 cloves garlic, sliced</li><li>4 tbsp olive oil</li></ul>
		<ol class="instructions"><li>Boil the spaghetti in salted water until al dente.</li>
		<li>Fry the garlic in the oil until golden, toss with the pasta.</li></ol>
		<div class="popup-newsletter">Subscribe for 10 more recipes</div>
		</main></body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.False(t, res.IsFallback)
	assert.Equal(t, "Pasta Aglio e Olio", res.Title)
	assert.Equal(t, "200 g spaghetti\n4 cloves garlic, sliced\n4 tbsp olive oil", res.IngredientsText)
	assert.Contains(t, res.InstructionsText, "Boil the spaghetti")
	assert.NotContains(t, res.InstructionsText, "Subscribe")
}

func TestExtractor_PartialStructuredDataCompletedBySelectors(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@type":"Recipe","name":"Chili",
		"recipeIngredient":["1 lb ground beef","1 can kidney beans","2 tbsp chili powder"]}</script></head>
	<body><ol class="instructions">
		<li>Brown the beef in a large pot over medium heat.</li>
		<li>Add beans and chili powder, simmer for 30 minutes.</li>
	</ol></body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.False(t, res.IsFallback)
	assert.Equal(t, "Chili", res.Title)
	assert.Equal(t, "1 lb ground beef\n1 can kidney beans\n2 tbsp chili powder", res.IngredientsText)
	assert.Equal(t, "Brown the beef in a large pot over medium heat.\nAdd beans and chili powder, simmer for 30 minutes.",
		res.InstructionsText)
}

func TestExtractor_YieldByKeyword(t *testing.T) {
	page := `<html><body><article>
		<ul class="ingredients"><li>2 cups cooked rice</li><li>3 eggs, beaten</li><li>1 cup frozen green peas</li></ul>
		<ol class="directions"><li>Scramble the eggs in a hot wok.</li><li>Add rice and peas, stir fry for 5 minutes.</li></ol>
		<p>Servings: 4 people</p>
	</article></body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "Servings: 4 people", res.YieldText)
	assert.False(t, res.IsFallback)
}

func TestExtractor_OgTitle(t *testing.T) {
	page := `<html><head><meta property="og:title" content="Pancakes &amp; Syrup"></head><body>
		<ul class="ingredients"><li>1 cup flour</li><li>1 cup milk</li><li>1 egg</li><li>2 tbsp sugar</li><li>1/2 tsp baking powder</li></ul>
		<ol class="instructions"><li>Whisk everything together until smooth.</li><li>Fry on a hot griddle.</li></ol>
	</body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes & Syrup", res.Title)
}

func TestExtractor_Fallback(t *testing.T) {
	page := `<html><head><title>Soup</title><script>var x = 1;</script></head><body>
		<article><h1>Grandma's Soup</h1>
		<p>You will need 2 carrots, 1 onion and 3 cups of stock for this soup.</p>
		<p>Chop everything, simmer for 20 minutes and serve hot with bread.</p></article>
	</body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.True(t, res.IsFallback)
	assert.Equal(t, domain.FallbackBoth, res.FallbackType)
	assert.Equal(t, "Grandma's Soup", res.Title)
	assert.Contains(t, res.IngredientsText, "You will need 2 carrots, 1 onion and 3 cups of stock")
	assert.Equal(t, res.IngredientsText, res.InstructionsText)
	assert.NotContains(t, res.IngredientsText, "var x")
	assert.NotContains(t, res.IngredientsText, "<p>")
}

func TestExtractor_FallbackTextIsCapped(t *testing.T) {
	comments := strings.Repeat("<p>Loved it, made it twice this week and my kids asked for more.</p>", 3000)
	page := `<html><body><article><h1>Chili</h1>
		<p>Brown 500 g beef, add 2 cans of beans and 1 can of tomatoes, simmer for 40 minutes.</p>` +
		comments + `</article></body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.True(t, res.IsFallback)
	assert.LessOrEqual(t, charLen(res.IngredientsText), maxPageChars)
	assert.Greater(t, charLen(res.IngredientsText), maxPageChars/2)
	assert.Contains(t, res.IngredientsText, "Brown 500 g beef")
}

func TestTruncateText(t *testing.T) {
	tbl := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "one two three", n: 9, want: "one two"},
		{in: "abcdefghij", n: 4, want: "abcd"},
		{in: "½ cup ½ cup", n: 7, want: "½ cup"},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, truncateText(tt.in, tt.n), tt.in)
	}
}

func TestExtractor_FallbackOnlyForShortField(t *testing.T) {
	page := `<html><body>
		<ul class="ingredients"><li>2 lb chicken thighs</li><li>1 cup yogurt</li><li>2 tbsp garam masala</li></ul>
		<p>Marinate overnight.</p>
	</body></html>`

	res, err := NewExtractor().Extract(page)
	require.NoError(t, err)
	assert.True(t, res.IsFallback)
	assert.Equal(t, domain.FallbackInstructions, res.FallbackType)
	assert.Equal(t, "2 lb chicken thighs\n1 cup yogurt\n2 tbsp garam masala", res.IngredientsText)
	assert.Contains(t, res.InstructionsText, "Marinate overnight.")
}

func TestExtractor_Rejects(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "tiny page", html: `<html><body><p>Hello</p></body></html>`},
		{name: "no quantities", html: `<html><head><title>Thoughts</title></head><body><article>` +
			strings.Repeat("<p>Today I want to talk about why cooking at home matters so much to me.</p>", 5) +
			`</article></body></html>`},
		{name: "empty", html: ""},
	}
	e := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Extract(tt.html)
			require.ErrorIs(t, err, ErrNoRecipe)
			assert.Nil(t, res)
		})
	}
}

func TestPassesQualityGate(t *testing.T) {
	long := strings.Repeat("word ", 15)
	assert.False(t, passesQualityGate(&domain.ExtractedContent{IngredientsText: "1 egg", InstructionsText: "boil"}))
	assert.False(t, passesQualityGate(&domain.ExtractedContent{IngredientsText: long, InstructionsText: long}))
	assert.True(t, passesQualityGate(&domain.ExtractedContent{IngredientsText: long + "½ cup", InstructionsText: "x"}))
	assert.True(t, passesQualityGate(&domain.ExtractedContent{IngredientsText: "2 eggs", InstructionsText: long}))
}
