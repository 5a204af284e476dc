package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/recipescope/pkg/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		amount string
		unit   string
		ingr   string
		prep   string
	}{
		{name: "mixed fraction", line: "1 1/2 cups flour", amount: "1.5", unit: "cup", ingr: "flour"},
		{name: "unicode mixed fraction", line: "1½ cups sugar", amount: "1.5", unit: "cup", ingr: "sugar"},
		{name: "unicode fraction alone", line: "¾ tsp salt", amount: "0.75", unit: "tsp", ingr: "salt"},
		{name: "simple fraction", line: "1/3 cup milk", amount: "0.33", unit: "cup", ingr: "milk"},
		{name: "decimal", line: "2.50 kg potatoes", amount: "2.5", unit: "kg", ingr: "potatoes"},
		{name: "integer with unit synonym", line: "2 tbs butter", amount: "2", unit: "tbsp", ingr: "butter"},
		{name: "capital T is tablespoon", line: "1 T honey", amount: "1", unit: "tbsp", ingr: "honey"},
		{name: "lower t is teaspoon", line: "1 t vanilla", amount: "1", unit: "tsp", ingr: "vanilla"},
		{name: "unit with dot", line: "3 oz. cheddar", amount: "3", unit: "oz", ingr: "cheddar"},
		{name: "two word unit", line: "8 fl oz cream", amount: "8", unit: "fl oz", ingr: "cream"},
		{name: "range with dash", line: "2-3 cloves garlic", amount: "2-3", unit: "clove", ingr: "garlic"},
		{name: "range with to", line: "2 to 3 tablespoons oil", amount: "2-3", unit: "tbsp", ingr: "oil"},
		{name: "range with fraction", line: "1/2-1 cup water", amount: "0.5-1", unit: "cup", ingr: "water"},
		{name: "hyphenated mixed fraction", line: "1-1/2 cups flour", amount: "1.5", unit: "cup", ingr: "flour"},
		{name: "hyphenated mixed fraction tsp", line: "2-1/4 tsp yeast", amount: "2.25", unit: "tsp", ingr: "yeast"},
		{name: "range ending in improper fraction", line: "1-3/2 cups milk", amount: "1-1.5", unit: "cup", ingr: "milk"},
		{name: "about", line: "about 4 cups broth", amount: "4", unit: "cup", ingr: "broth"},
		{name: "cloves garlic", line: "9 cloves garlic", amount: "9", unit: "clove", ingr: "garlic"},
		{name: "preparation clause", line: "2 onions, finely chopped", amount: "2", ingr: "onions", prep: "finely chopped"},
		{name: "descriptor goes back to name", line: "2 large eggs", amount: "2", ingr: "large eggs"},
		{name: "fresh is not a unit", line: "1 fresh lemon, juiced", amount: "1", ingr: "fresh lemon", prep: "juiced"},
		{name: "of after unit", line: "2 cups of rice", amount: "2", unit: "cup", ingr: "rice"},
		{name: "bullet", line: "- 1 can chickpeas", amount: "1", unit: "can", ingr: "chickpeas"},
		{name: "no unit", line: "3 carrots", amount: "3", ingr: "carrots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.line)
			require.NotNil(t, res.Amount)
			assert.Equal(t, tt.amount, *res.Amount)
			assert.Equal(t, tt.unit, domain.StrVal(res.Unit))
			assert.Equal(t, tt.ingr, res.Name)
			assert.Equal(t, tt.prep, domain.StrVal(res.Preparation))
		})
	}
}

func TestParse_Indefinite(t *testing.T) {
	res := Parse("a pinch of salt")
	require.NotNil(t, res.Amount)
	assert.Equal(t, "1", *res.Amount)
	assert.Nil(t, res.Unit)
	assert.Equal(t, "pinch of salt", res.Name)

	res = Parse("some parsley, to garnish")
	require.NotNil(t, res.Amount)
	assert.Equal(t, "1", *res.Amount)
	assert.Equal(t, "parsley", res.Name)
	assert.Equal(t, "to garnish", domain.StrVal(res.Preparation))
}

func TestParse_NoAmountKeepsLine(t *testing.T) {
	for _, line := range []string{"Salt and pepper to taste", "olive oil, for frying", "Zest of one lemon"} {
		t.Run(line, func(t *testing.T) {
			res := Parse(line)
			assert.Equal(t, line, res.Name)
			assert.Nil(t, res.Amount)
			assert.Nil(t, res.Unit)
			assert.Nil(t, res.Preparation)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	res := Parse("   ")
	assert.Empty(t, res.Name)
	assert.Nil(t, res.Amount)
}

func TestParseAll(t *testing.T) {
	res := ParseAll([]string{"1 cup flour", "", "  ", "2 eggs"})
	require.Len(t, res, 2)
	assert.Equal(t, "flour", res[0].Name)
	assert.Equal(t, "eggs", res[1].Name)
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"tbsp", "tbsp", true},
		{"Tbs", "tbsp", true},
		{"TABLESPOONS", "tbsp", true},
		{"T", "tbsp", true},
		{"t", "tsp", true},
		{"Cups.", "cup", true},
		{"fluid  ounces", "fl oz", true},
		{"Large", "large", true},
		{"banana", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := NormalizeUnit(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, IsDescriptive("small"))
	assert.True(t, IsDescriptive("Fresh"))
	assert.False(t, IsDescriptive("cup"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatAmount(1.5))
	assert.Equal(t, "2", FormatAmount(2))
	assert.Equal(t, "0.33", FormatAmount(1.0/3))
	assert.Equal(t, "0.67", FormatAmount(2.0/3))
}
