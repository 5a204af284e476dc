package ingredient

import (
	"strconv"
	"strings"

	"github.com/umputun/recipescope/pkg/domain"
)

// GroceryItem is one aggregated line of a grocery list
type GroceryItem struct {
	Name    string `json:"name"`
	Amount  string `json:"amount,omitempty"`
	Unit    string `json:"unit,omitempty"`
	Sources int    `json:"sources"`
}

// Aggregate merges ingredients from several recipes into a grocery list.
// Items are grouped by canonical name and unit, numeric amounts are summed
// and ranges count with their upper bound. Order follows first appearance.
func Aggregate(lists ...[]domain.StructuredIngredient) []GroceryItem {
	type bucket struct {
		item   GroceryItem
		total  float64
		summed bool
	}
	var order []string
	buckets := map[string]*bucket{}

	for _, list := range lists {
		for _, ing := range list {
			name := CanonicalName(ing.Name)
			if name == "" {
				continue
			}
			unit := domain.StrVal(ing.Unit)
			key := singular(name) + "|" + unit
			b, ok := buckets[key]
			if !ok {
				b = &bucket{item: GroceryItem{Name: name, Unit: unit}}
				buckets[key] = b
				order = append(order, key)
			}
			b.item.Sources++
			if v, ok := upperAmount(domain.StrVal(ing.Amount)); ok {
				b.total += v
				b.summed = true
			}
		}
	}

	res := make([]GroceryItem, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.summed {
			b.item.Amount = FormatAmount(b.total)
		}
		res = append(res, b.item)
	}
	return res
}

// Scale multiplies the amount of an ingredient, ranges are scaled on both ends.
// Non-numeric or missing amounts are left as is.
func Scale(ing domain.StructuredIngredient, factor float64) domain.StructuredIngredient {
	if ing.Amount == nil || factor <= 0 {
		return ing
	}
	amount := *ing.Amount
	if lo, hi, ok := strings.Cut(amount, "-"); ok {
		l, err1 := strconv.ParseFloat(lo, 64)
		h, err2 := strconv.ParseFloat(hi, 64)
		if err1 == nil && err2 == nil {
			scaled := FormatAmount(l*factor) + "-" + FormatAmount(h*factor)
			ing.Amount = &scaled
		}
		return ing
	}
	if v, err := strconv.ParseFloat(amount, 64); err == nil {
		scaled := FormatAmount(v * factor)
		ing.Amount = &scaled
	}
	return ing
}

func upperAmount(amount string) (float64, bool) {
	if amount == "" {
		return 0, false
	}
	if _, hi, ok := strings.Cut(amount, "-"); ok {
		amount = hi
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	return v, err == nil
}
