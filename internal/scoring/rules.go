package scoring

import "github.com/kpalsson/brewbracket/internal/models"

// Category point values, fixed by the competition rules. A category's full
// value goes to whichever side the judge voted; there are no split points.
const (
	PointsVisualLatteArt = 3
	PointsTaste          = 1
	PointsTactile        = 1
	PointsFlavour        = 1
	PointsOverall        = 5
)

// categoryOrder is the canonical display and aggregation order.
var categoryOrder = []models.Category{
	models.VisualLatteArt,
	models.Taste,
	models.Tactile,
	models.Flavour,
	models.Overall,
}

// PointValue returns the point value of a judging category, or 0 for an
// unknown category.
func PointValue(c models.Category) int {
	switch c {
	case models.VisualLatteArt:
		return PointsVisualLatteArt
	case models.Taste:
		return PointsTaste
	case models.Tactile:
		return PointsTactile
	case models.Flavour:
		return PointsFlavour
	case models.Overall:
		return PointsOverall
	}
	return 0
}

// Categories returns the judging categories that apply to a beverage, in
// canonical order. Visual latte art applies to cappuccino only.
func Categories(b models.Beverage) []models.Category {
	if b == models.Cappuccino {
		return append([]models.Category(nil), categoryOrder...)
	}
	cats := make([]models.Category, 0, len(categoryOrder)-1)
	for _, c := range categoryOrder {
		if c == models.VisualLatteArt {
			continue
		}
		cats = append(cats, c)
	}
	return cats
}

// MaxJudgePoints returns the maximum points a single judge can award a
// single competitor in one heat: 11 for cappuccino, 8 for espresso.
func MaxJudgePoints(b models.Beverage) int {
	max := 0
	for _, c := range Categories(b) {
		max += PointValue(c)
	}
	return max
}
