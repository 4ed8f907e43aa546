package scoring

import (
	"github.com/kpalsson/brewbracket/internal/errors"
	"github.com/kpalsson/brewbracket/internal/models"
)

// CupAssignment records which anonymized cup code belongs to which heat
// slot. Judges are served the two cups in varying physical order, so a
// judge's left/right votes can only be resolved through the cup codes on
// their own sheet.
type CupAssignment struct {
	Cup1 string // competitor in slot 1
	Cup2 string // competitor in slot 2
}

// HeatTotals holds the aggregated point totals for the two heat slots.
type HeatTotals struct {
	Slot1 int `json:"slot1"`
	Slot2 int `json:"slot2"`
}

// ValidateSheet checks a judge sheet's shape before it is stored: judge
// name, beverage, cup codes and vote sides must all be well formed, and a
// latte-art vote is only allowed on a cappuccino sheet. A missing latte-art
// vote on a cappuccino sheet is fine; it simply scores zero.
func ValidateSheet(s *models.JudgeSheet) error {
	if s.JudgeName == "" {
		return errors.Validation("judge name is required")
	}
	if s.Beverage != models.Espresso && s.Beverage != models.Cappuccino {
		return errors.Validationf("unknown beverage %q", s.Beverage)
	}
	if s.LeftCup == "" || s.RightCup == "" {
		return errors.Validation("both cup codes are required")
	}
	if s.LeftCup == s.RightCup {
		return errors.Validationf("left and right cup codes are identical: %q", s.LeftCup)
	}
	if s.Votes.VisualLatteArt != nil {
		if s.Beverage != models.Cappuccino {
			return errors.Validation("visual latte art only applies to the cappuccino segment")
		}
		if !validSide(*s.Votes.VisualLatteArt) {
			return errors.Validationf("invalid visualLatteArt vote %q", *s.Votes.VisualLatteArt)
		}
	}
	for _, v := range []struct {
		cat  models.Category
		side models.Side
	}{
		{models.Taste, s.Votes.Taste},
		{models.Tactile, s.Votes.Tactile},
		{models.Flavour, s.Votes.Flavour},
		{models.Overall, s.Votes.Overall},
	} {
		if !validSide(v.side) {
			return errors.Validationf("invalid %s vote %q", v.cat, v.side)
		}
	}
	return nil
}

func validSide(s models.Side) bool {
	return s == models.SideLeft || s == models.SideRight
}

// Aggregate converts a heat's full set of judge sheets into per-slot point
// totals. Each vote is resolved to a slot through that judge's own cup-code
// pairing. A judge contributes exactly one sheet per heat, whatever its
// beverage, which bounds their contribution to one competitor at the
// category-table maximum. Pure: the same sheets always produce the same
// totals.
func Aggregate(cups CupAssignment, sheets []models.JudgeSheet) (HeatTotals, error) {
	var totals HeatTotals

	seen := make(map[string]bool, len(sheets))
	for i := range sheets {
		s := &sheets[i]

		if seen[s.JudgeName] {
			return HeatTotals{}, errors.Consistencyf("judge %q has more than one sheet for this heat", s.JudgeName)
		}
		seen[s.JudgeName] = true

		p1, p2, err := sheetPoints(cups, s)
		if err != nil {
			return HeatTotals{}, err
		}
		totals.Slot1 += p1
		totals.Slot2 += p2
	}

	return totals, nil
}

// sheetPoints scores a single judge sheet against the heat's cup
// assignment.
func sheetPoints(cups CupAssignment, s *models.JudgeSheet) (p1, p2 int, err error) {
	if err := ValidateSheet(s); err != nil {
		return 0, 0, err
	}

	leftSlot, err := resolveLeftSlot(cups, s)
	if err != nil {
		return 0, 0, err
	}

	award := func(side models.Side, points int) {
		slot := leftSlot
		if side == models.SideRight {
			slot = 3 - leftSlot
		}
		if slot == 1 {
			p1 += points
		} else {
			p2 += points
		}
	}

	if s.Votes.VisualLatteArt != nil {
		award(*s.Votes.VisualLatteArt, PointsVisualLatteArt)
	}
	award(s.Votes.Taste, PointsTaste)
	award(s.Votes.Tactile, PointsTactile)
	award(s.Votes.Flavour, PointsFlavour)
	award(s.Votes.Overall, PointsOverall)

	return p1, p2, nil
}

// resolveLeftSlot returns which heat slot (1 or 2) the judge's left cup
// belongs to. A cup code matching neither slot is a data-integrity error
// and is surfaced, never dropped.
func resolveLeftSlot(cups CupAssignment, s *models.JudgeSheet) (int, error) {
	switch {
	case s.LeftCup == cups.Cup1 && s.RightCup == cups.Cup2:
		return 1, nil
	case s.LeftCup == cups.Cup2 && s.RightCup == cups.Cup1:
		return 2, nil
	}
	return 0, errors.Consistencyf("judge %q cups %q/%q do not match heat cups %q/%q",
		s.JudgeName, s.LeftCup, s.RightCup, cups.Cup1, cups.Cup2)
}
