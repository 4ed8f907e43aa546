package scoring

import (
	"github.com/kpalsson/brewbracket/internal/errors"
	"github.com/kpalsson/brewbracket/internal/models"
)

// CategoryConsensus summarizes one category's votes across all judges of a
// heat, for display and audit. WinnerSlot is 0 for a tie; on a tie no judge
// counts as having voted with the majority.
type CategoryConsensus struct {
	Category   models.Category `json:"category"`
	Slot1Votes int             `json:"slot1_votes"`
	Slot2Votes int             `json:"slot2_votes"`
	WinnerSlot int             `json:"winner_slot"`

	// JudgeAgreement maps each judge who voted in this category to whether
	// their vote matched the majority.
	JudgeAgreement map[string]bool `json:"judge_agreement"`
}

// Consensus computes the per-category majority across a heat's judge
// sheets. Votes are resolved to heat slots through each judge's own cup
// pairing before any comparison; the raw left/right strings are never
// compared across judges.
func Consensus(cups CupAssignment, sheets []models.JudgeSheet) ([]CategoryConsensus, error) {
	type catVotes struct {
		slot1, slot2 int
		byJudge      map[string]int // judge -> slot voted for
	}
	votes := make(map[models.Category]*catVotes)
	record := func(cat models.Category, judge string, slot int) {
		cv := votes[cat]
		if cv == nil {
			cv = &catVotes{byJudge: make(map[string]int)}
			votes[cat] = cv
		}
		if slot == 1 {
			cv.slot1++
		} else {
			cv.slot2++
		}
		cv.byJudge[judge] = slot
	}

	hasCappuccino := false
	seen := make(map[string]bool, len(sheets))
	for i := range sheets {
		s := &sheets[i]
		if seen[s.JudgeName] {
			return nil, errors.Consistencyf("judge %q has more than one sheet for this heat", s.JudgeName)
		}
		seen[s.JudgeName] = true
		if err := ValidateSheet(s); err != nil {
			return nil, err
		}
		leftSlot, err := resolveLeftSlot(cups, s)
		if err != nil {
			return nil, err
		}
		if s.Beverage == models.Cappuccino {
			hasCappuccino = true
		}

		slotFor := func(side models.Side) int {
			if side == models.SideLeft {
				return leftSlot
			}
			return 3 - leftSlot
		}

		if s.Votes.VisualLatteArt != nil {
			record(models.VisualLatteArt, s.JudgeName, slotFor(*s.Votes.VisualLatteArt))
		}
		record(models.Taste, s.JudgeName, slotFor(s.Votes.Taste))
		record(models.Tactile, s.JudgeName, slotFor(s.Votes.Tactile))
		record(models.Flavour, s.JudgeName, slotFor(s.Votes.Flavour))
		record(models.Overall, s.JudgeName, slotFor(s.Votes.Overall))
	}

	var result []CategoryConsensus
	for _, cat := range categoryOrder {
		if cat == models.VisualLatteArt && !hasCappuccino {
			continue
		}
		cc := CategoryConsensus{Category: cat, JudgeAgreement: make(map[string]bool)}
		if cv := votes[cat]; cv != nil {
			cc.Slot1Votes = cv.slot1
			cc.Slot2Votes = cv.slot2
			switch {
			case cv.slot1 > cv.slot2:
				cc.WinnerSlot = 1
			case cv.slot2 > cv.slot1:
				cc.WinnerSlot = 2
			}
			for judge, slot := range cv.byJudge {
				cc.JudgeAgreement[judge] = cc.WinnerSlot != 0 && slot == cc.WinnerSlot
			}
		}
		result = append(result, cc)
	}

	return result, nil
}
