package services

import (
	"context"
	"sort"

	"github.com/kpalsson/brewbracket/internal/errors"
	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/repository"
	"github.com/kpalsson/brewbracket/internal/scoring"
)

// StandingsServiceRepository defines the repository methods needed by StandingsService
type StandingsServiceRepository interface {
	repository.TournamentRepository
	repository.CompetitorRepository
	repository.HeatRepository
	repository.SheetRepository
}

// StandingsService computes leaderboards and per-heat score breakdowns.
// Everything is recomputed from the judge sheets on each call; there are no
// stored point totals to drift out of sync.
type StandingsService struct {
	log  logger.Logger
	repo StandingsServiceRepository
}

// NewStandingsService creates a new StandingsService
func NewStandingsService(log logger.Logger, repo StandingsServiceRepository) *StandingsService {
	return &StandingsService{log: log, repo: repo}
}

// StandingsEntry is one leaderboard row
type StandingsEntry struct {
	CompetitorID int    `json:"competitor_id"`
	Name         string `json:"name"`
	Seed         int    `json:"seed"`
	Points       int    `json:"points"`
	HeatsPlayed  int    `json:"heats_played"`
	Wins         int    `json:"wins"`
	FinalRank    *int   `json:"final_rank,omitempty"`
}

// GetStandings returns the tournament leaderboard: total points across all
// heats descending, ties broken by the lower seed.
func (s *StandingsService) GetStandings(ctx context.Context, tournamentID int) ([]StandingsEntry, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("tournament not found")
		}
		return nil, err
	}

	competitors, err := s.repo.ListCompetitors(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	heats, err := s.repo.ListHeats(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	sheetsByHeat, err := s.repo.ListSheetsForTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*StandingsEntry, len(competitors))
	entries := make([]StandingsEntry, len(competitors))
	for i, c := range competitors {
		entries[i] = StandingsEntry{
			CompetitorID: c.ID,
			Name:         c.Name,
			Seed:         c.Seed,
			FinalRank:    c.FinalRank,
		}
		byID[c.ID] = &entries[i]
	}

	for _, heat := range heats {
		if heat.WinnerID != nil {
			if e := byID[*heat.WinnerID]; e != nil {
				e.Wins++
			}
		}

		sheets := sheetsByHeat[heat.ID]
		if len(sheets) == 0 {
			continue
		}
		cups := scoring.CupAssignment{Cup1: heat.Cup1Code, Cup2: heat.Cup2Code}
		totals, err := scoring.Aggregate(cups, sheets)
		if err != nil {
			s.log.Error("Consistency violation aggregating heat scores: "+err.Error(),
				"heat_id", heat.ID, "heat_no", heat.HeatNo)
			return nil, err
		}

		if heat.Competitor1ID != nil {
			if e := byID[*heat.Competitor1ID]; e != nil {
				e.Points += totals.Slot1
				e.HeatsPlayed++
			}
		}
		if heat.Competitor2ID != nil {
			if e := byID[*heat.Competitor2ID]; e != nil {
				e.Points += totals.Slot2
				e.HeatsPlayed++
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		// Unseeded competitors (seed 0) sort after everyone
		si, sj := entries[i].Seed, entries[j].Seed
		if si == 0 {
			return false
		}
		if sj == 0 {
			return true
		}
		return si < sj
	})

	return entries, nil
}

// GetConsensus returns the per-category judge consensus for a heat
func (s *StandingsService) GetConsensus(ctx context.Context, heatID int) ([]scoring.CategoryConsensus, error) {
	heat, err := s.repo.GetHeat(ctx, heatID)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("heat not found")
	}
	if err != nil {
		return nil, err
	}

	sheets, err := s.repo.ListSheetsByHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}

	cups := scoring.CupAssignment{Cup1: heat.Cup1Code, Cup2: heat.Cup2Code}
	return scoring.Consensus(cups, sheets)
}

// HeatScores is the aggregated score view of one heat
type HeatScores struct {
	HeatID     int                `json:"heat_id"`
	Totals     scoring.HeatTotals `json:"totals"`
	SheetCount int                `json:"sheet_count"`
	Judges     []string           `json:"judges"`
}

// GetHeatScores returns a heat's current point totals and who has judged it
func (s *StandingsService) GetHeatScores(ctx context.Context, heatID int) (*HeatScores, error) {
	heat, err := s.repo.GetHeat(ctx, heatID)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("heat not found")
	}
	if err != nil {
		return nil, err
	}

	sheets, err := s.repo.ListSheetsByHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}

	result := &HeatScores{HeatID: heatID, SheetCount: len(sheets)}
	if len(sheets) > 0 {
		cups := scoring.CupAssignment{Cup1: heat.Cup1Code, Cup2: heat.Cup2Code}
		totals, err := scoring.Aggregate(cups, sheets)
		if err != nil {
			return nil, err
		}
		result.Totals = totals
	}

	seen := make(map[string]bool)
	for _, sheet := range sheets {
		if !seen[sheet.JudgeName] {
			seen[sheet.JudgeName] = true
			result.Judges = append(result.Judges, sheet.JudgeName)
		}
	}

	return result, nil
}
