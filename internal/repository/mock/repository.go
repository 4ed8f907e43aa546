package mock

import (
	"context"
	"time"

	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CreateHeatsError = errors.New("database error")
//	svc := services.NewTournamentService(log, mockRepo, broadcaster)
//	err := svc.BuildBracket(ctx, tournamentID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Tournament Errors =====
	CreateTournamentError          error
	GetTournamentError             error
	ListTournamentsError           error
	UpdateTournamentStatusError    error
	SetTournamentRoundsError       error
	SetTournamentCurrentRoundError error

	// ===== Competitor Errors =====
	CreateCompetitorError       error
	GetCompetitorError          error
	ListCompetitorsError        error
	UpdateCompetitorSeedError   error
	SetCompetitorFinalRankError error
	DeleteCompetitorError       error

	// ===== Heat Errors =====
	CreateHeatsError       error
	GetHeatError           error
	GetHeatByNumberError   error
	ListHeatsError         error
	ListHeatsByRoundError  error
	UpdateHeatStatusError  error
	SetHeatStationError    error
	SetHeatCompetitorError error
	MarkHeatRunningError   error
	MarkHeatDoneError      error

	// ===== Sheet Errors =====
	ReplaceJudgeSheetError       error
	ListSheetsByHeatError        error
	ListSheetsForTournamentError error
	CountSheetsByHeatError       error

	// ===== Settings Errors =====
	GetSettingError    error
	SetSettingError    error
	GetEventStatsError error
	ClearTableError    error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Tournament Methods =====

func (m *Repository) CreateTournament(ctx context.Context, name string) (int, error) {
	if m.CreateTournamentError != nil {
		return 0, m.CreateTournamentError
	}
	return m.FullRepository.CreateTournament(ctx, name)
}

func (m *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if m.GetTournamentError != nil {
		return nil, m.GetTournamentError
	}
	return m.FullRepository.GetTournament(ctx, id)
}

func (m *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	if m.ListTournamentsError != nil {
		return nil, m.ListTournamentsError
	}
	return m.FullRepository.ListTournaments(ctx)
}

func (m *Repository) UpdateTournamentStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	if m.UpdateTournamentStatusError != nil {
		return m.UpdateTournamentStatusError
	}
	return m.FullRepository.UpdateTournamentStatus(ctx, id, status)
}

func (m *Repository) SetTournamentRounds(ctx context.Context, id, totalRounds int) error {
	if m.SetTournamentRoundsError != nil {
		return m.SetTournamentRoundsError
	}
	return m.FullRepository.SetTournamentRounds(ctx, id, totalRounds)
}

func (m *Repository) SetTournamentCurrentRound(ctx context.Context, id, round int) error {
	if m.SetTournamentCurrentRoundError != nil {
		return m.SetTournamentCurrentRoundError
	}
	return m.FullRepository.SetTournamentCurrentRound(ctx, id, round)
}

// ===== Competitor Methods =====

func (m *Repository) CreateCompetitor(ctx context.Context, tournamentID int, name string) (int, error) {
	if m.CreateCompetitorError != nil {
		return 0, m.CreateCompetitorError
	}
	return m.FullRepository.CreateCompetitor(ctx, tournamentID, name)
}

func (m *Repository) GetCompetitor(ctx context.Context, id int) (*models.Competitor, error) {
	if m.GetCompetitorError != nil {
		return nil, m.GetCompetitorError
	}
	return m.FullRepository.GetCompetitor(ctx, id)
}

func (m *Repository) ListCompetitors(ctx context.Context, tournamentID int) ([]models.Competitor, error) {
	if m.ListCompetitorsError != nil {
		return nil, m.ListCompetitorsError
	}
	return m.FullRepository.ListCompetitors(ctx, tournamentID)
}

func (m *Repository) UpdateCompetitorSeed(ctx context.Context, id, seed int) error {
	if m.UpdateCompetitorSeedError != nil {
		return m.UpdateCompetitorSeedError
	}
	return m.FullRepository.UpdateCompetitorSeed(ctx, id, seed)
}

func (m *Repository) SetCompetitorFinalRank(ctx context.Context, id, rank int) error {
	if m.SetCompetitorFinalRankError != nil {
		return m.SetCompetitorFinalRankError
	}
	return m.FullRepository.SetCompetitorFinalRank(ctx, id, rank)
}

func (m *Repository) DeleteCompetitor(ctx context.Context, id int) error {
	if m.DeleteCompetitorError != nil {
		return m.DeleteCompetitorError
	}
	return m.FullRepository.DeleteCompetitor(ctx, id)
}

// ===== Heat Methods =====

func (m *Repository) CreateHeats(ctx context.Context, heats []*models.Heat) error {
	if m.CreateHeatsError != nil {
		return m.CreateHeatsError
	}
	return m.FullRepository.CreateHeats(ctx, heats)
}

func (m *Repository) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	if m.GetHeatError != nil {
		return nil, m.GetHeatError
	}
	return m.FullRepository.GetHeat(ctx, id)
}

func (m *Repository) GetHeatByNumber(ctx context.Context, tournamentID, heatNo int) (*models.Heat, error) {
	if m.GetHeatByNumberError != nil {
		return nil, m.GetHeatByNumberError
	}
	return m.FullRepository.GetHeatByNumber(ctx, tournamentID, heatNo)
}

func (m *Repository) ListHeats(ctx context.Context, tournamentID int) ([]models.Heat, error) {
	if m.ListHeatsError != nil {
		return nil, m.ListHeatsError
	}
	return m.FullRepository.ListHeats(ctx, tournamentID)
}

func (m *Repository) ListHeatsByRound(ctx context.Context, tournamentID, round int) ([]models.Heat, error) {
	if m.ListHeatsByRoundError != nil {
		return nil, m.ListHeatsByRoundError
	}
	return m.FullRepository.ListHeatsByRound(ctx, tournamentID, round)
}

func (m *Repository) UpdateHeatStatus(ctx context.Context, id int, status models.HeatStatus) error {
	if m.UpdateHeatStatusError != nil {
		return m.UpdateHeatStatusError
	}
	return m.FullRepository.UpdateHeatStatus(ctx, id, status)
}

func (m *Repository) SetHeatStation(ctx context.Context, id int, station string) error {
	if m.SetHeatStationError != nil {
		return m.SetHeatStationError
	}
	return m.FullRepository.SetHeatStation(ctx, id, station)
}

func (m *Repository) SetHeatCompetitor(ctx context.Context, id, slot, competitorID int, cupCode string) error {
	if m.SetHeatCompetitorError != nil {
		return m.SetHeatCompetitorError
	}
	return m.FullRepository.SetHeatCompetitor(ctx, id, slot, competitorID, cupCode)
}

func (m *Repository) MarkHeatRunning(ctx context.Context, id int, startedAt time.Time) error {
	if m.MarkHeatRunningError != nil {
		return m.MarkHeatRunningError
	}
	return m.FullRepository.MarkHeatRunning(ctx, id, startedAt)
}

func (m *Repository) MarkHeatDone(ctx context.Context, id, winnerID int, endedAt time.Time) error {
	if m.MarkHeatDoneError != nil {
		return m.MarkHeatDoneError
	}
	return m.FullRepository.MarkHeatDone(ctx, id, winnerID, endedAt)
}

// ===== Sheet Methods =====

func (m *Repository) ReplaceJudgeSheet(ctx context.Context, sheet *models.JudgeSheet) error {
	if m.ReplaceJudgeSheetError != nil {
		return m.ReplaceJudgeSheetError
	}
	return m.FullRepository.ReplaceJudgeSheet(ctx, sheet)
}

func (m *Repository) ListSheetsByHeat(ctx context.Context, heatID int) ([]models.JudgeSheet, error) {
	if m.ListSheetsByHeatError != nil {
		return nil, m.ListSheetsByHeatError
	}
	return m.FullRepository.ListSheetsByHeat(ctx, heatID)
}

func (m *Repository) ListSheetsForTournament(ctx context.Context, tournamentID int) (map[int][]models.JudgeSheet, error) {
	if m.ListSheetsForTournamentError != nil {
		return nil, m.ListSheetsForTournamentError
	}
	return m.FullRepository.ListSheetsForTournament(ctx, tournamentID)
}

func (m *Repository) CountSheetsByHeat(ctx context.Context, heatID int) (int, error) {
	if m.CountSheetsByHeatError != nil {
		return 0, m.CountSheetsByHeatError
	}
	return m.FullRepository.CountSheetsByHeat(ctx, heatID)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetEventStats(ctx context.Context) (map[string]interface{}, error) {
	if m.GetEventStatsError != nil {
		return nil, m.GetEventStatsError
	}
	return m.FullRepository.GetEventStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}

// Ensure the mock satisfies the full repository contract
var _ repository.FullRepository = (*Repository)(nil)
