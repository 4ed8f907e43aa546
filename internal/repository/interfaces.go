package repository

import (
	"context"
	"time"

	"github.com/kpalsson/brewbracket/internal/models"
)

// TournamentRepository defines tournament data operations
type TournamentRepository interface {
	CreateTournament(ctx context.Context, name string) (int, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	UpdateTournamentStatus(ctx context.Context, id int, status models.TournamentStatus) error
	SetTournamentRounds(ctx context.Context, id, totalRounds int) error
	SetTournamentCurrentRound(ctx context.Context, id, round int) error
}

// CompetitorRepository defines competitor data operations
type CompetitorRepository interface {
	CreateCompetitor(ctx context.Context, tournamentID int, name string) (int, error)
	GetCompetitor(ctx context.Context, id int) (*models.Competitor, error)
	ListCompetitors(ctx context.Context, tournamentID int) ([]models.Competitor, error)
	UpdateCompetitorSeed(ctx context.Context, id, seed int) error
	SetCompetitorFinalRank(ctx context.Context, id, rank int) error
	DeleteCompetitor(ctx context.Context, id int) error
}

// HeatRepository defines heat data operations
type HeatRepository interface {
	CreateHeats(ctx context.Context, heats []*models.Heat) error
	GetHeat(ctx context.Context, id int) (*models.Heat, error)
	GetHeatByNumber(ctx context.Context, tournamentID, heatNo int) (*models.Heat, error)
	ListHeats(ctx context.Context, tournamentID int) ([]models.Heat, error)
	ListHeatsByRound(ctx context.Context, tournamentID, round int) ([]models.Heat, error)
	UpdateHeatStatus(ctx context.Context, id int, status models.HeatStatus) error
	SetHeatStation(ctx context.Context, id int, station string) error
	SetHeatCompetitor(ctx context.Context, id, slot, competitorID int, cupCode string) error
	MarkHeatRunning(ctx context.Context, id int, startedAt time.Time) error
	MarkHeatDone(ctx context.Context, id, winnerID int, endedAt time.Time) error
}

// SheetRepository defines judge sheet data operations
type SheetRepository interface {
	ReplaceJudgeSheet(ctx context.Context, sheet *models.JudgeSheet) error
	ListSheetsByHeat(ctx context.Context, heatID int) ([]models.JudgeSheet, error)
	ListSheetsForTournament(ctx context.Context, tournamentID int) (map[int][]models.JudgeSheet, error)
	CountSheetsByHeat(ctx context.Context, heatID int) (int, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetEventStats(ctx context.Context) (map[string]interface{}, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TournamentRepository
	CompetitorRepository
	HeatRepository
	SheetRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
