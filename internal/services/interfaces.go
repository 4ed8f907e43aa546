package services

import (
	"context"

	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/scoring"
)

// TournamentServicer defines the interface for tournament lifecycle operations
type TournamentServicer interface {
	CreateTournament(ctx context.Context, name string) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	CancelTournament(ctx context.Context, id int) error
	RegisterCompetitor(ctx context.Context, tournamentID int, name string) (*models.Competitor, error)
	ListCompetitors(ctx context.Context, tournamentID int) ([]models.Competitor, error)
	AssignSeed(ctx context.Context, competitorID, seed int) error
	RemoveCompetitor(ctx context.Context, competitorID int) error
	BuildBracket(ctx context.Context, tournamentID int) ([]models.Heat, error)
	SetBroadcaster(b Broadcaster)
}

// HeatServicer defines the interface for heat operations
type HeatServicer interface {
	GetHeat(ctx context.Context, id int) (*models.Heat, error)
	ListHeats(ctx context.Context, tournamentID int) ([]models.Heat, error)
	AssignStation(ctx context.Context, heatID int, station string) error
	StartHeat(ctx context.Context, heatID int) (*models.Heat, error)
	CancelHeat(ctx context.Context, heatID int) error
	SubmitJudgeVotes(ctx context.Context, heatID int, sheet *models.JudgeSheet) error
	CompleteHeat(ctx context.Context, heatID int) (*HeatResult, error)
	GenerateJudgeQR(ctx context.Context, heatID int) ([]byte, error)
	SetBroadcaster(b Broadcaster)
}

// StandingsServicer defines the interface for leaderboard and score views
type StandingsServicer interface {
	GetStandings(ctx context.Context, tournamentID int) ([]StandingsEntry, error)
	GetConsensus(ctx context.Context, heatID int) ([]scoring.CategoryConsensus, error)
	GetHeatScores(ctx context.Context, heatID int) (*HeatScores, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	IsJudgingOpen(ctx context.Context) (bool, error)
	SetJudgingOpen(ctx context.Context, open bool) error
	OpenJudging(ctx context.Context) error
	CloseJudging(ctx context.Context) error
	StartJudgingTimer(ctx context.Context, minutes int) (string, error)
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetTimerEndTime(ctx context.Context) (int64, error)
	SetTimerEndTime(ctx context.Context, endTime int64) error
	ClearTimer(ctx context.Context) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
	GetStats(ctx context.Context) (map[string]interface{}, error)
	SetBroadcaster(b Broadcaster)
}

// Ensure concrete types implement interfaces
var (
	_ TournamentServicer = (*TournamentService)(nil)
	_ HeatServicer       = (*HeatService)(nil)
	_ StandingsServicer  = (*StandingsService)(nil)
	_ SettingsServicer   = (*SettingsService)(nil)
)
