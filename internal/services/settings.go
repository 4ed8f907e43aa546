package services

import (
	"context"
	"strconv"
	"time"

	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/repository"
)

// Broadcaster defines the interface for pushing live updates to clients
type Broadcaster interface {
	BroadcastJudgingStatus(open bool, closeTime string)
	BroadcastHeatUpdate(heat *models.Heat)
	BroadcastStandingsChanged(tournamentID int)
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	log         logger.Logger
	repo        repository.SettingsRepository
	broadcaster Broadcaster
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SettingsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// IsJudgingOpen checks if judges may currently submit sheets
func (s *SettingsService) IsJudgingOpen(ctx context.Context) (bool, error) {
	value, err := s.repo.GetSetting(ctx, "judging_open")
	if err != nil {
		if err == repository.ErrNotFound {
			return true, nil // Default to open if setting doesn't exist
		}
		return false, err // Propagate database errors
	}
	return value == "true", nil
}

// SetJudgingOpen sets the judging open status
func (s *SettingsService) SetJudgingOpen(ctx context.Context, open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	return s.repo.SetSetting(ctx, "judging_open", value)
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, "base_url")
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, "base_url", url)
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// GetTimerEndTime returns the countdown end timestamp (Unix seconds).
// The countdown is display only; expiry never changes heat state.
func (s *SettingsService) GetTimerEndTime(ctx context.Context) (int64, error) {
	value, err := s.repo.GetSetting(ctx, "timer_end")
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, nil // No timer set
		}
		return 0, err // Propagate database errors
	}
	endTime, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil // Invalid value, treat as no timer
	}
	return endTime, nil
}

// SetTimerEndTime sets the countdown end timestamp
func (s *SettingsService) SetTimerEndTime(ctx context.Context, endTime int64) error {
	return s.repo.SetSetting(ctx, "timer_end", strconv.FormatInt(endTime, 10))
}

// ClearTimer clears the countdown
func (s *SettingsService) ClearTimer(ctx context.Context) error {
	return s.repo.SetSetting(ctx, "timer_end", "0")
}

// AllSettings returns commonly used settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	judgingOpen, _ := s.IsJudgingOpen(ctx)
	settings["judging_open"] = judgingOpen

	baseURL, _ := s.GetBaseURL(ctx)
	settings["base_url"] = baseURL

	timerEnd, _ := s.GetTimerEndTime(ctx)
	settings["timer_end"] = timerEnd

	instructions, _ := s.GetSetting(ctx, "judging_instructions")
	settings["judging_instructions"] = instructions

	return settings, nil
}

// OpenJudging opens judging and broadcasts the status change
func (s *SettingsService) OpenJudging(ctx context.Context) error {
	if err := s.SetJudgingOpen(ctx, true); err != nil {
		return err
	}
	s.broadcast(true, "")
	return nil
}

// CloseJudging closes judging, clears the countdown, and broadcasts the status change
func (s *SettingsService) CloseJudging(ctx context.Context) error {
	if err := s.SetJudgingOpen(ctx, false); err != nil {
		return err
	}
	s.ClearTimer(ctx)
	s.SetSetting(ctx, "judging_close_time", "")
	s.broadcast(false, "")
	return nil
}

// StartJudgingTimer starts a judging countdown for the specified minutes,
// opens judging, and broadcasts. The countdown is presentational only.
func (s *SettingsService) StartJudgingTimer(ctx context.Context, minutes int) (string, error) {
	if minutes <= 0 || minutes > 60 {
		return "", ErrInvalidTimerMinutes
	}

	closeTime := time.Now().Add(time.Duration(minutes) * time.Minute)
	closeTimeStr := closeTime.Format(time.RFC3339)

	if err := s.SetSetting(ctx, "judging_close_time", closeTimeStr); err != nil {
		return "", err
	}
	if err := s.SetTimerEndTime(ctx, closeTime.Unix()); err != nil {
		return "", err
	}

	if err := s.SetJudgingOpen(ctx, true); err != nil {
		return "", err
	}

	s.broadcast(true, closeTimeStr)
	return closeTimeStr, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL             string
	JudgingInstructions string
	HeatTimerSeconds    *int
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.JudgingInstructions != "" {
		if err := s.SetSetting(ctx, "judging_instructions", settings.JudgingInstructions); err != nil {
			return err
		}
	}
	if settings.HeatTimerSeconds != nil {
		if err := s.SetSetting(ctx, "heat_timer_seconds", strconv.Itoa(*settings.HeatTimerSeconds)); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string
	Message string
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"judge_sheets": true, "heats": true, "competitors": true, "tournaments": true, "settings": true,
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	// Validate tables
	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		tablesToReset = append(tablesToReset, table)
	}

	// Dependent tables have to go first: heats reference competitors and
	// tournaments, sheets reference heats
	needsHeatsCleared := containsTable(tablesToReset, "competitors") || containsTable(tablesToReset, "tournaments")
	if needsHeatsCleared && !containsTable(tablesToReset, "heats") {
		tablesToReset = append([]string{"heats"}, tablesToReset...)
	}
	if containsTable(tablesToReset, "heats") && !containsTable(tablesToReset, "judge_sheets") {
		tablesToReset = append([]string{"judge_sheets"}, tablesToReset...)
	}

	// Close judging if scoring data or settings are being reset
	if containsTable(tablesToReset, "judge_sheets") || containsTable(tablesToReset, "settings") {
		s.SetJudgingOpen(ctx, false)
		s.ClearTimer(ctx)
	}

	// Delete data from each table
	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}

	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}

func containsTable(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetStats returns overall event statistics
func (s *SettingsService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetEventStats(ctx)
}

// broadcast sends judging status to all connected clients
func (s *SettingsService) broadcast(open bool, closeTime string) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastJudgingStatus(open, closeTime)
	}
}
