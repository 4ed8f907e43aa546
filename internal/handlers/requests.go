package handlers

// TournamentCreateRequest represents a request to create a tournament
type TournamentCreateRequest struct {
	Name string `json:"name"`
}

// CompetitorCreateRequest represents a request to register a competitor
type CompetitorCreateRequest struct {
	Name string `json:"name"`
}

// SeedAssignRequest represents a request to assign a competitor's seed
type SeedAssignRequest struct {
	Seed int `json:"seed"`
}

// StationAssignRequest represents a request to assign a heat to a station
type StationAssignRequest struct {
	Station string `json:"station"`
}

// JudgeSheetRequest represents one judge's full sheet for a heat
type JudgeSheetRequest struct {
	JudgeName string            `json:"judge_name"`
	Beverage  string            `json:"beverage"`
	LeftCup   string            `json:"left_cup"`
	RightCup  string            `json:"right_cup"`
	Votes     JudgeVotesRequest `json:"votes"`
}

// JudgeVotesRequest carries the per-category left/right votes
type JudgeVotesRequest struct {
	VisualLatteArt *string `json:"visualLatteArt,omitempty"`
	Taste          string  `json:"taste"`
	Tactile        string  `json:"tactile"`
	Flavour        string  `json:"flavour"`
	Overall        string  `json:"overall"`
}

// JudgingStatusRequest represents a request to open or close judging
type JudgingStatusRequest struct {
	Open bool `json:"open"`
}

// JudgingTimerRequest represents a request to start a judging timer
type JudgingTimerRequest struct {
	Minutes int `json:"minutes"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	BaseURL             string `json:"base_url"`
	JudgingInstructions string `json:"judging_instructions"`
	HeatTimerSeconds    *int   `json:"heat_timer_seconds"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
