package handlers

// JudgingStatusResponse is the response for judging status changes
type JudgingStatusResponse struct {
	Open bool `json:"open"`
}

// JudgingTimerResponse is the response for setting a judging timer
type JudgingTimerResponse struct {
	CloseTime string `json:"close_time"`
	Minutes   int    `json:"minutes"`
}

// SettingsResponse is the response for settings
type SettingsResponse struct {
	BaseURL             string `json:"base_url"`
	JudgingOpen         bool   `json:"judging_open"`
	JudgingInstructions string `json:"judging_instructions,omitempty"`
	HeatTimerSeconds    int    `json:"heat_timer_seconds"`
}
