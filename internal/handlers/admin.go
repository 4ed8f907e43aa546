package handlers

import (
	"net/http"
	"strconv"

	"github.com/kpalsson/brewbracket/internal/services"
)

// ==================== Public Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, nil)
}

// ==================== Admin Pages ====================

func (h *Handlers) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Admin Dashboard",
		PageTitle: "Admin Dashboard",
		ActiveNav: "dashboard",
	}
	h.templates.AdminDashboard.ExecuteTemplate(w, "admin", data)
}

func (h *Handlers) handleAdminCompetitors(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Manage Competitors",
		PageTitle: "Manage Competitors",
		ActiveNav: "competitors",
	}
	h.templates.AdminCompetitors.ExecuteTemplate(w, "admin", data)
}

func (h *Handlers) handleAdminBracket(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Bracket",
		PageTitle: "Bracket",
		ActiveNav: "bracket",
	}
	h.templates.AdminBracket.ExecuteTemplate(w, "admin", data)
}

func (h *Handlers) handleAdminResults(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Results",
		PageTitle: "Results",
		ActiveNav: "results",
	}
	h.templates.AdminResults.ExecuteTemplate(w, "admin", data)
}

func (h *Handlers) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Admin Settings",
		PageTitle: "Admin Settings",
		ActiveNav: "settings",
	}
	h.templates.AdminSettings.ExecuteTemplate(w, "admin", data)
}

// ==================== Judging Control ====================

func (h *Handlers) handleSetJudgingStatus(w http.ResponseWriter, r *http.Request) {
	var req JudgingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := r.Context()
	var err error
	if req.Open {
		err = h.Settings.OpenJudging(ctx)
	} else {
		err = h.Settings.CloseJudging(ctx)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, JudgingStatusResponse{Open: req.Open})
}

func (h *Handlers) handleSetJudgingTimer(w http.ResponseWriter, r *http.Request) {
	var req JudgingTimerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	closeTimeStr, err := h.Settings.StartJudgingTimer(r.Context(), req.Minutes)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, JudgingTimerResponse{
		CloseTime: closeTimeStr,
		Minutes:   req.Minutes,
	})
}

// ==================== Stats ====================

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.GetStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, stats)
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	baseURL, _ := h.Settings.GetBaseURL(ctx)
	judgingOpen, _ := h.Settings.IsJudgingOpen(ctx)
	instructions, _ := h.Settings.GetSetting(ctx, "judging_instructions")
	timerStr, _ := h.Settings.GetSetting(ctx, "heat_timer_seconds")
	timerSeconds, _ := strconv.Atoi(timerStr)

	respondOK(w, SettingsResponse{
		BaseURL:             baseURL,
		JudgingOpen:         judgingOpen,
		JudgingInstructions: instructions,
		HeatTimerSeconds:    timerSeconds,
	})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	settings := services.Settings{
		BaseURL:             req.BaseURL,
		JudgingInstructions: req.JudgingInstructions,
		HeatTimerSeconds:    req.HeatTimerSeconds,
	}
	if err := h.Settings.UpdateSettings(r.Context(), settings); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Settings updated")
}

// ==================== Database Management ====================

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, result.Message)
}
