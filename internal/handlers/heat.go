package handlers

import (
	"net/http"

	"github.com/kpalsson/brewbracket/internal/models"
)

// ==================== Judge Page ====================

// handleJudgePage serves the per-heat scoring page judges reach by QR code
func (h *Handlers) handleJudgePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	heat, err := h.Heat.GetHeat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	data := map[string]interface{}{
		"HeatID":   heat.ID,
		"HeatNo":   heat.HeatNo,
		"Cup1Code": heat.Cup1Code,
		"Cup2Code": heat.Cup2Code,
	}
	h.templates.Judge.Execute(w, data)
}

// ==================== Heats ====================

func (h *Handlers) handleGetHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	heat, err := h.Heat.GetHeat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heat)
}

func (h *Handlers) handleListHeats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	heats, err := h.Heat.ListHeats(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heats)
}

func (h *Handlers) handleStartHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	heat, err := h.Heat.StartHeat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heat)
}

func (h *Handlers) handleCompleteHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Heat.CompleteHeat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleCancelHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Heat.CancelHeat(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Heat cancelled")
}

func (h *Handlers) handleAssignStation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req StationAssignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Heat.AssignStation(r.Context(), id, req.Station); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"heat_id": id,
		"station": req.Station,
	})
}

// ==================== Judge Votes ====================

func (h *Handlers) handleSubmitJudgeVotes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req JudgeSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	sheet := &models.JudgeSheet{
		HeatID:    id,
		JudgeName: req.JudgeName,
		Beverage:  models.Beverage(req.Beverage),
		LeftCup:   req.LeftCup,
		RightCup:  req.RightCup,
		Votes: models.CategoryVotes{
			Taste:   models.Side(req.Votes.Taste),
			Tactile: models.Side(req.Votes.Tactile),
			Flavour: models.Side(req.Votes.Flavour),
			Overall: models.Side(req.Votes.Overall),
		},
	}
	if req.Votes.VisualLatteArt != nil {
		side := models.Side(*req.Votes.VisualLatteArt)
		sheet.Votes.VisualLatteArt = &side
	}

	if err := h.Heat.SubmitJudgeVotes(r.Context(), id, sheet); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"heat_id":    id,
		"judge_name": req.JudgeName,
		"beverage":   req.Beverage,
	})
}

// ==================== QR Codes ====================

func (h *Handlers) handleGetJudgeQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Heat.GenerateJudgeQR(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
