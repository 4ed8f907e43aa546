package handlers

import (
	"net/http"

	"github.com/kpalsson/brewbracket/internal/services"
)

// ==================== Standings & Consensus ====================

func (h *Handlers) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	standings, err := h.Standings.GetStandings(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	// Ensure we return an empty array, not null
	if standings == nil {
		standings = []services.StandingsEntry{}
	}
	respondOK(w, standings)
}

func (h *Handlers) handleGetConsensus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	consensus, err := h.Standings.GetConsensus(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, consensus)
}

func (h *Handlers) handleGetHeatScores(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	scores, err := h.Standings.GetHeatScores(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, scores)
}
