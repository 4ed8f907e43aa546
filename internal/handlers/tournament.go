package handlers

import (
	"net/http"
)

// ==================== Tournaments ====================

func (h *Handlers) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.Tournament.ListTournaments(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, tournaments)
}

func (h *Handlers) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	tournament, err := h.Tournament.GetTournament(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, tournament)
}

func (h *Handlers) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req TournamentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	tournament, err := h.Tournament.CreateTournament(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, tournament)
}

func (h *Handlers) handleCancelTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Tournament.CancelTournament(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Competitors ====================

func (h *Handlers) handleListCompetitors(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	competitors, err := h.Tournament.ListCompetitors(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, competitors)
}

func (h *Handlers) handleRegisterCompetitor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CompetitorCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	competitor, err := h.Tournament.RegisterCompetitor(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, competitor)
}

func (h *Handlers) handleAssignSeed(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req SeedAssignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Tournament.AssignSeed(r.Context(), id, req.Seed); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"competitor_id": id,
		"seed":          req.Seed,
	})
}

func (h *Handlers) handleRemoveCompetitor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Tournament.RemoveCompetitor(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Bracket ====================

func (h *Handlers) handleBuildBracket(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	heats, err := h.Tournament.BuildBracket(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, heats)
}
