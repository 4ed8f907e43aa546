package handlers_test

import (
	"net/http"
	"testing"

	"github.com/kpalsson/brewbracket/internal/models"
)

func TestHandleCreateTournament_Success(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"Spring Throwdown"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var tournament models.Tournament
	decodeBody(t, rr, &tournament)
	if tournament.Name != "Spring Throwdown" {
		t.Errorf("expected name saved, got %q", tournament.Name)
	}
	if tournament.Status != models.TournamentSetup {
		t.Errorf("expected SETUP status, got %s", tournament.Status)
	}
}

func TestHandleCreateTournament_EmptyName(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"  "}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestHandleCreateTournament_Unauthorized(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.request(http.MethodPost, "/api/admin/tournaments", `{"name":"Nope"}`)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", rr.Code)
	}
}

func TestHandleRegisterCompetitor_Success(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"Test"}`)
	var tournament models.Tournament
	decodeBody(t, rr, &tournament)

	rr = setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+itoa(tournament.ID)+"/competitors", `{"name":"Ana"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var competitor models.Competitor
	decodeBody(t, rr, &competitor)
	if competitor.Name != "Ana" || competitor.Seed != 0 {
		t.Errorf("expected unseeded Ana, got %+v", competitor)
	}
}

func TestHandleRegisterCompetitor_UnknownTournament(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments/999/competitors", `{"name":"Ana"}`)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleAssignSeed_And_BuildBracket(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"Test"}`)
	var tournament models.Tournament
	decodeBody(t, rr, &tournament)
	tid := itoa(tournament.ID)

	var ids []int
	for _, name := range []string{"Ana", "Bob", "Cleo", "Dan"} {
		rr = setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/competitors", `{"name":"`+name+`"}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d", name, rr.Code)
		}
		var c models.Competitor
		decodeBody(t, rr, &c)
		ids = append(ids, c.ID)
	}
	for i, id := range ids {
		rr = setup.adminRequest(http.MethodPut, "/api/admin/competitors/"+itoa(id)+"/seed", `{"seed":`+itoa(i+1)+`}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("seed %d: expected 200, got %d: %s", i+1, rr.Code, rr.Body.String())
		}
	}

	rr = setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/bracket", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var heats []models.Heat
	decodeBody(t, rr, &heats)
	if len(heats) != 3 {
		t.Fatalf("expected 3 heats, got %d", len(heats))
	}

	// Rebuilding is a state conflict
	rr = setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/bracket", "")
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409 on rebuild, got %d", rr.Code)
	}
}

func TestHandleBuildBracket_UnseededCompetitor(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"Test"}`)
	var tournament models.Tournament
	decodeBody(t, rr, &tournament)
	tid := itoa(tournament.ID)

	setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/competitors", `{"name":"Ana"}`)
	setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/competitors", `{"name":"Bob"}`)

	rr = setup.adminRequest(http.MethodPost, "/api/admin/tournaments/"+tid+"/bracket", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unseeded competitors, got %d", rr.Code)
	}
}

func TestHandleListHeats_Public(t *testing.T) {
	setup := newTestSetup(t)
	tid, _ := setup.builtBracket(t, "Ana", "Bob", "Cleo", "Dan")

	rr := setup.request(http.MethodGet, "/api/tournaments/"+itoa(tid)+"/heats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var heats []models.Heat
	decodeBody(t, rr, &heats)
	if len(heats) != 3 {
		t.Errorf("expected 3 heats, got %d", len(heats))
	}
}

func TestHandleCancelTournament(t *testing.T) {
	setup := newTestSetup(t)

	rr := setup.adminRequest(http.MethodPost, "/api/admin/tournaments", `{"name":"Test"}`)
	var tournament models.Tournament
	decodeBody(t, rr, &tournament)

	rr = setup.adminRequest(http.MethodDelete, "/api/admin/tournaments/"+itoa(tournament.ID), "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	rr = setup.request(http.MethodGet, "/api/tournaments/"+itoa(tournament.ID), "")
	var got models.Tournament
	decodeBody(t, rr, &got)
	if got.Status != models.TournamentCancelled {
		t.Errorf("expected CANCELLED, got %s", got.Status)
	}
}

func TestHandleRemoveCompetitor_AfterBracket(t *testing.T) {
	setup := newTestSetup(t)
	_, heats := setup.builtBracket(t, "Ana", "Bob")

	rr := setup.adminRequest(http.MethodDelete, "/api/admin/competitors/"+itoa(*heats[0].Competitor1ID), "")
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}
