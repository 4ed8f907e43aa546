package services

import (
	"context"
	"sync"
	"testing"

	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/repository"
	"github.com/kpalsson/brewbracket/internal/testutil"
)

// fakeBroadcaster records broadcast calls for assertions
type fakeBroadcaster struct {
	mu             sync.Mutex
	judgingEvents  []bool
	heatEvents     []models.Heat
	standingsPings []int
}

func (f *fakeBroadcaster) BroadcastJudgingStatus(open bool, closeTime string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.judgingEvents = append(f.judgingEvents, open)
}

func (f *fakeBroadcaster) BroadcastHeatUpdate(heat *models.Heat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heatEvents = append(f.heatEvents, *heat)
}

func (f *fakeBroadcaster) BroadcastStandingsChanged(tournamentID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.standingsPings = append(f.standingsPings, tournamentID)
}

// testServices wires the full service stack over an in-memory repository
type testServices struct {
	repo       *repository.Repository
	tournament *TournamentService
	heat       *HeatService
	standings  *StandingsService
	settings   *SettingsService
	broadcast  *fakeBroadcaster
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()
	broadcast := &fakeBroadcaster{}

	settings := NewSettingsService(log, repo)
	settings.SetBroadcaster(broadcast)

	tournament := NewTournamentService(log, repo)
	tournament.SetBroadcaster(broadcast)

	heat := NewHeatService(log, repo, settings)
	heat.SetBroadcaster(broadcast)

	standings := NewStandingsService(log, repo)

	return &testServices{
		repo:       repo,
		tournament: tournament,
		heat:       heat,
		standings:  standings,
		settings:   settings,
		broadcast:  broadcast,
	}
}

// seededTournament creates a tournament with n competitors seeded 1..n
func seededTournament(t *testing.T, ts *testServices, names ...string) (int, []models.Competitor) {
	t.Helper()
	ctx := context.Background()

	tournament, err := ts.tournament.CreateTournament(ctx, "Test Throwdown")
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}

	competitors := make([]models.Competitor, 0, len(names))
	for i, name := range names {
		c, err := ts.tournament.RegisterCompetitor(ctx, tournament.ID, name)
		if err != nil {
			t.Fatalf("RegisterCompetitor(%s) failed: %v", name, err)
		}
		if err := ts.tournament.AssignSeed(ctx, c.ID, i+1); err != nil {
			t.Fatalf("AssignSeed(%s, %d) failed: %v", name, i+1, err)
		}
		c.Seed = i + 1
		competitors = append(competitors, *c)
	}
	return tournament.ID, competitors
}

// builtBracket creates a seeded tournament and builds its bracket
func builtBracket(t *testing.T, ts *testServices, names ...string) (int, []models.Heat) {
	t.Helper()

	tid, _ := seededTournament(t, ts, names...)
	heats, err := ts.tournament.BuildBracket(context.Background(), tid)
	if err != nil {
		t.Fatalf("BuildBracket failed: %v", err)
	}
	return tid, heats
}

// winningSheet builds a sheet from the given judge awarding every category
// to the competitor in the given slot of the heat
func winningSheet(heat *models.Heat, judge string, slot int) *models.JudgeSheet {
	side := models.SideLeft
	if slot == 2 {
		side = models.SideRight
	}
	return &models.JudgeSheet{
		HeatID:    heat.ID,
		JudgeName: judge,
		Beverage:  models.Espresso,
		LeftCup:   heat.Cup1Code,
		RightCup:  heat.Cup2Code,
		Votes: models.CategoryVotes{
			Taste:   side,
			Tactile: side,
			Flavour: side,
			Overall: side,
		},
	}
}

// runHeat starts a heat, submits one decisive sheet for the given slot, and
// completes it
func runHeat(t *testing.T, ts *testServices, heatID, winnerSlot int) *HeatResult {
	t.Helper()
	ctx := context.Background()

	heat, err := ts.heat.StartHeat(ctx, heatID)
	if err != nil {
		t.Fatalf("StartHeat(%d) failed: %v", heatID, err)
	}
	if err := ts.heat.SubmitJudgeVotes(ctx, heatID, winningSheet(heat, "Dana", winnerSlot)); err != nil {
		t.Fatalf("SubmitJudgeVotes(%d) failed: %v", heatID, err)
	}
	result, err := ts.heat.CompleteHeat(ctx, heatID)
	if err != nil {
		t.Fatalf("CompleteHeat(%d) failed: %v", heatID, err)
	}
	return result
}
