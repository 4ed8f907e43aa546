package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/kpalsson/brewbracket/internal/bracket"
	"github.com/kpalsson/brewbracket/internal/errors"
	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/repository"
)

// TournamentServiceRepository defines the repository methods needed by TournamentService
type TournamentServiceRepository interface {
	repository.TournamentRepository
	repository.CompetitorRepository
	repository.HeatRepository
}

// TournamentService handles tournament lifecycle and bracket generation
type TournamentService struct {
	log         logger.Logger
	repo        TournamentServiceRepository
	broadcaster Broadcaster
}

// NewTournamentService creates a new TournamentService
func NewTournamentService(log logger.Logger, repo TournamentServiceRepository) *TournamentService {
	return &TournamentService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *TournamentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateTournament creates a tournament in SETUP state
func (s *TournamentService) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("tournament name is required")
	}

	id, err := s.repo.CreateTournament(ctx, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("Tournament created", "tournament_id", id, "name", name)
	return s.repo.GetTournament(ctx, id)
}

// GetTournament retrieves a tournament by ID
func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetTournament(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("tournament not found")
	}
	return t, err
}

// ListTournaments returns all tournaments
func (s *TournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return s.repo.ListTournaments(ctx)
}

// CancelTournament marks a tournament CANCELLED. Completed tournaments stay
// completed.
func (s *TournamentService) CancelTournament(ctx context.Context, id int) error {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == models.TournamentCompleted {
		return errors.State("tournament is already completed")
	}
	if err := s.repo.UpdateTournamentStatus(ctx, id, models.TournamentCancelled); err != nil {
		return err
	}
	s.log.Info("Tournament cancelled", "tournament_id", id)
	return nil
}

// RegisterCompetitor registers a barista for a tournament. Only allowed
// while the tournament is in SETUP.
func (s *TournamentService) RegisterCompetitor(ctx context.Context, tournamentID int, name string) (*models.Competitor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("competitor name is required")
	}

	t, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TournamentSetup {
		return nil, errors.Statef("registration is closed, tournament is %s", t.Status)
	}

	existing, err := s.repo.ListCompetitors(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return nil, errors.Validationf("competitor %q is already registered", name)
		}
	}

	id, err := s.repo.CreateCompetitor(ctx, tournamentID, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("Competitor registered", "tournament_id", tournamentID, "competitor_id", id, "name", name)
	return s.repo.GetCompetitor(ctx, id)
}

// ListCompetitors returns a tournament's competitors in seed order
func (s *TournamentService) ListCompetitors(ctx context.Context, tournamentID int) ([]models.Competitor, error) {
	return s.repo.ListCompetitors(ctx, tournamentID)
}

// AssignSeed gives a competitor a seed. Seeds can be reassigned freely while
// the tournament is in SETUP; the bracket freezes them.
func (s *TournamentService) AssignSeed(ctx context.Context, competitorID, seed int) error {
	if seed < 1 {
		return errors.Validationf("seed must be at least 1, got %d", seed)
	}

	competitor, err := s.repo.GetCompetitor(ctx, competitorID)
	if err == repository.ErrNotFound {
		return errors.NotFound("competitor not found")
	}
	if err != nil {
		return err
	}

	t, err := s.GetTournament(ctx, competitor.TournamentID)
	if err != nil {
		return err
	}
	if t.Status != models.TournamentSetup {
		return errors.State("seeds are frozen once the bracket is built")
	}

	others, err := s.repo.ListCompetitors(ctx, competitor.TournamentID)
	if err != nil {
		return err
	}
	for _, c := range others {
		if c.ID != competitorID && c.Seed == seed {
			return errors.Validationf("seed %d is already assigned to %s", seed, c.Name)
		}
	}

	return s.repo.UpdateCompetitorSeed(ctx, competitorID, seed)
}

// RemoveCompetitor withdraws a competitor during SETUP
func (s *TournamentService) RemoveCompetitor(ctx context.Context, competitorID int) error {
	competitor, err := s.repo.GetCompetitor(ctx, competitorID)
	if err == repository.ErrNotFound {
		return errors.NotFound("competitor not found")
	}
	if err != nil {
		return err
	}

	t, err := s.GetTournament(ctx, competitor.TournamentID)
	if err != nil {
		return err
	}
	if t.Status != models.TournamentSetup {
		return errors.State("competitors cannot be removed once the bracket is built")
	}

	if err := s.repo.DeleteCompetitor(ctx, competitorID); err != nil {
		return err
	}
	s.log.Info("Competitor removed", "competitor_id", competitorID, "name", competitor.Name)
	return nil
}

// BuildBracket freezes the seeded field into a single-elimination bracket.
// Round-1 bye heats complete immediately with their winner advanced, heats
// with both slots filled start READY, and later rounds wait as PENDING
// placeholders. The whole bracket is inserted in one transaction and the
// tournament moves to ACTIVE.
func (s *TournamentService) BuildBracket(ctx context.Context, tournamentID int) ([]models.Heat, error) {
	t, err := s.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TournamentSetup {
		return nil, errors.Statef("bracket can only be built in SETUP, tournament is %s", t.Status)
	}

	existing, err := s.repo.ListHeats(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.State("bracket is already built")
	}

	competitors, err := s.repo.ListCompetitors(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	bySeed, err := seedMap(competitors)
	if err != nil {
		return nil, err
	}

	plan, err := bracket.Build(len(competitors))
	if err != nil {
		return nil, err
	}

	heats, err := s.assembleHeats(tournamentID, plan, bySeed)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateHeats(ctx, heats); err != nil {
		return nil, err
	}
	if err := s.repo.SetTournamentRounds(ctx, tournamentID, plan.Rounds); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTournamentStatus(ctx, tournamentID, models.TournamentActive); err != nil {
		return nil, err
	}

	s.log.Info("Bracket built", "tournament_id", tournamentID,
		"competitors", len(competitors), "rounds", plan.Rounds, "heats", len(heats))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsChanged(tournamentID)
	}

	result := make([]models.Heat, len(heats))
	for i, h := range heats {
		result[i] = *h
	}
	return result, nil
}

// seedMap validates that competitors carry exactly the seeds 1..N and
// indexes them by seed.
func seedMap(competitors []models.Competitor) (map[int]*models.Competitor, error) {
	n := len(competitors)
	if n < 2 {
		return nil, errors.Validationf("at least 2 competitors are required, got %d", n)
	}

	bySeed := make(map[int]*models.Competitor, n)
	for i := range competitors {
		c := &competitors[i]
		if c.Seed == 0 {
			return nil, errors.Validationf("competitor %q is not seeded", c.Name)
		}
		if c.Seed < 1 || c.Seed > n {
			return nil, errors.Validationf("seed %d for %q is out of range 1..%d", c.Seed, c.Name, n)
		}
		if other, taken := bySeed[c.Seed]; taken {
			return nil, errors.Validationf("seed %d is assigned to both %q and %q", c.Seed, other.Name, c.Name)
		}
		bySeed[c.Seed] = c
	}
	return bySeed, nil
}

// assembleHeats turns a bracket plan into persistable heats: heat numbers in
// bracket-position order, cup codes stamped on known pairings, and round-1
// byes resolved with their winner already advanced into round 2.
func (s *TournamentService) assembleHeats(tournamentID int, plan *bracket.Plan, bySeed map[int]*models.Competitor) ([]*models.Heat, error) {
	heats := make([]*models.Heat, len(plan.Heats))
	byPosition := make(map[[2]int]*models.Heat, len(plan.Heats))

	for i, hp := range plan.Heats {
		h := &models.Heat{
			TournamentID: tournamentID,
			Round:        hp.Round,
			HeatNo:       i + 1,
			Status:       models.HeatPending,
		}
		if c := bySeed[hp.Seed1]; c != nil {
			h.Competitor1ID = &c.ID
			h.Cup1Code = newCupCode(h.Cup2Code)
		}
		if c := bySeed[hp.Seed2]; c != nil {
			h.Competitor2ID = &c.ID
			h.Cup2Code = newCupCode(h.Cup1Code)
		}
		if h.Competitor1ID != nil && h.Competitor2ID != nil {
			h.Status = models.HeatReady
		}
		heats[i] = h
		byPosition[[2]int{hp.Round, hp.Index}] = h
	}

	// Resolve byes: the lone competitor wins without judging and moves
	// straight into the next round.
	for i, hp := range plan.Heats {
		h := heats[i]
		if hp.Round != 1 || !h.IsBye() {
			continue
		}

		winnerID := h.Competitor1ID
		if winnerID == nil {
			winnerID = h.Competitor2ID
		}
		h.Status = models.HeatDone
		h.WinnerID = winnerID

		nextRound, nextIndex, slot := bracket.NextSlot(hp.Round, hp.Index)
		next := byPosition[[2]int{nextRound, nextIndex}]
		if next == nil {
			return nil, errors.Consistencyf("bye heat %d has no next-round heat", h.HeatNo)
		}
		if slot == 1 {
			next.Competitor1ID = winnerID
			next.Cup1Code = newCupCode(next.Cup2Code)
		} else {
			next.Competitor2ID = winnerID
			next.Cup2Code = newCupCode(next.Cup1Code)
		}
		if next.Competitor1ID != nil && next.Competitor2ID != nil {
			next.Status = models.HeatReady
		}
	}

	return heats, nil
}

// cupCodeCharset avoids lookalike characters so codes survive being read
// aloud on the competition floor.
const cupCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newCupCode generates a short anonymized cup code distinct from the given
// sibling code.
func newCupCode(avoid string) string {
	for {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms; fall back to a
			// positional code rather than returning an error nobody can act on
			return fmt.Sprintf("CUP%d", len(avoid)+1)
		}
		code := make([]byte, 4)
		for i, b := range buf {
			code[i] = cupCodeCharset[int(b)%len(cupCodeCharset)]
		}
		if string(code) != avoid {
			return string(code)
		}
	}
}
