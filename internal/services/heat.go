package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/kpalsson/brewbracket/internal/bracket"
	"github.com/kpalsson/brewbracket/internal/errors"
	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/repository"
	"github.com/kpalsson/brewbracket/internal/scoring"
)

// HeatServiceRepository defines the repository methods needed by HeatService
type HeatServiceRepository interface {
	repository.TournamentRepository
	repository.CompetitorRepository
	repository.HeatRepository
	repository.SheetRepository
}

// HeatService handles running heats: starting, judge sheet intake,
// completion and winner advancement
type HeatService struct {
	log         logger.Logger
	repo        HeatServiceRepository
	settings    SettingsServicer
	broadcaster Broadcaster
}

// NewHeatService creates a new HeatService
func NewHeatService(log logger.Logger, repo HeatServiceRepository, settings SettingsServicer) *HeatService {
	return &HeatService{log: log, repo: repo, settings: settings}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *HeatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetHeat retrieves a heat by ID
func (s *HeatService) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	heat, err := s.repo.GetHeat(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("heat not found")
	}
	return heat, err
}

// ListHeats returns all of a tournament's heats in heat-number order
func (s *HeatService) ListHeats(ctx context.Context, tournamentID int) ([]models.Heat, error) {
	return s.repo.ListHeats(ctx, tournamentID)
}

// AssignStation sets the espresso machine station for a heat
func (s *HeatService) AssignStation(ctx context.Context, heatID int, station string) error {
	station = strings.TrimSpace(station)
	if station == "" {
		return errors.Validation("station is required")
	}

	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return err
	}
	if heat.Status == models.HeatDone || heat.Status == models.HeatCancelled {
		return errors.Statef("heat %d is already %s", heat.HeatNo, heat.Status)
	}

	return s.repo.SetHeatStation(ctx, heatID, station)
}

// StartHeat moves a READY heat to RUNNING and stamps the start time
func (s *HeatService) StartHeat(ctx context.Context, heatID int) (*models.Heat, error) {
	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}
	if heat.Status != models.HeatReady {
		return nil, errors.Statef("heat %d cannot start from %s", heat.HeatNo, heat.Status)
	}
	if heat.Competitor1ID == nil || heat.Competitor2ID == nil {
		return nil, errors.Consistencyf("heat %d is READY with an empty competitor slot", heat.HeatNo)
	}

	if err := s.repo.MarkHeatRunning(ctx, heatID, time.Now()); err != nil {
		return nil, err
	}

	heat, err = s.GetHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}
	s.log.Info("Heat started", "heat_id", heatID, "heat_no", heat.HeatNo, "round", heat.Round)
	s.broadcastHeat(heat)
	return heat, nil
}

// CancelHeat marks a heat CANCELLED. Heats are never deleted, and a
// finished heat stays finished.
func (s *HeatService) CancelHeat(ctx context.Context, heatID int) error {
	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return err
	}
	if heat.Status == models.HeatDone {
		return errors.Statef("heat %d is already done", heat.HeatNo)
	}
	if heat.Status == models.HeatCancelled {
		return nil
	}

	if err := s.repo.UpdateHeatStatus(ctx, heatID, models.HeatCancelled); err != nil {
		return err
	}
	heat.Status = models.HeatCancelled
	s.log.Info("Heat cancelled", "heat_id", heatID, "heat_no", heat.HeatNo)
	s.broadcastHeat(heat)
	return nil
}

// SubmitJudgeVotes stores one judge's sheet for a running heat. A
// resubmission by the same judge replaces the earlier sheet as a unit,
// whatever beverage either sheet carries; a judge never holds two sheets
// for one heat.
func (s *HeatService) SubmitJudgeVotes(ctx context.Context, heatID int, sheet *models.JudgeSheet) error {
	open, err := s.settings.IsJudgingOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		return ErrJudgingClosed
	}

	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return err
	}
	if heat.IsBye() {
		return errors.Statef("heat %d is a bye and takes no scores", heat.HeatNo)
	}
	if heat.Status != models.HeatRunning {
		return errors.Statef("heat %d is not accepting scores, status is %s", heat.HeatNo, heat.Status)
	}

	sheet.HeatID = heatID
	if err := scoring.ValidateSheet(sheet); err != nil {
		return err
	}

	// The sheet's cups must be this heat's two cups in some order. Anything
	// else means the judge was served the wrong tray.
	cups := scoring.CupAssignment{Cup1: heat.Cup1Code, Cup2: heat.Cup2Code}
	matches := (sheet.LeftCup == cups.Cup1 && sheet.RightCup == cups.Cup2) ||
		(sheet.LeftCup == cups.Cup2 && sheet.RightCup == cups.Cup1)
	if !matches {
		return errors.Consistencyf("sheet cups %q/%q do not belong to heat %d",
			sheet.LeftCup, sheet.RightCup, heat.HeatNo)
	}

	if err := s.repo.ReplaceJudgeSheet(ctx, sheet); err != nil {
		return err
	}

	s.log.Info("Judge sheet recorded", "heat_id", heatID, "heat_no", heat.HeatNo,
		"judge", sheet.JudgeName, "beverage", sheet.Beverage)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsChanged(heat.TournamentID)
	}
	return nil
}

// HeatResult describes the outcome of completing a heat
type HeatResult struct {
	HeatID              int                `json:"heat_id"`
	WinnerID            int                `json:"winner_id"`
	Totals              scoring.HeatTotals `json:"totals"`
	NextHeatID          *int               `json:"next_heat_id,omitempty"`
	NextHeatReady       bool               `json:"next_heat_ready"`
	TournamentCompleted bool               `json:"tournament_completed"`
	AlreadyDone         bool               `json:"already_done"`
}

// CompleteHeat settles a running heat: aggregates the judge sheets,
// determines the winner, advances them into the next round, and finishes
// the tournament when the final falls. Calling it again on a DONE heat is a
// no-op as long as the sheets still name the same winner; a different
// winner means the stored bracket contradicts the scores and is surfaced as
// a Consistency error.
func (s *HeatService) CompleteHeat(ctx context.Context, heatID int) (*HeatResult, error) {
	heat, err := s.GetHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}

	if heat.Status == models.HeatDone && heat.IsBye() {
		// Byes complete at bracket build time and carry no sheets
		return &HeatResult{HeatID: heatID, WinnerID: *heat.WinnerID, AlreadyDone: true}, nil
	}
	if heat.Status != models.HeatRunning && heat.Status != models.HeatDone {
		return nil, errors.Statef("heat %d cannot complete from %s", heat.HeatNo, heat.Status)
	}
	if heat.Competitor1ID == nil || heat.Competitor2ID == nil {
		return nil, errors.Consistencyf("heat %d is %s with an empty competitor slot", heat.HeatNo, heat.Status)
	}

	sheets, err := s.repo.ListSheetsByHeat(ctx, heatID)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, errors.Statef("heat %d has no judge sheets", heat.HeatNo)
	}

	cups := scoring.CupAssignment{Cup1: heat.Cup1Code, Cup2: heat.Cup2Code}
	totals, err := scoring.Aggregate(cups, sheets)
	if err != nil {
		s.logConsistency(err, "heat_id", heatID)
		return nil, err
	}

	winnerSlot, err := s.decideWinnerSlot(heat, cups, sheets, totals)
	if err != nil {
		return nil, err
	}
	winnerID := *heat.Competitor1ID
	if winnerSlot == 2 {
		winnerID = *heat.Competitor2ID
	}

	if heat.Status == models.HeatDone {
		if heat.WinnerID != nil && *heat.WinnerID == winnerID {
			return &HeatResult{HeatID: heatID, WinnerID: winnerID, Totals: totals, AlreadyDone: true}, nil
		}
		err := errors.Consistencyf("heat %d is done with winner %v but sheets now name %d",
			heat.HeatNo, heat.WinnerID, winnerID)
		s.logConsistency(err, "heat_id", heatID)
		return nil, err
	}

	if err := s.repo.MarkHeatDone(ctx, heatID, winnerID, time.Now()); err != nil {
		return nil, err
	}
	heat.Status = models.HeatDone
	heat.WinnerID = &winnerID

	result := &HeatResult{HeatID: heatID, WinnerID: winnerID, Totals: totals}
	if err := s.advanceWinner(ctx, heat, winnerID, result); err != nil {
		return nil, err
	}

	s.log.Info("Heat completed", "heat_id", heatID, "heat_no", heat.HeatNo,
		"winner_id", winnerID, "slot1_points", totals.Slot1, "slot2_points", totals.Slot2)
	s.broadcastHeat(heat)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStandingsChanged(heat.TournamentID)
	}
	return result, nil
}

// decideWinnerSlot picks the winning slot from the point totals. A total
// tie falls back to the overall-category consensus; a tie there too cannot
// be settled by software.
func (s *HeatService) decideWinnerSlot(heat *models.Heat, cups scoring.CupAssignment, sheets []models.JudgeSheet, totals scoring.HeatTotals) (int, error) {
	switch {
	case totals.Slot1 > totals.Slot2:
		return 1, nil
	case totals.Slot2 > totals.Slot1:
		return 2, nil
	}

	rows, err := scoring.Consensus(cups, sheets)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if row.Category == models.Overall && row.WinnerSlot != 0 {
			s.log.Info("Heat tie broken by overall votes", "heat_no", heat.HeatNo,
				"winner_slot", row.WinnerSlot)
			return row.WinnerSlot, nil
		}
	}
	return 0, errors.Statef("heat %d is tied on points and overall votes, head judge must adjudicate", heat.HeatNo)
}

// advanceWinner places the winner into the next round, or closes out the
// tournament if this was the final.
func (s *HeatService) advanceWinner(ctx context.Context, heat *models.Heat, winnerID int, result *HeatResult) error {
	roundHeats, err := s.repo.ListHeatsByRound(ctx, heat.TournamentID, heat.Round)
	if err != nil {
		return err
	}
	index := -1
	for i, h := range roundHeats {
		if h.ID == heat.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return errors.Consistencyf("heat %d is missing from round %d", heat.HeatNo, heat.Round)
	}

	nextRound, nextIndex, slot := bracket.NextSlot(heat.Round, index)
	nextHeats, err := s.repo.ListHeatsByRound(ctx, heat.TournamentID, nextRound)
	if err != nil {
		return err
	}

	if len(nextHeats) == 0 {
		// The final: close out the tournament
		result.TournamentCompleted = true
		return s.finalizeTournament(ctx, heat.TournamentID, winnerID)
	}
	if nextIndex >= len(nextHeats) {
		return errors.Consistencyf("round %d has %d heats, expected index %d", nextRound, len(nextHeats), nextIndex)
	}

	next := nextHeats[nextIndex]
	occupant, otherCup := next.Competitor1ID, next.Cup2Code
	if slot == 2 {
		occupant, otherCup = next.Competitor2ID, next.Cup1Code
	}
	if occupant != nil {
		if *occupant == winnerID {
			result.NextHeatID = &next.ID
			return s.maybeAdvanceRound(ctx, heat.TournamentID, heat.Round, roundHeats, heat.ID)
		}
		err := errors.Consistencyf("heat %d slot %d already holds competitor %d, cannot place %d",
			next.HeatNo, slot, *occupant, winnerID)
		s.logConsistency(err, "heat_id", next.ID)
		return err
	}

	if err := s.repo.SetHeatCompetitor(ctx, next.ID, slot, winnerID, newCupCode(otherCup)); err != nil {
		return err
	}

	updated, err := s.repo.GetHeat(ctx, next.ID)
	if err != nil {
		return err
	}
	if updated.Competitor1ID != nil && updated.Competitor2ID != nil && updated.Status == models.HeatPending {
		if err := s.repo.UpdateHeatStatus(ctx, next.ID, models.HeatReady); err != nil {
			return err
		}
		updated.Status = models.HeatReady
		result.NextHeatReady = true
		s.broadcastHeat(updated)
	}
	result.NextHeatID = &next.ID

	return s.maybeAdvanceRound(ctx, heat.TournamentID, heat.Round, roundHeats, heat.ID)
}

// maybeAdvanceRound bumps the tournament's current-round marker once every
// heat of the round is settled.
func (s *HeatService) maybeAdvanceRound(ctx context.Context, tournamentID, round int, roundHeats []models.Heat, justDoneID int) error {
	for _, h := range roundHeats {
		if h.ID == justDoneID {
			continue
		}
		if h.Status != models.HeatDone && h.Status != models.HeatCancelled {
			return nil
		}
	}
	return s.repo.SetTournamentCurrentRound(ctx, tournamentID, round+1)
}

// finalizeTournament assigns final ranks and marks the tournament
// COMPLETED. The champion takes 1, every loser shares the rank of the round
// that eliminated them: runner-up 2, semifinal losers 3, quarterfinal
// losers 5, and so on.
func (s *HeatService) finalizeTournament(ctx context.Context, tournamentID, championID int) error {
	t, err := s.repo.GetTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	size := 1 << t.TotalRounds

	heats, err := s.repo.ListHeats(ctx, tournamentID)
	if err != nil {
		return err
	}
	for _, h := range heats {
		if h.Status != models.HeatDone || h.WinnerID == nil || h.IsBye() {
			continue
		}
		if h.Competitor1ID == nil || h.Competitor2ID == nil {
			continue
		}
		loserID := *h.Competitor1ID
		if loserID == *h.WinnerID {
			loserID = *h.Competitor2ID
		}
		rank := bracket.RankForLoss(size, h.Round)
		if err := s.repo.SetCompetitorFinalRank(ctx, loserID, rank); err != nil {
			return err
		}
	}
	if err := s.repo.SetCompetitorFinalRank(ctx, championID, 1); err != nil {
		return err
	}
	if err := s.repo.UpdateTournamentStatus(ctx, tournamentID, models.TournamentCompleted); err != nil {
		return err
	}

	s.log.Info("Tournament completed", "tournament_id", tournamentID, "champion_id", championID)
	return nil
}

// GenerateJudgeQR renders a QR code pointing a judge's phone at the
// scoring page for a heat
func (s *HeatService) GenerateJudgeQR(ctx context.Context, heatID int) ([]byte, error) {
	if _, err := s.GetHeat(ctx, heatID); err != nil {
		return nil, err
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotSet
	}

	scoreURL := fmt.Sprintf("%s/judge/heat/%d", strings.TrimRight(baseURL, "/"), heatID)
	return qrcode.Encode(scoreURL, qrcode.Medium, 256)
}

func (s *HeatService) broadcastHeat(heat *models.Heat) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastHeatUpdate(heat)
	}
}

// logConsistency surfaces invariant violations loudly; they point at a bug
// upstream, not at the caller.
func (s *HeatService) logConsistency(err error, args ...interface{}) {
	s.log.Error("Consistency violation: "+err.Error(), args...)
}
