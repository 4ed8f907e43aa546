package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestJudgingOpenByDefault(t *testing.T) {
	ts := newTestServices(t)

	open, err := ts.settings.IsJudgingOpen(context.Background())
	if err != nil {
		t.Fatalf("IsJudgingOpen failed: %v", err)
	}
	if !open {
		t.Error("judging should be open by default")
	}
}

func TestOpenCloseJudging(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if err := ts.settings.CloseJudging(ctx); err != nil {
		t.Fatalf("CloseJudging failed: %v", err)
	}
	open, _ := ts.settings.IsJudgingOpen(ctx)
	if open {
		t.Error("expected judging closed")
	}

	if err := ts.settings.OpenJudging(ctx); err != nil {
		t.Fatalf("OpenJudging failed: %v", err)
	}
	open, _ = ts.settings.IsJudgingOpen(ctx)
	if !open {
		t.Error("expected judging open")
	}

	ts.broadcast.mu.Lock()
	events := append([]bool(nil), ts.broadcast.judgingEvents...)
	ts.broadcast.mu.Unlock()
	if len(events) != 2 || events[0] || !events[1] {
		t.Errorf("expected broadcasts [false true], got %v", events)
	}
}

func TestStartJudgingTimer(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if err := ts.settings.CloseJudging(ctx); err != nil {
		t.Fatalf("CloseJudging failed: %v", err)
	}

	closeTime, err := ts.settings.StartJudgingTimer(ctx, 5)
	if err != nil {
		t.Fatalf("StartJudgingTimer failed: %v", err)
	}

	parsed, err := time.Parse(time.RFC3339, closeTime)
	if err != nil {
		t.Fatalf("close time %q is not RFC3339: %v", closeTime, err)
	}
	remaining := time.Until(parsed)
	if remaining < 4*time.Minute || remaining > 6*time.Minute {
		t.Errorf("close time %v is not ~5 minutes out", remaining)
	}

	// Starting the timer opens judging
	open, _ := ts.settings.IsJudgingOpen(ctx)
	if !open {
		t.Error("timer start should open judging")
	}

	endTime, _ := ts.settings.GetTimerEndTime(ctx)
	if endTime != parsed.Unix() {
		t.Errorf("expected timer end %d, got %d", parsed.Unix(), endTime)
	}

	// Closing clears the countdown again
	if err := ts.settings.CloseJudging(ctx); err != nil {
		t.Fatalf("CloseJudging failed: %v", err)
	}
	endTime, _ = ts.settings.GetTimerEndTime(ctx)
	if endTime != 0 {
		t.Errorf("expected timer cleared, got %d", endTime)
	}
}

func TestStartJudgingTimer_InvalidMinutes(t *testing.T) {
	ts := newTestServices(t)

	for _, minutes := range []int{0, -1, 61} {
		_, err := ts.settings.StartJudgingTimer(context.Background(), minutes)
		if !stderrors.Is(err, ErrInvalidTimerMinutes) {
			t.Errorf("minutes=%d: expected ErrInvalidTimerMinutes, got %v", minutes, err)
		}
	}
}

func TestUpdateSettings(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	seconds := 480
	err := ts.settings.UpdateSettings(ctx, Settings{
		BaseURL:             "http://10.0.0.5:8080",
		JudgingInstructions: "Taste both cups before voting",
		HeatTimerSeconds:    &seconds,
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	baseURL, _ := ts.settings.GetBaseURL(ctx)
	if baseURL != "http://10.0.0.5:8080" {
		t.Errorf("expected base URL saved, got %q", baseURL)
	}
	timer, _ := ts.settings.GetSetting(ctx, "heat_timer_seconds")
	if timer != "480" {
		t.Errorf("expected heat_timer_seconds 480, got %q", timer)
	}

	all, err := ts.settings.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if all["judging_instructions"] != "Taste both cups before voting" {
		t.Errorf("expected instructions in settings map, got %v", all["judging_instructions"])
	}
}

func TestResetTables_AddsDependents(t *testing.T) {
	ts := newTestServices(t)

	_, heats := builtBracket(t, ts, "Ana", "Bob")
	runHeat(t, ts, heats[0].ID, 1)

	// Clearing tournaments drags heats and judge_sheets along
	result, err := ts.settings.ResetTables(context.Background(), []string{"tournaments"})
	if err != nil {
		t.Fatalf("ResetTables failed: %v", err)
	}
	want := []string{"judge_sheets", "heats", "tournaments"}
	if len(result.Tables) != len(want) {
		t.Fatalf("expected tables %v, got %v", want, result.Tables)
	}
	for i := range want {
		if result.Tables[i] != want[i] {
			t.Errorf("expected tables %v, got %v", want, result.Tables)
			break
		}
	}

	tournaments, err := ts.tournament.ListTournaments(context.Background())
	if err != nil {
		t.Fatalf("ListTournaments failed: %v", err)
	}
	if len(tournaments) != 0 {
		t.Errorf("expected tournaments cleared, got %d", len(tournaments))
	}
}

func TestResetTables_ClosesJudgingOnSheetReset(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.settings.ResetTables(ctx, []string{"judge_sheets"}); err != nil {
		t.Fatalf("ResetTables failed: %v", err)
	}
	open, _ := ts.settings.IsJudgingOpen(ctx)
	if open {
		t.Error("resetting judge_sheets should close judging")
	}
}

func TestResetTables_Invalid(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.settings.ResetTables(ctx, nil); !stderrors.Is(err, ErrNoTablesSpecified) {
		t.Errorf("expected ErrNoTablesSpecified, got %v", err)
	}

	_, err := ts.settings.ResetTables(ctx, []string{"users; DROP TABLE heats"})
	var invalid *InvalidTableError
	if !stderrors.As(err, &invalid) {
		t.Fatalf("expected InvalidTableError, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	ts := newTestServices(t)

	_, heats := builtBracket(t, ts, "Ana", "Bob", "Cleo", "Dan")
	runHeat(t, ts, heats[0].ID, 1)

	stats, err := ts.settings.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats["total_tournaments"] != 1 {
		t.Errorf("expected 1 tournament, got %v", stats["total_tournaments"])
	}
	if stats["total_competitors"] != 4 {
		t.Errorf("expected 4 competitors, got %v", stats["total_competitors"])
	}
	if stats["total_heats"] != 3 {
		t.Errorf("expected 3 heats, got %v", stats["total_heats"])
	}
	if stats["heats_done"] != 1 {
		t.Errorf("expected 1 done heat, got %v", stats["heats_done"])
	}
	if stats["total_sheets"] != 1 {
		t.Errorf("expected 1 sheet, got %v", stats["total_sheets"])
	}
}
