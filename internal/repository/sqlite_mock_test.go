package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// TestListTournaments_ScanError tests row scanning error
func TestListTournaments_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "status", "total_rounds", "current_round", "created_at"}).
		AddRow("bad-id", "Test", "SETUP", 0, 0, nil)

	mock.ExpectQuery("SELECT (.+) FROM tournaments").WillReturnRows(rows)

	_, err = repo.ListTournaments(ctx)
	if err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestListHeats_QueryError tests query execution error
func TestListHeats_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM heats").WillReturnError(errors.New("disk I/O error"))

	_, err = repo.ListHeats(ctx, 1)
	if err == nil {
		t.Error("expected query error, got nil")
	}
}

// TestCreateHeats_BeginError tests transaction start failure
func TestCreateHeats_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	if err := repo.CreateHeats(ctx, nil); err == nil {
		t.Error("expected begin error, got nil")
	}
}

// TestListSheetsByHeat_BadVotesJSON tests corrupted votes payload
func TestListSheetsByHeat_BadVotesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "heat_id", "judge_name", "beverage", "left_cup", "right_cup", "votes"}).
		AddRow(1, 1, "Dana", "espresso", "A1", "B1", "{not json")

	mock.ExpectQuery("SELECT (.+) FROM judge_sheets").WillReturnRows(rows)

	_, err = repo.ListSheetsByHeat(ctx, 1)
	if err == nil {
		t.Error("expected error for corrupted votes JSON, got nil")
	}
}

// TestGetEventStats_QueryError tests stats query failure
func TestGetEventStats_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT(.+) FROM tournaments").WillReturnError(errors.New("no such table"))

	if _, err := repo.GetEventStats(ctx); err == nil {
		t.Error("expected query error, got nil")
	}
}
