package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/kpalsson/brewbracket/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'SETUP',
			total_rounds INTEGER NOT NULL DEFAULT 0,
			current_round INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS competitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			final_rank INTEGER,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id),
			UNIQUE(tournament_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS heats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			round INTEGER NOT NULL,
			heat_no INTEGER NOT NULL,
			station TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'PENDING',
			competitor1_id INTEGER,
			competitor2_id INTEGER,
			cup1_code TEXT NOT NULL DEFAULT '',
			cup2_code TEXT NOT NULL DEFAULT '',
			winner_id INTEGER,
			started_at DATETIME,
			ended_at DATETIME,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id),
			FOREIGN KEY (competitor1_id) REFERENCES competitors(id),
			FOREIGN KEY (competitor2_id) REFERENCES competitors(id),
			FOREIGN KEY (winner_id) REFERENCES competitors(id),
			UNIQUE(tournament_id, heat_no)
		)`,
		`CREATE TABLE IF NOT EXISTS judge_sheets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			heat_id INTEGER NOT NULL,
			judge_name TEXT NOT NULL,
			beverage TEXT NOT NULL,
			left_cup TEXT NOT NULL,
			right_cup TEXT NOT NULL,
			votes TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (heat_id) REFERENCES heats(id),
			UNIQUE(heat_id, judge_name)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_competitors_tournament ON competitors(tournament_id)`,
		`CREATE INDEX IF NOT EXISTS idx_heats_tournament ON heats(tournament_id)`,
		`CREATE INDEX IF NOT EXISTS idx_heats_round ON heats(tournament_id, round)`,
		`CREATE INDEX IF NOT EXISTS idx_sheets_heat ON judge_sheets(heat_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Insert default settings if not exists
	// Note: base_url is intentionally not set here - it's set by app.go
	// with the detected LAN IP address on startup
	defaultSettings := map[string]string{
		"judging_open":       "true",
		"heat_timer_seconds": "0",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// ==================== Tournament Methods ====================

// CreateTournament creates a tournament in SETUP state
func (r *Repository) CreateTournament(ctx context.Context, name string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tournaments (name, status) VALUES (?, 'SETUP')`, name)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

// GetTournament retrieves a tournament by ID
func (r *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, status, total_rounds, current_round, created_at
		FROM tournaments WHERE id = ?
	`, id).Scan(&t.ID, &t.Name, &t.Status, &t.TotalRounds, &t.CurrentRound, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTournaments returns all tournaments, newest first
func (r *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, status, total_rounds, current_round, created_at
		FROM tournaments ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.TotalRounds, &t.CurrentRound, &t.CreatedAt); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// UpdateTournamentStatus sets a tournament's lifecycle status
func (r *Repository) UpdateTournamentStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tournaments SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetTournamentRounds records the bracket depth once the bracket is built
func (r *Repository) SetTournamentRounds(ctx context.Context, id, totalRounds int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET total_rounds = ?, current_round = 1 WHERE id = ?`, totalRounds, id)
	return err
}

// SetTournamentCurrentRound advances the tournament's current round marker
func (r *Repository) SetTournamentCurrentRound(ctx context.Context, id, round int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tournaments SET current_round = ? WHERE id = ?`, round, id)
	return err
}

// ==================== Competitor Methods ====================

// CreateCompetitor registers a competitor, unseeded
func (r *Repository) CreateCompetitor(ctx context.Context, tournamentID int, name string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO competitors (tournament_id, name) VALUES (?, ?)`, tournamentID, name)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

// GetCompetitor retrieves a competitor by ID
func (r *Repository) GetCompetitor(ctx context.Context, id int) (*models.Competitor, error) {
	var c models.Competitor
	var finalRank sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, name, seed, final_rank FROM competitors WHERE id = ?
	`, id).Scan(&c.ID, &c.TournamentID, &c.Name, &c.Seed, &finalRank)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if finalRank.Valid {
		rank := int(finalRank.Int64)
		c.FinalRank = &rank
	}
	return &c, nil
}

// ListCompetitors returns a tournament's competitors ordered by seed, with
// unseeded competitors (seed 0) last by name
func (r *Repository) ListCompetitors(ctx context.Context, tournamentID int) ([]models.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, name, seed, final_rank
		FROM competitors WHERE tournament_id = ?
		ORDER BY CASE WHEN seed = 0 THEN 1 ELSE 0 END, seed, name
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var c models.Competitor
		var finalRank sql.NullInt64
		if err := rows.Scan(&c.ID, &c.TournamentID, &c.Name, &c.Seed, &finalRank); err != nil {
			return nil, err
		}
		if finalRank.Valid {
			rank := int(finalRank.Int64)
			c.FinalRank = &rank
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

// UpdateCompetitorSeed assigns or changes a competitor's seed
func (r *Repository) UpdateCompetitorSeed(ctx context.Context, id, seed int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE competitors SET seed = ? WHERE id = ?`, seed, id)
	return err
}

// SetCompetitorFinalRank records a competitor's final placement
func (r *Repository) SetCompetitorFinalRank(ctx context.Context, id, rank int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE competitors SET final_rank = ? WHERE id = ?`, rank, id)
	return err
}

// DeleteCompetitor removes a competitor (only valid during SETUP; the
// service layer enforces that)
func (r *Repository) DeleteCompetitor(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM competitors WHERE id = ?`, id)
	return err
}

// ==================== Heat Methods ====================

// CreateHeats inserts a full bracket of heats in one transaction and fills
// in the generated IDs. All-or-nothing: a bracket is never half-built.
func (r *Repository) CreateHeats(ctx context.Context, heats []*models.Heat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO heats (tournament_id, round, heat_no, status, competitor1_id, competitor2_id, cup1_code, cup2_code, winner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range heats {
		result, err := stmt.ExecContext(ctx, h.TournamentID, h.Round, h.HeatNo, h.Status,
			h.Competitor1ID, h.Competitor2ID, h.Cup1Code, h.Cup2Code, h.WinnerID)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		h.ID = int(id)
	}

	return tx.Commit()
}

func scanHeat(scan func(dest ...interface{}) error) (*models.Heat, error) {
	var h models.Heat
	var comp1, comp2, winner sql.NullInt64
	var startedAt, endedAt sql.NullTime
	err := scan(&h.ID, &h.TournamentID, &h.Round, &h.HeatNo, &h.Station, &h.Status,
		&comp1, &comp2, &h.Cup1Code, &h.Cup2Code, &winner, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}
	if comp1.Valid {
		id := int(comp1.Int64)
		h.Competitor1ID = &id
	}
	if comp2.Valid {
		id := int(comp2.Int64)
		h.Competitor2ID = &id
	}
	if winner.Valid {
		id := int(winner.Int64)
		h.WinnerID = &id
	}
	if startedAt.Valid {
		t := startedAt.Time
		h.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		h.EndedAt = &t
	}
	return &h, nil
}

const heatColumns = `id, tournament_id, round, heat_no, station, status,
	competitor1_id, competitor2_id, cup1_code, cup2_code, winner_id, started_at, ended_at`

// GetHeat retrieves a heat by ID
func (r *Repository) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+heatColumns+` FROM heats WHERE id = ?`, id)
	h, err := scanHeat(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return h, err
}

// GetHeatByNumber retrieves a heat by its tournament-wide heat number
func (r *Repository) GetHeatByNumber(ctx context.Context, tournamentID, heatNo int) (*models.Heat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+heatColumns+` FROM heats WHERE tournament_id = ? AND heat_no = ?`, tournamentID, heatNo)
	h, err := scanHeat(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return h, err
}

// ListHeats returns all of a tournament's heats in heat-number order
func (r *Repository) ListHeats(ctx context.Context, tournamentID int) ([]models.Heat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+heatColumns+` FROM heats WHERE tournament_id = ? ORDER BY heat_no`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heats []models.Heat
	for rows.Next() {
		h, err := scanHeat(rows.Scan)
		if err != nil {
			return nil, err
		}
		heats = append(heats, *h)
	}
	return heats, rows.Err()
}

// ListHeatsByRound returns one round's heats in heat-number order
func (r *Repository) ListHeatsByRound(ctx context.Context, tournamentID, round int) ([]models.Heat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+heatColumns+` FROM heats WHERE tournament_id = ? AND round = ? ORDER BY heat_no`,
		tournamentID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heats []models.Heat
	for rows.Next() {
		h, err := scanHeat(rows.Scan)
		if err != nil {
			return nil, err
		}
		heats = append(heats, *h)
	}
	return heats, rows.Err()
}

// UpdateHeatStatus sets a heat's status
func (r *Repository) UpdateHeatStatus(ctx context.Context, id int, status models.HeatStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE heats SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetHeatStation assigns the espresso machine station for a heat
func (r *Repository) SetHeatStation(ctx context.Context, id int, station string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE heats SET station = ? WHERE id = ?`, station, id)
	return err
}

// SetHeatCompetitor fills one competitor slot of a later-round heat and
// stamps the slot's cup code at the same time
func (r *Repository) SetHeatCompetitor(ctx context.Context, id, slot, competitorID int, cupCode string) error {
	column, cupColumn := "competitor1_id", "cup1_code"
	if slot == 2 {
		column, cupColumn = "competitor2_id", "cup2_code"
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE heats SET `+column+` = ?, `+cupColumn+` = ? WHERE id = ?`, competitorID, cupCode, id)
	return err
}

// MarkHeatRunning moves a heat to RUNNING and records the start time
func (r *Repository) MarkHeatRunning(ctx context.Context, id int, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE heats SET status = 'RUNNING', started_at = ? WHERE id = ?`, startedAt, id)
	return err
}

// MarkHeatDone moves a heat to DONE with its winner and end time
func (r *Repository) MarkHeatDone(ctx context.Context, id, winnerID int, endedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE heats SET status = 'DONE', winner_id = ?, ended_at = ? WHERE id = ?`, winnerID, endedAt, id)
	return err
}

// ==================== Judge Sheet Methods ====================

// ReplaceJudgeSheet stores a judge's sheet for a heat, replacing any
// earlier submission by the same judge regardless of the beverage it
// carried. A judge has at most one sheet per heat; resubmission is a full
// replace, never a merge.
func (r *Repository) ReplaceJudgeSheet(ctx context.Context, sheet *models.JudgeSheet) error {
	votesJSON, err := json.Marshal(sheet.Votes)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM judge_sheets WHERE heat_id = ? AND judge_name = ?`,
		sheet.HeatID, sheet.JudgeName)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO judge_sheets (heat_id, judge_name, beverage, left_cup, right_cup, votes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sheet.HeatID, sheet.JudgeName, sheet.Beverage, sheet.LeftCup, sheet.RightCup, string(votesJSON))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sheet.ID = int(id)

	return tx.Commit()
}

func scanSheet(scan func(dest ...interface{}) error) (*models.JudgeSheet, error) {
	var s models.JudgeSheet
	var votesJSON string
	err := scan(&s.ID, &s.HeatID, &s.JudgeName, &s.Beverage, &s.LeftCup, &s.RightCup, &votesJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(votesJSON), &s.Votes); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSheetsByHeat returns all judge sheets for a heat, ordered by judge
// for stable aggregation and display
func (r *Repository) ListSheetsByHeat(ctx context.Context, heatID int) ([]models.JudgeSheet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, heat_id, judge_name, beverage, left_cup, right_cup, votes
		FROM judge_sheets WHERE heat_id = ?
		ORDER BY judge_name
	`, heatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []models.JudgeSheet
	for rows.Next() {
		s, err := scanSheet(rows.Scan)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, *s)
	}
	return sheets, rows.Err()
}

// ListSheetsForTournament returns every judge sheet of a tournament,
// grouped by heat ID
func (r *Repository) ListSheetsForTournament(ctx context.Context, tournamentID int) (map[int][]models.JudgeSheet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.heat_id, s.judge_name, s.beverage, s.left_cup, s.right_cup, s.votes
		FROM judge_sheets s
		JOIN heats h ON s.heat_id = h.id
		WHERE h.tournament_id = ?
		ORDER BY s.heat_id, s.judge_name
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sheets := make(map[int][]models.JudgeSheet)
	for rows.Next() {
		s, err := scanSheet(rows.Scan)
		if err != nil {
			return nil, err
		}
		sheets[s.HeatID] = append(sheets[s.HeatID], *s)
	}
	return sheets, rows.Err()
}

// CountSheetsByHeat returns how many sheets a heat has received
func (r *Repository) CountSheetsByHeat(ctx context.Context, heatID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM judge_sheets WHERE heat_id = ?`, heatID).Scan(&count)
	return count, err
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Stats Methods ====================

// GetEventStats returns overall event statistics
func (r *Repository) GetEventStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalTournaments int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&totalTournaments); err != nil {
		return nil, err
	}
	stats["total_tournaments"] = totalTournaments

	var totalCompetitors int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitors`).Scan(&totalCompetitors); err != nil {
		return nil, err
	}
	stats["total_competitors"] = totalCompetitors

	var totalHeats int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM heats`).Scan(&totalHeats); err != nil {
		return nil, err
	}
	stats["total_heats"] = totalHeats

	var heatsDone int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM heats WHERE status = 'DONE'`).Scan(&heatsDone); err != nil {
		return nil, err
	}
	stats["heats_done"] = heatsDone

	var totalSheets int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM judge_sheets`).Scan(&totalSheets); err != nil {
		return nil, err
	}
	stats["total_sheets"] = totalSheets

	return stats, nil
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"judge_sheets": true, "heats": true, "competitors": true, "tournaments": true, "settings": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	// Validate table name against whitelist
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
