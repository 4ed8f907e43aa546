package models

import "time"

// TournamentStatus tracks a tournament through its lifecycle. Seeding and
// bracket generation are only permitted in SETUP; building the bracket moves
// the tournament to ACTIVE.
type TournamentStatus string

const (
	TournamentSetup     TournamentStatus = "SETUP"
	TournamentActive    TournamentStatus = "ACTIVE"
	TournamentCompleted TournamentStatus = "COMPLETED"
	TournamentCancelled TournamentStatus = "CANCELLED"
)

// HeatStatus tracks a single heat. Heats are never deleted; cancellation is
// a status, not a deletion.
type HeatStatus string

const (
	HeatPending   HeatStatus = "PENDING"
	HeatReady     HeatStatus = "READY"
	HeatRunning   HeatStatus = "RUNNING"
	HeatDone      HeatStatus = "DONE"
	HeatCancelled HeatStatus = "CANCELLED"
)

// Beverage is the judged segment of a heat. Cappuccino adds the visual
// latte-art category.
type Beverage string

const (
	Espresso   Beverage = "espresso"
	Cappuccino Beverage = "cappuccino"
)

// Side is a judge's categorical vote, relative to that judge's own
// left/right cup assignment.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Category is one of the five judging categories.
type Category string

const (
	VisualLatteArt Category = "visualLatteArt"
	Taste          Category = "taste"
	Tactile        Category = "tactile"
	Flavour        Category = "flavour"
	Overall        Category = "overall"
)

// Tournament represents a single-elimination competition
type Tournament struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Status       TournamentStatus `json:"status"`
	TotalRounds  int              `json:"total_rounds"`
	CurrentRound int              `json:"current_round"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Competitor represents a registered barista. Seed 0 means unseeded
// (registration pending approval). FinalRank is set only when the
// tournament completes.
type Competitor struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	Name         string `json:"name"`
	Seed         int    `json:"seed"`
	FinalRank    *int   `json:"final_rank,omitempty"`
}

// Heat represents one scheduled match between two competitors. Either
// competitor slot may be nil: a round-1 heat with exactly one populated slot
// is a bye, a later-round heat with empty slots is a placeholder awaiting
// winners. Cup codes anonymize the slots for blind judging and are assigned
// once the pairing is known.
type Heat struct {
	ID            int        `json:"id"`
	TournamentID  int        `json:"tournament_id"`
	Round         int        `json:"round"`
	HeatNo        int        `json:"heat_no"`
	Station       string     `json:"station,omitempty"`
	Status        HeatStatus `json:"status"`
	Competitor1ID *int       `json:"competitor1_id"`
	Competitor2ID *int       `json:"competitor2_id"`
	Cup1Code      string     `json:"cup1_code,omitempty"`
	Cup2Code      string     `json:"cup2_code,omitempty"`
	WinnerID      *int       `json:"winner_id,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

// IsBye reports whether the heat has exactly one populated competitor slot.
func (h *Heat) IsBye() bool {
	return (h.Competitor1ID == nil) != (h.Competitor2ID == nil)
}

// CategoryVotes holds one judge's left/right votes. VisualLatteArt is nil
// for espresso sheets and for cappuccino sheets not yet scored in that
// category (which contributes zero points, not an error).
type CategoryVotes struct {
	VisualLatteArt *Side `json:"visualLatteArt,omitempty"`
	Taste          Side  `json:"taste"`
	Tactile        Side  `json:"tactile"`
	Flavour        Side  `json:"flavour"`
	Overall        Side  `json:"overall"`
}

// JudgeSheet is one judge's full vote set for one heat; the Beverage field
// records which segment that judge was assigned. A judge has at most one
// sheet per heat. LeftCup/RightCup record which cup code that judge was
// served on which side; cup order varies per judge for blind judging, so
// votes must be resolved through this pairing, never a heat-wide
// convention.
type JudgeSheet struct {
	ID        int           `json:"id"`
	HeatID    int           `json:"heat_id"`
	JudgeName string        `json:"judge_name"`
	Beverage  Beverage      `json:"beverage"`
	LeftCup   string        `json:"left_cup"`
	RightCup  string        `json:"right_cup"`
	Votes     CategoryVotes `json:"votes"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
