package bracket

import (
	"github.com/kpalsson/brewbracket/internal/errors"
)

// HeatPlan is one planned heat in a single-elimination bracket. Seeds are
// 1-based; 0 marks an open slot (a bye opponent in round 1, an undetermined
// winner in later rounds).
type HeatPlan struct {
	Round int
	Index int // 0-based position within the round
	Seed1 int
	Seed2 int
}

// Plan is a complete single-elimination bracket: round 1 fully paired,
// later rounds as empty placeholders. Heats are ordered round by round in
// bracket-position order.
type Plan struct {
	Size   int // bracket size, a power of two
	Rounds int
	Heats  []HeatPlan
}

// Size returns the smallest power of two >= n.
func Size(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// Rounds returns the number of elimination rounds needed for n competitors.
func Rounds(n int) int {
	rounds := 0
	for size := 1; size < n; size <<= 1 {
		rounds++
	}
	return rounds
}

// SeedPairs returns the round-1 pairings of 1-based seeds for a bracket of
// the given size, in bracket-position order. Standard seeded expansion:
// seed s meets seed size+1-s, and the top seeds are placed so they can only
// meet in the late rounds.
func SeedPairs(size int) [][2]int {
	if size < 2 {
		return nil
	}

	positions := []int{1}
	for len(positions) < size {
		mirror := len(positions)*2 + 1
		next := make([]int, 0, len(positions)*2)
		for _, seed := range positions {
			next = append(next, seed, mirror-seed)
		}
		positions = next
	}

	pairs := make([][2]int, 0, size/2)
	for i := 0; i < len(positions); i += 2 {
		pairs = append(pairs, [2]int{positions[i], positions[i+1]})
	}
	return pairs
}

// Build produces the bracket plan for n seeded competitors. Seeds above n
// are byes: the standard pairing spreads them across the bracket so the
// highest seeds receive them. The plan always contains size-1 heats.
func Build(n int) (*Plan, error) {
	if n < 2 {
		return nil, errors.Validationf("bracket needs at least 2 seeded competitors, got %d", n)
	}

	size := Size(n)
	rounds := Rounds(n)

	heats := make([]HeatPlan, 0, size-1)
	for i, pair := range SeedPairs(size) {
		hp := HeatPlan{Round: 1, Index: i, Seed1: pair[0], Seed2: pair[1]}
		if hp.Seed1 > n {
			hp.Seed1 = 0
		}
		if hp.Seed2 > n {
			hp.Seed2 = 0
		}
		heats = append(heats, hp)
	}
	for r := 2; r <= rounds; r++ {
		count := size >> r
		for i := 0; i < count; i++ {
			heats = append(heats, HeatPlan{Round: r, Index: i})
		}
	}

	return &Plan{Size: size, Rounds: rounds, Heats: heats}, nil
}

// NextSlot returns where the winner of the heat at (round, index) advances:
// the next-round heat index, and which competitor slot it fills (even
// bracket positions feed slot 1, odd feed slot 2).
func NextSlot(round, index int) (nextRound, nextIndex, slot int) {
	nextRound = round + 1
	nextIndex = index / 2
	slot = 1
	if index%2 == 1 {
		slot = 2
	}
	return nextRound, nextIndex, slot
}

// RankForLoss returns the shared final rank earned by losing in the given
// round of a bracket of the given size: the runner-up takes 2, semifinal
// losers share 3, quarterfinal losers share 5, and so on. Ranks within a
// shared group are not broken further.
func RankForLoss(size, round int) int {
	return size/(1<<round) + 1
}
