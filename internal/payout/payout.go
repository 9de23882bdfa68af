// Package payout computes and persists a week's winners.
//
// Every week has a fixed pot, split between the two lowest team scores of the
// week (first and second place shares come from config). The computation is a
// pure function over the week's matches; persistence is destructive-then-
// additive — delete all the week's Winner rows, insert the recomputed set —
// which makes "save winners" idempotent and safe to re-run after a score
// correction.
package payout

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/models"
)

// Pool is the week's payout convention: the total pot and the fraction paid to
// an outright first and second place. The shares deliberately don't sum to 1 —
// they're the league's historical 77.7777% / 22.2222% split, carried as-is.
type Pool struct {
	Total       float64
	FirstShare  float64
	SecondShare float64
}

// Entry is one team's line in the week results: its score, its place label if
// it cashed ("1st", "T1st", "2nd", "T2nd", empty otherwise), and the computed
// amount before rounding. Every team that played appears, paid or not.
type Entry struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Score    *int      `json:"score"` // nil = not entered yet
	Place    string    `json:"place,omitempty"`
	Amount   float64   `json:"amount_won"`
}

// ComputeWeek flattens the week's matches into one score list, sorts it
// ascending (missing scores last — a team that hasn't posted can't cash), and
// assigns payouts:
//
//   - N teams tied for the lowest score split the ENTIRE pot N ways, each
//     labeled "T1st"; nobody is paid second in that case.
//   - Otherwise first takes the first-place share; M teams tied for the second
//     lowest split the second-place share M ways ("T2nd"); a sole second takes
//     it whole ("2nd").
//   - A missing or non-positive best score suppresses all payouts — nobody
//     "wins" a week with no real scores in it.
func ComputeWeek(matches []models.Match, pool Pool) []Entry {
	entries := make([]Entry, 0, len(matches)*2)
	for _, match := range matches {
		for _, score := range match.Scores {
			entries = append(entries, Entry{
				TeamID:   score.TeamID,
				TeamName: match.TeamName(score.TeamID),
				Score:    score.Strokes,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Score, entries[j].Score
		if a == nil {
			return false // nil sorts last
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	if len(entries) == 0 || entries[0].Score == nil || *entries[0].Score <= 0 {
		return entries
	}
	best := *entries[0].Score

	// Tie for first?
	if len(entries) > 1 && entries[1].Score != nil && *entries[1].Score == best {
		ties := 0
		for _, e := range entries {
			if e.Score != nil && *e.Score == best {
				ties++
			}
		}
		for i := 0; i < ties; i++ {
			entries[i].Place = "T1st"
			entries[i].Amount = pool.Total / float64(ties)
		}
		return entries
	}

	entries[0].Place = "1st"
	entries[0].Amount = pool.Total * pool.FirstShare

	// Second place needs a real score — a missing or zero runner-up score
	// leaves the second share unpaid.
	if len(entries) < 2 || entries[1].Score == nil || *entries[1].Score <= 0 {
		return entries
	}
	second := *entries[1].Score

	ties := 0
	for _, e := range entries[1:] {
		if e.Score != nil && *e.Score == second {
			ties++
		}
	}
	if ties > 1 {
		for i := 1; i <= ties; i++ {
			entries[i].Place = "T2nd"
			entries[i].Amount = pool.Total * pool.SecondShare / float64(ties)
		}
	} else {
		entries[1].Place = "2nd"
		entries[1].Amount = pool.Total * pool.SecondShare
	}
	return entries
}

// RoundDollars converts a computed payout to the whole-dollar amount that gets
// persisted. Rounding happens exactly once, here, so the stored amounts are
// exact; display code formats the stored integer, it never re-rounds.
func RoundDollars(amount float64) int {
	return int(math.Round(amount))
}

// ComputeForWeek loads one week's matches (scores, teams, members for display
// names) and computes its entries. Returns gorm.ErrRecordNotFound for an
// unknown week ID.
func ComputeForWeek(db *gorm.DB, weekID uuid.UUID, pool Pool) ([]Entry, error) {
	var week models.Week
	err := db.
		Preload("Matches.Scores").
		Preload("Matches.Teams.Users").
		First(&week, "id = ?", weekID).Error
	if err != nil {
		return nil, err
	}
	return ComputeWeek(week.Matches, pool), nil
}

// SaveWinners replaces the week's Winner rows with the given computed entries.
// Delete-all-then-reinsert, in one transaction: re-running after a score fix
// yields exactly the recomputed set, never duplicates, and a crash can't leave
// the week half-cleared. Entries that round to zero or less are not persisted.
func SaveWinners(db *gorm.DB, weekID uuid.UUID, entries []Entry) error {
	// Fail fast on a bad week ID before deleting anything.
	var week models.Week
	if err := db.Select("id").First(&week, "id = ?", weekID).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Winner{}, "week_id = ?", weekID).Error; err != nil {
			return err
		}
		for _, e := range entries {
			amount := RoundDollars(e.Amount)
			if amount <= 0 {
				continue
			}
			winner := models.Winner{
				WeekID: weekID,
				TeamID: e.TeamID,
				Amount: amount,
			}
			if err := tx.Create(&winner).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
