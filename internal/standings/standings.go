// Package standings folds a league's schedule and score history into ranked
// tables, one per division.
//
// Standings are never persisted or cached — every request recomputes them from
// the schedule snapshot. The fold is deliberately conservative about partial
// data: a match counts only once BOTH of its scores are entered, so the tables
// never show half a result mid-week.
package standings

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/models"
	"github.com/sfinneral/golf-league-api/internal/schedule"
)

// TieBreak selects how teams tied on points are ordered.
type TieBreak string

const (
	// TieBreakNone leaves tied teams in discovery order (the order they first
	// appeared in a completed match). This matches the league's historical
	// behavior: ties share a place label anyway.
	TieBreakNone TieBreak = ""
	// TieBreakScoreDiff orders tied teams by cumulative score differential
	// (own strokes minus opponent strokes, lower is better).
	TieBreakScoreDiff TieBreak = "scorediff"
)

// Options tunes the fold. Zero value = league defaults via config are expected
// to be passed in by the caller; ParPerMatch only affects the to-par display.
type Options struct {
	ParPerMatch int      // Strokes subtracted per completed match for the to-par display
	TieBreak    TieBreak // Secondary ordering for point ties
}

// MatchResult is one line of a team's match history: what happened, against
// whom, and what the team took home that week. All fields are always present —
// AmountWon is simply 0 for weeks the team didn't cash.
type MatchResult struct {
	Date          time.Time           `json:"date"`
	Opponent      string              `json:"opponent"`
	TeamScore     int                 `json:"team_score"`
	OpponentScore int                 `json:"opponent_score"`
	Outcome       models.MatchOutcome `json:"outcome"` // "w", "l", or "t"
	AmountWon     int                 `json:"amount_won"`
}

// Standing is one team's derived summary within its division. Win = 2 points,
// tie = 1, loss = 0. Rebuilt from scratch on every request.
type Standing struct {
	TeamID             uuid.UUID     `json:"team_id"`
	TeamName           string        `json:"team_name"`
	Wins               int           `json:"wins"`
	Losses             int           `json:"losses"`
	Ties               int           `json:"ties"`
	Points             int           `json:"points"`
	TotalScore         int           `json:"total_score"`
	TotalOpponentScore int           `json:"total_opponent_score"`
	TotalAmountWon     int           `json:"total_amount_won"`
	MatchRecord        []MatchResult `json:"match_record"`
}

// DivisionStandings is one division's ranked table.
type DivisionStandings struct {
	Division  models.Division `json:"division"`
	Standings []Standing      `json:"standings"`
}

// ByLeagueSlug fetches everything the league's slug resolves to and computes
// standings per division. An unknown slug yields an empty list, not an error —
// the members' page shows "no standings yet".
func ByLeagueSlug(db *gorm.DB, slug string, opts Options) ([]DivisionStandings, error) {
	schedules, err := schedule.ByLeagueSlug(db, slug)
	if err != nil {
		return nil, err
	}
	return Compute(schedules, opts), nil
}

// Compute folds fully-loaded schedules into ranked division tables.
//
// Weeks are processed in stored (chronological) order so each team's match
// history reads top to bottom through the season. Point totals themselves are
// order-independent. A team appears the first time it finishes a match; teams
// with no completed matches are absent entirely (not pre-seeded from the
// roster).
func Compute(schedules []models.Schedule, opts Options) []DivisionStandings {
	result := make([]DivisionStandings, 0, len(schedules))

	for _, sched := range schedules {
		// index tracks teams by ID; order preserves discovery order, which is
		// also the tie order when no tie-break is configured.
		index := make(map[uuid.UUID]*Standing)
		order := make([]uuid.UUID, 0)

		lookup := func(teamID uuid.UUID, name string) *Standing {
			if s, ok := index[teamID]; ok {
				return s
			}
			s := &Standing{TeamID: teamID, TeamName: name, MatchRecord: []MatchResult{}}
			index[teamID] = s
			order = append(order, teamID)
			return s
		}

		for _, week := range sched.Weeks {
			// Payouts for the week, by team. Multiple winner rows for one team
			// (shouldn't happen, but the fold doesn't assume) are summed.
			payouts := make(map[uuid.UUID]int, len(week.Winners))
			for _, w := range week.Winners {
				payouts[w.TeamID] += w.Amount
			}

			for _, match := range week.Matches {
				if len(match.Scores) != 2 {
					continue
				}
				s1, s2 := match.Scores[0], match.Scores[1]
				// Skip-incomplete: until both scores are in, the match does not
				// exist as far as standings are concerned.
				if s1.Strokes == nil || s2.Strokes == nil {
					continue
				}

				t1 := lookup(s1.TeamID, match.TeamName(s1.TeamID))
				t2 := lookup(s2.TeamID, match.TeamName(s2.TeamID))

				var o1, o2 models.MatchOutcome
				switch {
				case *s1.Strokes == *s2.Strokes:
					o1, o2 = models.OutcomeTie, models.OutcomeTie
					t1.Ties++
					t2.Ties++
					t1.Points++
					t2.Points++
				case *s1.Strokes < *s2.Strokes:
					// Golf: fewer strokes wins.
					o1, o2 = models.OutcomeWin, models.OutcomeLoss
					t1.Wins++
					t1.Points += 2
					t2.Losses++
				default:
					o1, o2 = models.OutcomeLoss, models.OutcomeWin
					t2.Wins++
					t2.Points += 2
					t1.Losses++
				}

				record(t1, week.Date, t2.TeamName, *s1.Strokes, *s2.Strokes, o1, payouts[t1.TeamID])
				record(t2, week.Date, t1.TeamName, *s2.Strokes, *s1.Strokes, o2, payouts[t2.TeamID])
			}
		}

		table := make([]Standing, 0, len(order))
		for _, id := range order {
			table = append(table, *index[id])
		}
		sortTable(table, opts.TieBreak)

		result = append(result, DivisionStandings{
			Division:  sched.Division,
			Standings: table,
		})
	}

	return result
}

// record appends a history line and rolls the cumulative totals forward.
func record(s *Standing, date time.Time, opponent string, own, theirs int, outcome models.MatchOutcome, amount int) {
	s.TotalScore += own
	s.TotalOpponentScore += theirs
	s.TotalAmountWon += amount
	s.MatchRecord = append(s.MatchRecord, MatchResult{
		Date:          date,
		Opponent:      opponent,
		TeamScore:     own,
		OpponentScore: theirs,
		Outcome:       outcome,
		AmountWon:     amount,
	})
}

// sortTable ranks by points descending. SliceStable keeps discovery order for
// tied teams unless the score-differential tie-break is requested.
func sortTable(table []Standing, tb TieBreak) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if tb == TieBreakScoreDiff {
			di := table[i].TotalScore - table[i].TotalOpponentScore
			dj := table[j].TotalScore - table[j].TotalOpponentScore
			return di < dj // Lower differential = fewer strokes than opponents = better
		}
		return false
	})
}

// Place returns the display place of table[i]: the count of distinct point
// values strictly above it, plus one — prefixed with "T" when any other team
// shares its points. Computed against the whole table, not adjacent rows, and
// counting distinct values (not rows), so 10/8/8/5 reads 1, T2, T2, 3.
func Place(table []Standing, i int) string {
	points := table[i].Points

	tied := false
	higher := make(map[int]bool)
	for j, s := range table {
		if j != i && s.Points == points {
			tied = true
		}
		if s.Points > points {
			higher[s.Points] = true
		}
	}

	place := len(higher) + 1
	if tied {
		return fmt.Sprintf("T%d", place)
	}
	return fmt.Sprintf("%d", place)
}

// ToPar renders a cumulative stroke total relative to the league's baseline of
// parPerMatch strokes per completed match: "EVEN" at par, "+n" over, "-n" under.
func ToPar(totalScore, matchesPlayed, parPerMatch int) string {
	score := totalScore - matchesPlayed*parPerMatch
	switch {
	case score == 0:
		return "EVEN"
	case score > 0:
		return fmt.Sprintf("+%d", score)
	default:
		return fmt.Sprintf("%d", score)
	}
}
