package standings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfinneral/golf-league-api/internal/models"
)

// --- Test fixtures ---
// The builders assemble the in-memory shape the schedule fetch produces:
// schedules with preloaded divisions, weeks, matches, teams, scores, winners.

func newTeam(lastName string) models.Team {
	return models.Team{
		ID:    uuid.New(),
		Users: []models.User{{ID: uuid.New(), LastName: lastName}},
	}
}

func playedMatch(t1, t2 models.Team, s1, s2 int) models.Match {
	return models.Match{
		ID:    uuid.New(),
		Teams: []models.Team{t1, t2},
		Scores: []models.Score{
			{ID: uuid.New(), TeamID: t1.ID, Strokes: &s1},
			{ID: uuid.New(), TeamID: t2.ID, Strokes: &s2},
		},
	}
}

func pendingMatch(t1, t2 models.Team, s1 *int) models.Match {
	return models.Match{
		ID:    uuid.New(),
		Teams: []models.Team{t1, t2},
		Scores: []models.Score{
			{ID: uuid.New(), TeamID: t1.ID, Strokes: s1},
			{ID: uuid.New(), TeamID: t2.ID, Strokes: nil},
		},
	}
}

func oneDivision(weeks ...models.Week) []models.Schedule {
	return []models.Schedule{{
		ID:       uuid.New(),
		Division: models.Division{ID: uuid.New(), Name: "A Division"},
		Weeks:    weeks,
	}}
}

func week(date time.Time, matches ...models.Match) models.Week {
	return models.Week{ID: uuid.New(), Date: date, Matches: matches}
}

func findStanding(t *testing.T, table []Standing, teamID uuid.UUID) Standing {
	t.Helper()
	for _, s := range table {
		if s.TeamID == teamID {
			return s
		}
	}
	t.Fatalf("team %s not in standings", teamID)
	return Standing{}
}

// --- Tests ---

func TestComputePointLaw(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	day := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)

	schedules := oneDivision(
		week(day,
			playedMatch(a, b, 38, 41), // a wins
			playedMatch(c, d, 40, 40), // tie
		),
		week(day.AddDate(0, 0, 7),
			playedMatch(a, c, 39, 36), // c wins
			playedMatch(b, d, 44, 42), // d wins
		),
	)

	tables := Compute(schedules, Options{})
	require.Len(t, tables, 1)
	table := tables[0].Standings
	require.Len(t, table, 4)

	sa := findStanding(t, table, a.ID)
	assert.Equal(t, 1, sa.Wins)
	assert.Equal(t, 1, sa.Losses)
	assert.Equal(t, 0, sa.Ties)
	assert.Equal(t, 2, sa.Points, "win=2, loss=0")

	sc := findStanding(t, table, c.ID)
	assert.Equal(t, 1, sc.Wins)
	assert.Equal(t, 1, sc.Ties)
	assert.Equal(t, 3, sc.Points, "win=2 plus tie=1")

	sd := findStanding(t, table, d.ID)
	assert.Equal(t, 3, sd.Points)

	sb := findStanding(t, table, b.ID)
	assert.Equal(t, 0, sb.Points)

	// wins+losses+ties equals the completed matches each team was in.
	for _, s := range table {
		assert.Equal(t, len(s.MatchRecord), s.Wins+s.Losses+s.Ties)
		assert.Equal(t, 2, len(s.MatchRecord))
	}
}

func TestComputeSkipsIncompleteMatches(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	day := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)
	entered := 38

	schedules := oneDivision(
		week(day,
			playedMatch(a, b, 38, 41),
			pendingMatch(c, d, &entered), // one score in, one still pending
		),
	)

	tables := Compute(schedules, Options{})
	table := tables[0].Standings

	// The half-entered match contributes nothing: no standing rows for its
	// teams, no totals, no history.
	require.Len(t, table, 2)
	for _, s := range table {
		assert.NotEqual(t, c.ID, s.TeamID)
		assert.NotEqual(t, d.ID, s.TeamID)
	}
}

func TestComputeTeamsNeverSeenAreAbsent(t *testing.T) {
	a, b := newTeam("Adams"), newTeam("Baker")
	day := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)

	schedules := oneDivision(week(day, pendingMatch(a, b, nil)))
	tables := Compute(schedules, Options{})
	require.Len(t, tables, 1)
	assert.Empty(t, tables[0].Standings, "no completed matches means an empty table, not an error")
}

func TestComputeEmptyLeague(t *testing.T) {
	assert.Empty(t, Compute(nil, Options{}))
}

func TestComputeMatchHistoryAndTotals(t *testing.T) {
	a, b := newTeam("Adams"), newTeam("Baker")
	day1 := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)

	w1 := week(day1, playedMatch(a, b, 38, 41))
	// Team A cashed in week 1; winner rows feed the history's amount column.
	w1.Winners = []models.Winner{{TeamID: a.ID, Amount: 175}}
	w2 := week(day2, playedMatch(b, a, 40, 40))

	tables := Compute(oneDivision(w1, w2), Options{})
	sa := findStanding(t, tables[0].Standings, a.ID)

	require.Len(t, sa.MatchRecord, 2)
	first := sa.MatchRecord[0]
	assert.Equal(t, day1, first.Date)
	assert.Equal(t, "Baker", first.Opponent)
	assert.Equal(t, 38, first.TeamScore)
	assert.Equal(t, 41, first.OpponentScore)
	assert.Equal(t, models.OutcomeWin, first.Outcome)
	assert.Equal(t, 175, first.AmountWon)

	second := sa.MatchRecord[1]
	assert.Equal(t, models.OutcomeTie, second.Outcome)
	assert.Equal(t, 0, second.AmountWon)

	assert.Equal(t, 38+40, sa.TotalScore)
	assert.Equal(t, 41+40, sa.TotalOpponentScore)
	assert.Equal(t, 175, sa.TotalAmountWon)
}

func TestComputeRankingAndTieOrder(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	day := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)

	// a beats b decisively; c beats d narrowly. a and c tie on points; a is
	// discovered first, so without a tie-break a stays ahead.
	schedules := oneDivision(week(day,
		playedMatch(a, b, 35, 45),
		playedMatch(c, d, 39, 40),
	))

	tables := Compute(schedules, Options{})
	table := tables[0].Standings
	require.Len(t, table, 4)
	assert.Equal(t, a.ID, table[0].TeamID)
	assert.Equal(t, c.ID, table[1].TeamID)

	// With the score-differential tie-break, c (-1) loses the tie to a (-10).
	tables = Compute(schedules, Options{TieBreak: TieBreakScoreDiff})
	table = tables[0].Standings
	assert.Equal(t, a.ID, table[0].TeamID, "a has the better differential")
	assert.Equal(t, c.ID, table[1].TeamID)

	// Flip the margins so c has the better differential and overtakes a.
	schedules = oneDivision(week(day,
		playedMatch(a, b, 39, 40),
		playedMatch(c, d, 35, 45),
	))
	tables = Compute(schedules, Options{TieBreak: TieBreakScoreDiff})
	assert.Equal(t, c.ID, tables[0].Standings[0].TeamID)
}

func TestPlace(t *testing.T) {
	table := []Standing{
		{Points: 10},
		{Points: 8},
		{Points: 8},
		{Points: 5},
	}

	tests := []struct {
		index int
		want  string
	}{
		{index: 0, want: "1"},
		{index: 1, want: "T2"},
		{index: 2, want: "T2"},
		// Distinct-value counting: two point values (10 and 8) sit above 5,
		// so the last team is 3rd, not 4th.
		{index: 3, want: "3"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Place(table, tc.index))
	}

	// Everyone level: all tied for first.
	level := []Standing{{Points: 4}, {Points: 4}, {Points: 4}}
	for i := range level {
		assert.Equal(t, "T1", Place(level, i))
	}
}

func TestToPar(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		matches int
		want    string
	}{
		{name: "even", total: 72, matches: 2, want: "EVEN"},
		{name: "over", total: 80, matches: 2, want: "+8"},
		{name: "under", total: 70, matches: 2, want: "-2"},
		{name: "no matches", total: 0, matches: 0, want: "EVEN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToPar(tc.total, tc.matches, 36))
		})
	}
}
