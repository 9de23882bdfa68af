package payout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfinneral/golf-league-api/internal/models"
)

// testPool is the league's real convention: $225 split 77.7777% / 22.2222%.
var testPool = Pool{Total: 225, FirstShare: 0.777777, SecondShare: 0.222222}

func newTeam(lastName string) models.Team {
	return models.Team{
		ID:    uuid.New(),
		Users: []models.User{{ID: uuid.New(), LastName: lastName}},
	}
}

func scoredMatch(t1, t2 models.Team, s1, s2 *int) models.Match {
	return models.Match{
		ID:    uuid.New(),
		Teams: []models.Team{t1, t2},
		Scores: []models.Score{
			{ID: uuid.New(), TeamID: t1.ID, Strokes: s1},
			{ID: uuid.New(), TeamID: t2.ID, Strokes: s2},
		},
	}
}

func ptr(n int) *int { return &n }

func entryFor(t *testing.T, entries []Entry, teamID uuid.UUID) Entry {
	t.Helper()
	for _, e := range entries {
		if e.TeamID == teamID {
			return e
		}
	}
	t.Fatalf("team %s not in entries", teamID)
	return Entry{}
}

func TestComputeWeekOutrightPlaces(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	matches := []models.Match{
		scoredMatch(a, b, ptr(70), ptr(72)),
		scoredMatch(c, d, ptr(75), ptr(80)),
	}

	entries := ComputeWeek(matches, testPool)
	require.Len(t, entries, 4)

	// Sorted ascending by strokes.
	assert.Equal(t, a.ID, entries[0].TeamID)
	assert.Equal(t, "1st", entries[0].Place)
	assert.InDelta(t, 225*0.777777, entries[0].Amount, 0.001)
	assert.Equal(t, 175, RoundDollars(entries[0].Amount))

	assert.Equal(t, b.ID, entries[1].TeamID)
	assert.Equal(t, "2nd", entries[1].Place)
	assert.Equal(t, 50, RoundDollars(entries[1].Amount))

	// Third and fourth get nothing.
	assert.Empty(t, entries[2].Place)
	assert.Zero(t, entries[2].Amount)
	assert.Empty(t, entries[3].Place)
	assert.Zero(t, entries[3].Amount)
}

func TestComputeWeekTieForFirstSplitsWholePool(t *testing.T) {
	// The spec scenario: A=70, B=70, C=75, D=80, pool 225. A and B split the
	// FULL pool (112.50 each, persisted as 113); second place is not paid.
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	matches := []models.Match{
		scoredMatch(a, b, ptr(70), ptr(70)),
		scoredMatch(c, d, ptr(75), ptr(80)),
	}

	entries := ComputeWeek(matches, testPool)

	ea := entryFor(t, entries, a.ID)
	eb := entryFor(t, entries, b.ID)
	assert.Equal(t, "T1st", ea.Place)
	assert.Equal(t, "T1st", eb.Place)
	assert.InDelta(t, 112.5, ea.Amount, 0.001)
	assert.InDelta(t, 112.5, eb.Amount, 0.001)
	assert.Equal(t, 113, RoundDollars(ea.Amount))

	assert.Zero(t, entryFor(t, entries, c.ID).Amount, "no second place in a tied-for-first week")
	assert.Zero(t, entryFor(t, entries, d.ID).Amount)
}

func TestComputeWeekTieForSecondSplitsSecondShare(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	matches := []models.Match{
		scoredMatch(a, b, ptr(70), ptr(72)),
		scoredMatch(c, d, ptr(72), ptr(80)),
	}

	entries := ComputeWeek(matches, testPool)

	assert.Equal(t, "1st", entryFor(t, entries, a.ID).Place)

	eb := entryFor(t, entries, b.ID)
	ec := entryFor(t, entries, c.ID)
	assert.Equal(t, "T2nd", eb.Place)
	assert.Equal(t, "T2nd", ec.Place)
	assert.InDelta(t, 225*0.222222/2, eb.Amount, 0.001)
	assert.Equal(t, eb.Amount, ec.Amount)
	assert.Equal(t, 25, RoundDollars(eb.Amount))

	assert.Zero(t, entryFor(t, entries, d.ID).Amount)
}

func TestComputeWeekThreeWayTieForSecond(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	e, f := newTeam("Evans"), newTeam("Frost")
	matches := []models.Match{
		scoredMatch(a, b, ptr(70), ptr(72)),
		scoredMatch(c, d, ptr(72), ptr(72)),
		scoredMatch(e, f, ptr(78), ptr(81)),
	}

	entries := ComputeWeek(matches, testPool)
	share := 225 * 0.222222 / 3
	for _, id := range []uuid.UUID{b.ID, c.ID, d.ID} {
		en := entryFor(t, entries, id)
		assert.Equal(t, "T2nd", en.Place)
		assert.InDelta(t, share, en.Amount, 0.001)
		assert.Equal(t, 17, RoundDollars(en.Amount))
	}
}

func TestComputeWeekMissingScoresSortLastAndNeverCash(t *testing.T) {
	a, b, c, d := newTeam("Adams"), newTeam("Baker"), newTeam("Cole"), newTeam("Drake")
	matches := []models.Match{
		scoredMatch(a, b, ptr(70), nil),
		scoredMatch(c, d, ptr(75), nil),
	}

	entries := ComputeWeek(matches, testPool)
	require.Len(t, entries, 4)

	// Entered scores lead, pending ones trail.
	assert.Equal(t, a.ID, entries[0].TeamID)
	assert.Equal(t, c.ID, entries[1].TeamID)
	assert.Nil(t, entries[2].Score)
	assert.Nil(t, entries[3].Score)

	// A pending runner-up score leaves the second share unpaid.
	assert.Equal(t, "1st", entries[0].Place)
	assert.Equal(t, "2nd", entries[1].Place)
	assert.Empty(t, entries[2].Place)
	assert.Empty(t, entries[3].Place)
}

func TestComputeWeekNoPayoutsWithoutARealBestScore(t *testing.T) {
	a, b := newTeam("Adams"), newTeam("Baker")

	tests := []struct {
		name string
		s1   *int
		s2   *int
	}{
		{name: "all pending", s1: nil, s2: nil},
		{name: "zero best score", s1: ptr(0), s2: ptr(42)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries := ComputeWeek([]models.Match{scoredMatch(a, b, tc.s1, tc.s2)}, testPool)
			for _, e := range entries {
				assert.Empty(t, e.Place)
				assert.Zero(t, e.Amount)
			}
		})
	}
}

func TestComputeWeekEmpty(t *testing.T) {
	assert.Empty(t, ComputeWeek(nil, testPool))
}

func TestRoundDollars(t *testing.T) {
	tests := []struct {
		input float64
		want  int
	}{
		{input: 112.5, want: 113},
		{input: 174.999825, want: 175},
		{input: 49.99995, want: 50},
		{input: 16.66665, want: 17},
		{input: 0.4, want: 0},
		{input: 0, want: 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, RoundDollars(tc.input))
	}
}
