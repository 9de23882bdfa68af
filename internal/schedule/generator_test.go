package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairKey normalizes a pairing so {A,B} and {B,A} compare equal.
func pairKey(a, b uuid.UUID) string {
	if a.String() > b.String() {
		a, b = b, a
	}
	return a.String() + "|" + b.String()
}

func newTeamIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestRoundRobinCoversAllPairsExactlyOnce(t *testing.T) {
	// With an even team count N and N-1 weeks, the circle method must produce
	// every unordered pair exactly once.
	for _, n := range []int{2, 4, 6, 8, 12} {
		t.Run(fmt.Sprintf("%d_teams", n), func(t *testing.T) {
			ids := newTeamIDs(n)
			weeks := roundRobin(ids, n-1, rand.New(rand.NewSource(1)))
			require.Len(t, weeks, n-1)

			seen := make(map[string]int)
			for _, week := range weeks {
				require.Len(t, week, n/2)
				for _, p := range week {
					seen[pairKey(p.Team1ID, p.Team2ID)]++
				}
			}

			assert.Len(t, seen, n*(n-1)/2, "every unordered pair should appear")
			for key, count := range seen {
				assert.Equal(t, 1, count, "pair %s repeated", key)
			}
		})
	}
}

func TestRoundRobinNoSelfPairing(t *testing.T) {
	ids := newTeamIDs(8)
	weeks := roundRobin(ids, 20, rand.New(rand.NewSource(7)))
	for _, week := range weeks {
		for _, p := range week {
			assert.NotEqual(t, p.Team1ID, p.Team2ID)
		}
	}
}

func TestRoundRobinEveryTeamPlaysOncePerWeek(t *testing.T) {
	ids := newTeamIDs(6)
	weeks := roundRobin(ids, 10, rand.New(rand.NewSource(3)))
	for i, week := range weeks {
		seen := make(map[uuid.UUID]bool)
		for _, p := range week {
			assert.False(t, seen[p.Team1ID], "week %d: team appears twice", i)
			assert.False(t, seen[p.Team2ID], "week %d: team appears twice", i)
			seen[p.Team1ID] = true
			seen[p.Team2ID] = true
		}
		assert.Len(t, seen, len(ids))
	}
}

func TestRoundRobinExtraWeeksProduceRematches(t *testing.T) {
	// The week count may exceed one full cycle on purpose; a second cycle
	// replays the rotation, so over 2*(N-1) weeks each pair appears twice.
	const n = 4
	ids := newTeamIDs(n)
	weeks := roundRobin(ids, 2*(n-1), rand.New(rand.NewSource(11)))

	seen := make(map[string]int)
	for _, week := range weeks {
		for _, p := range week {
			seen[pairKey(p.Team1ID, p.Team2ID)]++
		}
	}
	require.Len(t, seen, n*(n-1)/2)
	for key, count := range seen {
		assert.Equal(t, 2, count, "pair %s", key)
	}
}

func TestParseWeekDate(t *testing.T) {
	g := &Generator{teeHour: 8}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2024-05-07"},
		{name: "not a date", input: "next tuesday", wantErr: true},
		{name: "wrong format", input: "05/07/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.parseWeekDate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2024, got.Year())
			assert.Equal(t, 8, got.Hour(), "week dates carry the league tee hour")
		})
	}
}

func TestParseWeekDateHonorsTeeHour(t *testing.T) {
	g := &Generator{teeHour: 16}
	got, err := g.parseWeekDate("2024-05-07")
	require.NoError(t, err)
	assert.Equal(t, 16, got.Hour())
}
