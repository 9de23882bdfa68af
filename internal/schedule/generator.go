// Package schedule generates and amends a division's round-robin season.
//
// The generator uses the classic "circle method": split the shuffled roster into
// two rows, pair them column by column to form one week of matches, then rotate
// every team except a fixed anchor and repeat. For an even team count N, N-1
// rotations cover every unique pairing exactly once. The week count is caller
// supplied and may exceed N-1 on purpose — leagues often play more weeks than a
// single round-robin, so the rotation simply continues into a second cycle and
// rematches are legitimate.
//
// All multi-row writes (a generated schedule is many weeks, matches, and scores)
// run inside a single transaction so a crash mid-write can't leave a partially
// generated schedule behind.
package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/models"
)

// ErrValidation marks caller errors: bad input caught before any write.
// Handlers translate it to HTTP 400 (vs. gorm.ErrRecordNotFound → 404).
var ErrValidation = errors.New("invalid input")

// Pairing names the two teams of one match. Used both by the generator
// (algorithmic pairings) and AddWeek (explicit admin-chosen pairings).
type Pairing struct {
	Team1ID uuid.UUID
	Team2ID uuid.UUID
}

// Generator creates and amends schedules through the persistence layer.
type Generator struct {
	db      *gorm.DB
	teeHour int        // Local hour of day stamped on every generated week date
	rng     *rand.Rand // Seeded once at construction; tests inject a fixed seed
}

// NewGenerator returns a Generator writing through db. teeHour is the local
// hour each week's date carries (league convention, from config).
func NewGenerator(db *gorm.DB, teeHour int) *Generator {
	return &Generator{
		db:      db,
		teeHour: teeHour,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate builds a full round-robin schedule for a division: weekCount weeks
// starting at startDate ("YYYY-MM-DD"), each exactly 7 days after the previous,
// every match created with its two NULL scores. It fails fast — unknown league
// slug or division, an odd or too-small roster, or bad input all error before
// anything is written.
func (g *Generator) Generate(leagueSlug string, divisionID uuid.UUID, weekCount int, startDate string) (*models.Schedule, error) {
	if weekCount <= 0 {
		return nil, fmt.Errorf("%w: number of weeks must be a positive number", ErrValidation)
	}

	// Resolve the league by its URL slug. gorm.ErrRecordNotFound propagates to
	// the handler as a 404.
	var league models.League
	if err := g.db.Where("slug = ?", leagueSlug).First(&league).Error; err != nil {
		return nil, err
	}

	// The division must exist and belong to this league.
	var division models.Division
	if err := g.db.Where("id = ? AND league_id = ?", divisionID, league.ID).First(&division).Error; err != nil {
		return nil, err
	}

	// One schedule per division. The DB has a unique index as the backstop, but
	// checking here gives the admin a readable error instead of a constraint dump.
	var existing int64
	if err := g.db.Model(&models.Schedule{}).Where("division_id = ?", divisionID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: division already has a schedule", ErrValidation)
	}

	var teams []models.Team
	if err := g.db.Where("division_id = ?", divisionID).Find(&teams).Error; err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: division needs at least 2 teams to schedule", ErrValidation)
	}
	if len(teams)%2 != 0 {
		// The circle method splits the roster exactly in half; there is no bye
		// mechanism, so an odd roster is a caller error.
		return nil, fmt.Errorf("%w: division has %d teams; an even count is required", ErrValidation, len(teams))
	}

	start, err := g.parseWeekDate(startDate)
	if err != nil {
		return nil, err
	}

	teamIDs := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}
	weeks := roundRobin(teamIDs, weekCount, g.rng)

	var schedule models.Schedule
	txErr := g.db.Transaction(func(tx *gorm.DB) error {
		schedule = models.Schedule{
			LeagueID:   league.ID,
			DivisionID: division.ID,
		}
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}

		for i, pairings := range weeks {
			// Each subsequent week is exactly 7 days after the previous.
			date := start.AddDate(0, 0, 7*i)
			if err := createWeek(tx, schedule.ID, date, pairings); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return GetByID(g.db, schedule.ID)
}

// AddWeek appends one manually-paired week to an existing schedule — used for
// makeup weeks where the admin picks the pairings instead of the rotation.
// Unlike the generator it accepts any non-empty pairing list, but a team may
// appear only once across the week and may not play itself.
func (g *Generator) AddWeek(scheduleID uuid.UUID, date string, pairings []Pairing) (*models.Week, error) {
	var schedule models.Schedule
	if err := g.db.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		return nil, err
	}

	if len(pairings) == 0 {
		return nil, fmt.Errorf("%w: a week needs at least one match", ErrValidation)
	}
	seen := make(map[uuid.UUID]bool, len(pairings)*2)
	for _, p := range pairings {
		if p.Team1ID == p.Team2ID {
			return nil, fmt.Errorf("%w: a team cannot play itself", ErrValidation)
		}
		if seen[p.Team1ID] || seen[p.Team2ID] {
			return nil, fmt.Errorf("%w: a team can only play once per week", ErrValidation)
		}
		seen[p.Team1ID] = true
		seen[p.Team2ID] = true
	}

	when, err := g.parseWeekDate(date)
	if err != nil {
		return nil, err
	}

	var weekID uuid.UUID
	txErr := g.db.Transaction(func(tx *gorm.DB) error {
		id, err := createWeekReturning(tx, schedule.ID, when, pairings)
		weekID = id
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	var week models.Week
	if err := g.db.Preload("Matches.Scores").Preload("Matches.Teams.Users").First(&week, "id = ?", weekID).Error; err != nil {
		return nil, err
	}
	return &week, nil
}

// RemoveWeek deletes a week by ID. Matches and scores go with it via the
// database's cascading foreign keys. Removal is unconditional — there is no
// guard against deleting a week with entered scores.
func (g *Generator) RemoveWeek(weekID uuid.UUID) error {
	res := g.db.Delete(&models.Week{}, "id = ?", weekID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByDivision drops a division's schedule (weeks, matches, and scores
// cascade), clearing the way for regeneration.
func (g *Generator) DeleteByDivision(divisionID uuid.UUID) error {
	res := g.db.Delete(&models.Schedule{}, "division_id = ?", divisionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// parseWeekDate parses a "YYYY-MM-DD" form value and stamps the league's tee
// hour on it. Non-dates are a validation error, caught before any write.
func (g *Generator) parseWeekDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrValidation)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), g.teeHour, 0, 0, 0, time.Local), nil
}

// createWeek persists one week with its matches and paired NULL scores.
func createWeek(tx *gorm.DB, scheduleID uuid.UUID, date time.Time, pairings []Pairing) error {
	_, err := createWeekReturning(tx, scheduleID, date, pairings)
	return err
}

func createWeekReturning(tx *gorm.DB, scheduleID uuid.UUID, date time.Time, pairings []Pairing) (uuid.UUID, error) {
	week := models.Week{ScheduleID: scheduleID, Date: date}
	if err := tx.Create(&week).Error; err != nil {
		return uuid.Nil, err
	}

	for _, p := range pairings {
		match := models.Match{WeekID: week.ID}
		if err := tx.Create(&match).Error; err != nil {
			return uuid.Nil, err
		}
		// Join rows are inserted directly so GORM doesn't re-save the teams.
		joins := []models.MatchTeam{
			{MatchID: match.ID, TeamID: p.Team1ID},
			{MatchID: match.ID, TeamID: p.Team2ID},
		}
		if err := tx.Create(&joins).Error; err != nil {
			return uuid.Nil, err
		}
		// The two score rows are created atomically with the match, strokes NULL.
		// A match without an entered score is represented by these NULLs — there
		// is never a match missing a score row.
		scores := []models.Score{
			{MatchID: match.ID, TeamID: p.Team1ID},
			{MatchID: match.ID, TeamID: p.Team2ID},
		}
		if err := tx.Create(&scores).Error; err != nil {
			return uuid.Nil, err
		}
	}
	return week.ID, nil
}

// roundRobin produces weekCount weeks of pairings via the circle method.
//
// The roster is shuffled, split in half, and the first half is shuffled again
// so the starting columns are random. Each iteration pairs the rows column by
// column, then rotates: rowB's head slides into rowA right behind the fixed
// anchor at rowA[0], and rowA's tail drops onto the end of rowB. Everything
// except the anchor cycles through every position, which is what guarantees
// full pair coverage over len(teams)-1 rounds.
func roundRobin(teamIDs []uuid.UUID, weekCount int, rng *rand.Rand) [][]Pairing {
	ids := make([]uuid.UUID, len(teamIDs))
	copy(ids, teamIDs)
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	half := len(ids) / 2
	rowB := make([]uuid.UUID, half)
	copy(rowB, ids[:half])
	rng.Shuffle(len(rowB), func(i, j int) { rowB[i], rowB[j] = rowB[j], rowB[i] })
	rowA := make([]uuid.UUID, half)
	copy(rowA, ids[half:])

	weeks := make([][]Pairing, 0, weekCount)
	for w := 0; w < weekCount; w++ {
		pairings := make([]Pairing, half)
		for i := 0; i < half; i++ {
			pairings[i] = Pairing{Team1ID: rowA[i], Team2ID: rowB[i]}
		}
		weeks = append(weeks, pairings)

		// Rotate. rowA temporarily grows to half+1 while rowB's head is spliced
		// in at index 1; rowA's last element then migrates to the end of rowB.
		grown := make([]uuid.UUID, 0, half+1)
		grown = append(grown, rowA[0], rowB[0])
		grown = append(grown, rowA[1:]...)
		rowB = append(rowB[1:], grown[half])
		rowA = grown[:half]
	}
	return weeks
}

// GetByID loads one schedule with everything the views need: division, weeks in
// date order, matches, scores, and the teams (with members, for display names).
func GetByID(db *gorm.DB, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := preloadFull(db).First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ByLeagueSlug loads every schedule in a league, one per division, fully
// preloaded. An unknown slug simply yields an empty slice — callers render
// "no schedule yet" rather than an error page.
func ByLeagueSlug(db *gorm.DB, slug string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := preloadFull(db).
		Joins("JOIN leagues ON leagues.id = schedules.league_id").
		Where("leagues.slug = ?", slug).
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// preloadFull attaches the nested associations shared by every schedule read.
// Weeks are explicitly ordered by date — standings fold weeks chronologically
// and the carousel views page through them in calendar order.
func preloadFull(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Division").
		Preload("Weeks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("weeks.date ASC")
		}).
		Preload("Weeks.Matches").
		Preload("Weeks.Matches.Scores").
		Preload("Weeks.Matches.Teams.Users").
		Preload("Weeks.Winners")
}
