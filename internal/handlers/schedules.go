// Package handlers contains HTTP route handler functions for the Golf League API.
// This file handles the schedule routes — viewing a league's schedules, generating
// a division's round-robin season, and amending it week by week.
//
// Each exported function follows the "handler factory" pattern: it takes its
// dependencies (the database, the schedule generator) and returns a fiber.Handler
// (a function that handles a single HTTP request). This lets us inject
// dependencies without using global variables.
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/models"
	"github.com/sfinneral/golf-league-api/internal/schedule"
)

// ScheduleResponse is one division's schedule as the app renders it:
// weeks in date order, each with its matches and named score lines.
type ScheduleResponse struct {
	ID           string         `json:"id"`
	DivisionID   string         `json:"division_id"`
	DivisionName string         `json:"division_name"`
	Weeks        []WeekResponse `json:"weeks"`
}

// WeekResponse is one calendar date of play.
type WeekResponse struct {
	ID      string           `json:"id"`
	Date    string           `json:"date"` // ISO 8601 timestamp
	Matches []MatchResponse  `json:"matches"`
	Winners []WinnerResponse `json:"winners"`
}

// MatchResponse is one pairing with its two score lines.
type MatchResponse struct {
	ID     string              `json:"id"`
	Scores []ScoreLineResponse `json:"scores"`
}

// ScoreLineResponse is one team's line in a match: who, and how many strokes
// (null until entered).
type ScoreLineResponse struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Strokes  *int   `json:"strokes"`
}

// WinnerResponse is one persisted payout row for the week.
type WinnerResponse struct {
	TeamID    string `json:"team_id"`
	AmountWon int    `json:"amount_won"`
}

// CreateScheduleRequest is the JSON body for generating a division's schedule.
// NumberOfWeeks arrives as user-typed text from the admin form and is parsed
// (and rejected if non-numeric) before generation begins.
type CreateScheduleRequest struct {
	NumberOfWeeks string `json:"number_of_weeks"`
	StartDate     string `json:"start_date"` // "YYYY-MM-DD"
}

// AddWeekRequest is the JSON body for manually appending a week — the admin
// picks the date and the explicit pairings (e.g., a makeup week).
type AddWeekRequest struct {
	Date    string           `json:"date"` // "YYYY-MM-DD"
	Matches []PairingRequest `json:"matches"`
}

// PairingRequest names the two teams of one manual match.
type PairingRequest struct {
	Team1ID string `json:"team1_id"`
	Team2ID string `json:"team2_id"`
}

// errorStatus maps core errors onto HTTP statuses: validation problems are the
// caller's fault (400), unresolvable slugs/IDs are 404, everything else is a
// server-side 500. Partial data never reaches here — it isn't an error.
func errorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, schedule.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}

// GetSchedules returns a handler for GET /api/v1/leagues/:league/schedules.
// An unknown slug returns an empty list — the page renders "no schedule yet".
func GetSchedules(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schedules, err := schedule.ByLeagueSlug(db, c.Params("league"))
		if err != nil {
			return errorStatus(c, err)
		}

		response := make([]ScheduleResponse, 0, len(schedules))
		for _, s := range schedules {
			response = append(response, scheduleResponse(s))
		}
		return c.JSON(response)
	}
}

// CreateSchedule returns a handler for
// POST /api/v1/leagues/:league/divisions/:divisionId/schedule.
// Admin only (enforced by RequireRole on the route). Generates the full
// round-robin season for the division in one transaction.
func CreateSchedule(gen *schedule.Generator, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		divisionID, err := uuid.Parse(c.Params("divisionId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid division ID"})
		}

		var req CreateScheduleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		// The week count is free text from the admin form; reject anything that
		// isn't a positive whole number before touching the database.
		weekCount, err := strconv.Atoi(req.NumberOfWeeks)
		if err != nil || weekCount <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "number_of_weeks must be a positive whole number",
			})
		}

		created, err := gen.Generate(c.Params("league"), divisionID, weekCount, req.StartDate)
		if err != nil {
			return errorStatus(c, err)
		}

		log.WithFields(logrus.Fields{
			"league":   c.Params("league"),
			"division": divisionID,
			"weeks":    weekCount,
		}).Info("schedule generated")

		return c.Status(fiber.StatusCreated).JSON(scheduleResponse(*created))
	}
}

// DeleteSchedule returns a handler for DELETE /api/v1/divisions/:divisionId/schedule.
// Weeks, matches, and scores cascade away with it.
func DeleteSchedule(gen *schedule.Generator, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		divisionID, err := uuid.Parse(c.Params("divisionId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid division ID"})
		}

		if err := gen.DeleteByDivision(divisionID); err != nil {
			return errorStatus(c, err)
		}

		log.WithField("division", divisionID).Info("schedule deleted")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddWeek returns a handler for POST /api/v1/schedules/:scheduleId/weeks.
// The pairings come from the admin, not the rotation; the generator validates
// that no team appears twice in the week.
func AddWeek(gen *schedule.Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheduleID, err := uuid.Parse(c.Params("scheduleId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid schedule ID"})
		}

		var req AddWeekRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		pairings := make([]schedule.Pairing, 0, len(req.Matches))
		for _, m := range req.Matches {
			team1, err1 := uuid.Parse(m.Team1ID)
			team2, err2 := uuid.Parse(m.Team2ID)
			if err1 != nil || err2 != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid team ID in pairings"})
			}
			pairings = append(pairings, schedule.Pairing{Team1ID: team1, Team2ID: team2})
		}

		week, err := gen.AddWeek(scheduleID, req.Date, pairings)
		if err != nil {
			return errorStatus(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(weekResponse(*week))
	}
}

// RemoveWeek returns a handler for DELETE /api/v1/weeks/:weekId.
// Unconditional — entered scores do not protect a week from deletion.
func RemoveWeek(gen *schedule.Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		weekID, err := uuid.Parse(c.Params("weekId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid week ID"})
		}

		if err := gen.RemoveWeek(weekID); err != nil {
			return errorStatus(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// scheduleResponse flattens a fully-preloaded schedule for JSON.
func scheduleResponse(s models.Schedule) ScheduleResponse {
	weeks := make([]WeekResponse, 0, len(s.Weeks))
	for _, w := range s.Weeks {
		weeks = append(weeks, weekResponse(w))
	}
	return ScheduleResponse{
		ID:           s.ID.String(),
		DivisionID:   s.DivisionID.String(),
		DivisionName: s.Division.Name,
		Weeks:        weeks,
	}
}

func weekResponse(w models.Week) WeekResponse {
	matches := make([]MatchResponse, 0, len(w.Matches))
	for _, m := range w.Matches {
		matches = append(matches, matchResponse(m))
	}
	winners := make([]WinnerResponse, 0, len(w.Winners))
	for _, win := range w.Winners {
		winners = append(winners, WinnerResponse{
			TeamID:    win.TeamID.String(),
			AmountWon: win.Amount,
		})
	}
	return WeekResponse{
		ID:      w.ID.String(),
		Date:    w.Date.UTC().Format(time.RFC3339),
		Matches: matches,
		Winners: winners,
	}
}

func matchResponse(m models.Match) MatchResponse {
	lines := make([]ScoreLineResponse, 0, len(m.Scores))
	for _, s := range m.Scores {
		lines = append(lines, ScoreLineResponse{
			ID:       s.ID.String(),
			TeamID:   s.TeamID.String(),
			TeamName: m.TeamName(s.TeamID),
			Strokes:  s.Strokes,
		})
	}
	// DisplayFlipped is the per-match presentation override (who lists first);
	// it only ever swaps the two lines, never the underlying data.
	if m.DisplayFlipped && len(lines) == 2 {
		lines[0], lines[1] = lines[1], lines[0]
	}
	return MatchResponse{ID: m.ID.String(), Scores: lines}
}
