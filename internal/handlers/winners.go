// Package handlers contains HTTP route handler functions for the Golf League API.
// This file handles the weekly payout routes: viewing a week's computed results
// (who placed, who cashed) and persisting the winners.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/config"
	"github.com/sfinneral/golf-league-api/internal/payout"
)

// WeekResultResponse is one team's line in the week results view. Teams that
// didn't cash have an empty place and zero amount; AmountWon is the whole-dollar
// figure that would be (or was) persisted.
type WeekResultResponse struct {
	TeamID    string `json:"team_id"`
	TeamName  string `json:"team_name"`
	Score     *int   `json:"score"`
	Place     string `json:"place,omitempty"`
	AmountWon int    `json:"amount_won"`
}

// poolFromConfig builds the week's payout convention from league settings.
func poolFromConfig(cfg *config.Config) payout.Pool {
	return payout.Pool{
		Total:       cfg.WeeklyPayout,
		FirstShare:  cfg.FirstPlaceShare,
		SecondShare: cfg.SecondPlaceShare,
	}
}

// GetWeekResults returns a handler for GET /api/v1/weeks/:weekId/results.
// Pure computation over the week's current scores — nothing is persisted. A
// week with pending or zero scores degrades to a list with no payouts, which
// is a normal mid-week state, not an error.
func GetWeekResults(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		weekID, err := uuid.Parse(c.Params("weekId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid week ID"})
		}

		entries, err := payout.ComputeForWeek(db, weekID, poolFromConfig(cfg))
		if err != nil {
			return errorStatus(c, err)
		}
		return c.JSON(resultsResponse(entries))
	}
}

// SaveWeekWinners returns a handler for POST /api/v1/weeks/:weekId/winners.
// Admin only. Recomputes the week from its current scores and replaces the
// persisted Winner rows (delete-then-insert), so re-running after a score
// correction always yields exactly the recomputed set.
func SaveWeekWinners(db *gorm.DB, cfg *config.Config, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		weekID, err := uuid.Parse(c.Params("weekId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid week ID"})
		}

		entries, err := payout.ComputeForWeek(db, weekID, poolFromConfig(cfg))
		if err != nil {
			return errorStatus(c, err)
		}
		if err := payout.SaveWinners(db, weekID, entries); err != nil {
			return errorStatus(c, err)
		}

		log.WithField("week", weekID).Info("winners recomputed and saved")
		return c.JSON(resultsResponse(entries))
	}
}

func resultsResponse(entries []payout.Entry) []WeekResultResponse {
	response := make([]WeekResultResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, WeekResultResponse{
			TeamID:    e.TeamID.String(),
			TeamName:  e.TeamName,
			Score:     e.Score,
			Place:     e.Place,
			AmountWon: payout.RoundDollars(e.Amount),
		})
	}
	return response
}
