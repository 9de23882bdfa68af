// Package handlers contains HTTP route handler functions for the Golf League API.
// This file handles the standings route — the ranked per-division tables members
// check all season. Standings are recomputed from scratch on every request; the
// handler's job is just fetching, delegating to the standings package, and
// attaching the display strings (place label, to-par) whose semantics live with
// the aggregator.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/config"
	"github.com/sfinneral/golf-league-api/internal/standings"
)

// StandingsResponse is one division's ranked table.
type StandingsResponse struct {
	DivisionID   string            `json:"division_id"`
	DivisionName string            `json:"division_name"`
	Standings    []StandingEntryUI `json:"standings"`
}

// StandingEntryUI is a standings row plus the derived display fields.
type StandingEntryUI struct {
	standings.Standing
	Place string `json:"place"`  // "1", "T2", ...
	ToPar string `json:"to_par"` // "EVEN", "+12", "-3"
}

// GetStandings returns a handler for GET /api/v1/leagues/:league/standings.
// Optional query param ?tiebreak=scorediff orders point-tied teams by score
// differential instead of discovery order. A slug that resolves to no
// schedules yields an empty list — "no standings yet", not an error.
func GetStandings(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts := standings.Options{
			ParPerMatch: cfg.ParPerMatch,
			TieBreak:    standings.TieBreak(c.Query("tiebreak")),
		}

		tables, err := standings.ByLeagueSlug(db, c.Params("league"), opts)
		if err != nil {
			return errorStatus(c, err)
		}

		response := make([]StandingsResponse, 0, len(tables))
		for _, table := range tables {
			rows := make([]StandingEntryUI, 0, len(table.Standings))
			for i, s := range table.Standings {
				rows = append(rows, StandingEntryUI{
					Standing: s,
					Place:    standings.Place(table.Standings, i),
					ToPar:    standings.ToPar(s.TotalScore, len(s.MatchRecord), cfg.ParPerMatch),
				})
			}
			response = append(response, StandingsResponse{
				DivisionID:   table.Division.ID.String(),
				DivisionName: table.Division.Name,
				Standings:    rows,
			})
		}
		return c.JSON(response)
	}
}
