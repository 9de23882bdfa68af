// Package handlers contains HTTP route handler functions for the Golf League API.
// This file handles score entry. The admin matches screen posts a whole week of
// scores at once, so the handler updates them as a batch in one transaction and
// then pushes the fresh values to anyone watching the league live over the
// websocket hub.
package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/models"
	"github.com/sfinneral/golf-league-api/internal/websocket"
)

// UpdateScoresRequest is the batch body from the admin score-entry form.
// League is the slug, used to route the live broadcast.
type UpdateScoresRequest struct {
	League string               `json:"league"`
	Scores []ScoreUpdateRequest `json:"scores"`
}

// ScoreUpdateRequest sets one score row's stroke value. Strokes may be null to
// clear a mistakenly entered score back to "pending".
type ScoreUpdateRequest struct {
	ID      string `json:"id"`
	Strokes *int   `json:"strokes"`
}

// scoreBroadcast is the JSON shape pushed to websocket watchers per update.
type scoreBroadcast struct {
	ScoreID string `json:"score_id"`
	TeamID  string `json:"team_id"`
	Strokes *int   `json:"strokes"`
}

// UpdateScores returns a handler for PUT /api/v1/scores. Admin only.
// All updates land or none do; a validation failure halfway through a week of
// score entry must not leave the week half-saved.
func UpdateScores(db *gorm.DB, hub *websocket.Hub, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req UpdateScoresRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if len(req.Scores) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no scores to update"})
		}

		updated := make([]models.Score, 0, len(req.Scores))
		txErr := db.Transaction(func(tx *gorm.DB) error {
			for _, u := range req.Scores {
				id, err := uuid.Parse(u.ID)
				if err != nil {
					return gorm.ErrRecordNotFound
				}
				var score models.Score
				if err := tx.First(&score, "id = ?", id).Error; err != nil {
					return err
				}
				// Model+Update (not Save) so a nil strokes writes NULL instead of
				// being skipped as a zero value.
				if err := tx.Model(&score).Update("strokes", u.Strokes).Error; err != nil {
					return err
				}
				score.Strokes = u.Strokes
				updated = append(updated, score)
			}
			return nil
		})
		if txErr != nil {
			return errorStatus(c, txErr)
		}

		log.WithFields(logrus.Fields{
			"league": req.League,
			"count":  len(updated),
		}).Info("scores updated")

		// Push the new values to everyone watching this league live. Broadcast
		// failures don't exist — the hub drops slow clients itself.
		if req.League != "" {
			payload := make([]scoreBroadcast, 0, len(updated))
			for _, s := range updated {
				payload = append(payload, scoreBroadcast{
					ScoreID: s.ID.String(),
					TeamID:  s.TeamID.String(),
					Strokes: s.Strokes,
				})
			}
			if data, err := json.Marshal(payload); err == nil {
				hub.BroadcastToLeague(req.League, data)
			}
		}

		return c.JSON(fiber.Map{"updated": len(updated)})
	}
}
