// cmd/server/main.go
// This is the entry point for the Golf League API server.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds
// executable binaries, and internal/ holds packages not meant to be imported by
// other projects.
package main

import (
	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing — allows the web app to talk to
	// the API even though they're running on different origins (hosts/ports)
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// logrus is the structured application logger — startup, schedule generation,
	// payout saves, and other domain events log through it with fields attached
	"github.com/sirupsen/logrus"

	// Internal packages — our own code, imported by module path
	"github.com/sfinneral/golf-league-api/internal/config"
	"github.com/sfinneral/golf-league-api/internal/database"
	"github.com/sfinneral/golf-league-api/internal/handlers"
	"github.com/sfinneral/golf-league-api/internal/middleware"
	"github.com/sfinneral/golf-league-api/internal/schedule"
	"github.com/sfinneral/golf-league-api/internal/websocket"
)

func main() {
	// Structured logging from the first line. JSON in production so the log
	// aggregator can index fields; readable text everywhere else.
	log := logrus.New()

	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()
	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to the PostgreSQL database.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Run any pending SQL migration files. Running them on startup ensures the
	// database schema is always in sync when the server starts.
	if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// The WebSocket Hub manages live connections — members watching scores come
	// in as an admin enters them. "go hub.Run()" starts its event loop as a
	// goroutine so it processes in the background without blocking startup.
	hub := websocket.NewHub()
	go hub.Run()

	// The schedule generator carries the league's tee-hour convention and its
	// own random source for the round-robin shuffle.
	gen := schedule.NewGenerator(db, cfg.TeeHour)

	app := fiber.New(fiber.Config{
		AppName: "Golf League API",
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	app.Use(logger.New())
	// cors.New() allows requests from any origin (needed for the web app in
	// development). In production, lock this down to your specific domain.
	app.Use(cors.New())

	// --- Public routes (no auth required) ---
	// GET /health is a liveness check used by load balancers and container probes.
	app.Get("/health", handlers.HealthCheck)

	// --- Authenticated API routes ---
	// All routes under /api/v1 require a valid JWT; middleware.Auth validates the
	// token AND syncs the user into our database. Mutating routes additionally
	// require the "admin" role.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))
	admin := middleware.RequireRole("admin")

	// Schedules: the full season view, generation, and manual amendment.
	api.Get("/leagues/:league/schedules", handlers.GetSchedules(db))
	api.Post("/leagues/:league/divisions/:divisionId/schedule", admin, handlers.CreateSchedule(gen, log))
	api.Delete("/divisions/:divisionId/schedule", admin, handlers.DeleteSchedule(gen, log))
	api.Post("/schedules/:scheduleId/weeks", admin, handlers.AddWeek(gen))
	api.Delete("/weeks/:weekId", admin, handlers.RemoveWeek(gen))

	// Scores: batch entry from the admin matches screen, broadcast live.
	api.Put("/scores", admin, handlers.UpdateScores(db, hub, log))

	// Standings: recomputed per request, never cached.
	api.Get("/leagues/:league/standings", handlers.GetStandings(db, cfg))

	// Weekly results and payouts.
	api.Get("/weeks/:weekId/results", handlers.GetWeekResults(db, cfg))
	api.Post("/weeks/:weekId/winners", admin, handlers.SaveWeekWinners(db, cfg, log))

	// Start listening for HTTP connections on the configured port.
	// ":" + cfg.Port produces a string like ":8080" — listen on all interfaces.
	log.WithField("port", cfg.Port).Info("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
