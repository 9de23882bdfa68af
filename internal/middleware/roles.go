// Package middleware contains HTTP middleware functions for the Golf League API.
// This file handles role-based access control — checking that the authenticated
// user has permission to perform the requested action.
package middleware

// roles.go — Role-based access control middleware.
// The league has two roles: admin (runs schedules, scores, payouts) and member.
// Apply RequireRole to any route that mutates league data.

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only users whose role
// matches one of the provided roles. Returns HTTP 403 Forbidden if the role
// doesn't match.
//
// It accepts a variadic list of roles ("..." syntax) so a route can allow one
// or more roles with a single call:
//
//	api.Post("/scores", middleware.RequireRole("admin"), handlers.UpdateScores(db, hub, log))
//
// RequireRole must be used AFTER the Auth middleware, because Auth is what
// populates the "userRole" value in the request context via c.Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The .(string) is a type assertion; ok is false if Auth never ran.
		userRole, ok := c.Locals("userRole").(string)
		if !ok || userRole == "" {
			// No role means the Auth middleware wasn't applied or failed silently —
			// deny with 403 (not 401: the user may be authenticated but roleless).
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, role := range roles {
			if userRole == role {
				// Role is allowed — pass the request to the next handler
				return c.Next()
			}
		}

		// Authenticated but not authorized for this action.
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
