// Package middleware contains HTTP middleware functions for the Golf League API.
// Middleware sits between the HTTP server and route handlers — it runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like authentication, logging, and rate limiting.
package middleware

import (
	"fmt"
	"strings"

	// fiber is the HTTP framework; fiber.Handler is the function signature for middleware
	"github.com/gofiber/fiber/v2"
	// jwt is used to parse and verify JSON Web Tokens from the Authorization header
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/sfinneral/golf-league-api/internal/config"
	"github.com/sfinneral/golf-league-api/internal/models"
)

// Claims defines the data we expect inside a league auth token.
// Subject carries the external identity provider's user ID; the custom claims
// populate our users table on first sight:
//
//	"role":       "admin" or "member"
//	"email":      the member's email address (our lookup key)
//	"first_name": given name
//	"last_name":  family name — also what team display names are built from
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT fields: Subject, ExpiresAt, IssuedAt, etc.
	Role                 string `json:"role"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
}

// Auth returns a Fiber middleware handler that:
//  1. Verifies the JWT from the "Authorization: Bearer <token>" header against
//     the configured HMAC secret
//  2. Finds the matching user in our database (or creates one on first visit)
//  3. Syncs the user's role from the token into the database
//  4. Stores the user's internal UUID and role in the request context (c.Locals)
//     so downstream handlers can read them without re-parsing the token
//
// This is a closure — a function that returns another function, capturing cfg and db
// in its scope so they're available every time a request comes in.
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		// Strip the "Bearer " prefix to get just the raw JWT string
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// Parse AND verify: the keyfunc hands the parser our HMAC secret, and the
		// parser checks the signature and expiry. WithValidMethods pins the
		// algorithm so a token can't downgrade us to "none".
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		if claims.Email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing email",
			})
		}

		// --- Lazy user sync ---
		// The first time a member hits any authenticated endpoint, we create their
		// record. On subsequent requests we just look them up by email.
		role := roleFromClaim(claims.Role)

		var user models.User
		result := db.Where("email = ?", claims.Email).First(&user)

		if result.Error != nil {
			// gorm.ErrRecordNotFound is the expected "not found"; anything else is a DB problem
			if result.Error != gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}

			user = models.User{
				Email:     claims.Email,
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
				Role:      role,
			}
			if user.LastName == "" {
				// A user with no last name would render blank in team names;
				// fall back to the mailbox part of their email.
				user.LastName = strings.Split(claims.Email, "@")[0]
			}
			if err := db.Create(&user).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create user record",
				})
			}
		} else {
			// User found — sync their role in case it changed upstream
			if user.Role != role && claims.Role != "" {
				db.Model(&user).Update("role", role)
				user.Role = role
			}
		}

		// c.Locals is a key-value store scoped to this single request.
		// Handlers and RequireRole read "userID" and "userRole" from here.
		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))

		return c.Next()
	}
}

// roleFromClaim converts the raw role string from the JWT into our typed UserRole.
// If the claim is missing or unrecognised, it defaults to "member" (least privileged).
func roleFromClaim(s string) models.UserRole {
	if s == "admin" {
		return models.UserRoleAdmin
	}
	return models.UserRoleMember
}
