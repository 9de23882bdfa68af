// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model represents a recreational golf league:
//   - A Course hosts one or more Leagues (a season of weekly two-person team play)
//   - A League is split into Divisions, each of which plays its own Schedule
//   - A Schedule is an ordered sequence of Weeks; each Week holds paired Matches
//   - A Match has exactly two Teams and exactly two Scores (one per team),
//     created together with the match; a Score's stroke value is NULL until entered
//   - A Week may carry Winner rows — the weekly payout results, recomputed by an
//     admin whenever scores change
//
// Standings are NOT a table. They are derived from scratch on every request by
// the standings package, so there is nothing to keep in sync here.
package models

import (
	"strings"
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// Using UUIDs instead of auto-incrementing integers makes IDs safe to generate
	// client-side and avoids leaking record counts to end users.
	"github.com/google/uuid"
)

// --- Enums ---
// Go doesn't have a built-in enum keyword, so we simulate them using a named string type
// plus constants. The values stay human-readable in the database.

// UserRole represents a user's permission level across the league platform.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"  // Runs the league: schedules, score entry, payouts
	UserRoleMember UserRole = "member" // Regular league member: views schedules and standings
)

// MatchOutcome is the single-letter result recorded in a team's match history.
type MatchOutcome string

const (
	OutcomeWin  MatchOutcome = "w"
	OutcomeLoss MatchOutcome = "l"
	OutcomeTie  MatchOutcome = "t"
)

// --- Models ---
// Each struct below maps to a database table. GORM uses the struct name (snake_cased and
// pluralized) as the table name by default: User -> users, Week -> weeks, etc.

// User is a registered league member. FirstName/LastName drive team display names
// (a team shows as the two members' last names joined with " / ").
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	Phone     *string   // Optional; pointer = nullable in the DB
	Role      UserRole  `gorm:"type:user_role;not null;default:'member'"`
	CreatedAt time.Time // GORM automatically sets this on create
	UpdatedAt time.Time // GORM automatically updates this on every save
}

// Course is the golf course a league plays at.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	State     string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Leagues   []League `gorm:"foreignKey:CourseID"` // One-to-many: a course can host several leagues
}

// League is one season of play at a course. The Slug is the opaque string key used
// in URLs ("/api/v1/leagues/:league/...") — every read in the API resolves a slug first.
type League struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"` // URL key, e.g. "stonybrook-2024"
	StartDate *time.Time
	CourseID  uuid.UUID `gorm:"type:uuid;not null"`
	Course    Course    `gorm:"foreignKey:CourseID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Divisions []Division `gorm:"foreignKey:LeagueID"`
	Teams     []Team     `gorm:"foreignKey:LeagueID"`
}

// Division is a sub-group of teams within a league that plays its own schedule
// and has its own standings table.
type Division struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	LeagueID uuid.UUID `gorm:"type:uuid;not null"`
	League   League    `gorm:"foreignKey:LeagueID"`
	Teams    []Team    `gorm:"foreignKey:DivisionID"`
	// Schedule is a pointer because a division may not have generated one yet.
	Schedule  *Schedule `gorm:"foreignKey:DivisionID"`
	CreatedAt time.Time
}

// Team is a two-person side. Membership is a many2many join table (team_users)
// because users can appear on different teams across seasons. The core treats a
// team as an opaque ID plus the display name derived from its members.
type Team struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeagueID   uuid.UUID `gorm:"type:uuid;not null"`
	League     League    `gorm:"foreignKey:LeagueID"`
	DivisionID uuid.UUID `gorm:"type:uuid;not null"`
	Division   Division  `gorm:"foreignKey:DivisionID"`
	Users      []User    `gorm:"many2many:team_users"`
	CreatedAt  time.Time
}

// DisplayName builds the team's name from its members' last names, e.g.
// "Finneral / Ryan". A team with no preloaded users renders as an empty string,
// so callers must Preload("Users") (or "Teams.Users") before using this.
func (t Team) DisplayName() string {
	names := make([]string, 0, len(t.Users))
	for _, u := range t.Users {
		names = append(names, u.LastName)
	}
	return strings.Join(names, " / ")
}

// Schedule is a division's season: an ordered sequence of weeks. One schedule per
// division at a time — enforced by a unique index on DivisionID.
type Schedule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeagueID   uuid.UUID `gorm:"type:uuid;not null"`
	League     League    `gorm:"foreignKey:LeagueID"`
	DivisionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedules_division"`
	Division   Division  `gorm:"foreignKey:DivisionID"`
	// Weeks are kept in date order; standings and the schedule views both rely on it.
	Weeks     []Week `gorm:"foreignKey:ScheduleID"`
	CreatedAt time.Time
}

// Week is one calendar date of play within a schedule.
type Week struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null"`
	Schedule   Schedule  `gorm:"foreignKey:ScheduleID"`
	Date       time.Time `gorm:"not null"`
	Matches    []Match   `gorm:"foreignKey:WeekID"`
	// Winners are derived payout rows, recomputed and replaced wholesale whenever
	// an admin recalculates the week — never patched incrementally.
	Winners   []Winner `gorm:"foreignKey:WeekID"`
	CreatedAt time.Time
}

// Match pairs exactly two teams in a week. The two Score rows are created in the
// same transaction as the match (stroke value NULL), so a match always has both.
type Match struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WeekID uuid.UUID `gorm:"type:uuid;not null"`
	Week   Week      `gorm:"foreignKey:WeekID"`
	Teams  []Team    `gorm:"many2many:match_teams"`
	Scores []Score   `gorm:"foreignKey:MatchID"`
	// DisplayFlipped swaps the order the two score lines render in. This replaced
	// an old env-var hack that flipped playoff participants process-wide; the
	// override now lives on the row it applies to.
	DisplayFlipped bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// TeamName returns the display name of one of this match's two teams.
// Requires Teams (and their Users) to be preloaded.
func (m Match) TeamName(teamID uuid.UUID) string {
	for _, team := range m.Teams {
		if team.ID == teamID {
			return team.DisplayName()
		}
	}
	return ""
}

// MatchTeam is the join row linking a match to one of its two teams. The Match
// model's many2many tag handles reads (preloads); this struct exists so writers
// can insert join rows directly without GORM re-saving the team records.
type MatchTeam struct {
	MatchID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamID  uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName points GORM at the same table the many2many tag on Match.Teams uses.
func (MatchTeam) TableName() string { return "match_teams" }

// Score is one team's recorded stroke total for one match.
// Strokes is a pointer: NULL means "not entered yet". A match with either score
// still NULL contributes nothing to standings and nothing to payouts.
type Score struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null"`
	Match     Match     `gorm:"foreignKey:MatchID"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null"`
	Team      Team      `gorm:"foreignKey:TeamID"`
	Strokes   *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Winner is a persisted payout entry: this team won this amount in this week.
// Amounts are whole dollars (rounded before insert). A week with tied winners
// has multiple rows; a week with no computed winners has none.
type Winner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WeekID    uuid.UUID `gorm:"type:uuid;not null"`
	Week      Week      `gorm:"foreignKey:WeekID"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null"`
	Team      Team      `gorm:"foreignKey:TeamID"`
	Amount    int       `gorm:"not null"` // Whole dollars, always positive
	CreatedAt time.Time
}
