// Package model defines the core domain types for the portfolio/CMS backend.
package model

import "time"

// Formation levels.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Publication statuses shared by formations and projects.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Formation represents a course offering with limited capacity.
type Formation struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Level               string     `json:"level"`
	Price               float64    `json:"price"`
	MaxParticipants     int        `json:"max_participants"`
	CurrentParticipants int        `json:"current_participants"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	Schedule            string     `json:"schedule,omitempty"`
	Status              string     `json:"status"`
	Featured            bool       `json:"featured"`
	Views               int        `json:"views"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Remaining returns the number of available seats.
func (f *Formation) Remaining() int {
	return f.MaxParticipants - f.CurrentParticipants
}

// IsFull returns true when no seats remain.
func (f *Formation) IsFull() bool {
	return f.CurrentParticipants >= f.MaxParticipants
}

// ValidLevel reports whether s is a known formation level.
func ValidLevel(s string) bool {
	return s == LevelBeginner || s == LevelIntermediate || s == LevelAdvanced
}

// ValidPublicationStatus reports whether s is a known publication status.
func ValidPublicationStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// CreateFormationRequest is the payload for creating a new formation.
type CreateFormationRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Level           string     `json:"level"`
	Price           float64    `json:"price"`
	MaxParticipants int        `json:"max_participants"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Schedule        string     `json:"schedule"`
	Status          string     `json:"status"`
	Featured        bool       `json:"featured"`
}

// FormationPatch is an explicit allow-list of updatable formation fields.
// Only non-nil fields are written.
type FormationPatch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Level           *string    `json:"level"`
	Price           *float64   `json:"price"`
	MaxParticipants *int       `json:"max_participants"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Schedule        *string    `json:"schedule"`
	Status          *string    `json:"status"`
	Featured        *bool      `json:"featured"`
}

// FormationFilter narrows formation listings.
type FormationFilter struct {
	Category string
	Level    string
	Status   string
	Featured *bool
	Sort     string
	Limit    int
	Offset   int
}
