package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is owned by the profile subsystem. The workflow core reads it
// for disclosure and mutates exactly one field: Available, flipped by the
// hiring outcome tracker.
type Candidate struct {
	Versioned

	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Headline string    `json:"headline"`
	Summary  string    `json:"summary"`

	PhotoURL     string `json:"photo_url"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`

	Available bool `json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Candidate) GetID() string {
	return c.ID.String()
}
