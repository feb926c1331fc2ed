package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	IsActive       bool      `json:"isActive"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewDoctor is the admin's create request. Active defaults to true.
type NewDoctor struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization string  `json:"specialization"`
	IsActive       *bool   `json:"isActive,omitempty"`
	Rating         float64 `json:"rating"`
}
