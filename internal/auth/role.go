package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role int

const (
	RolePatient Role = iota + 1
	RoleDoctor
	RoleAdmin
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient":
		return RolePatient, nil
	case "doctor":
		return RoleDoctor, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Actor is whoever invokes an operation. For doctors ID is the doctor id,
// for patients the patient id.
type Actor struct {
	Role Role
	ID   uuid.UUID
	Name string
}

func (a Actor) Is(role Role) bool { return a.Role == role }

// Owns reports whether a is the patient or doctor identified by id.
func (a Actor) Owns(id uuid.UUID) bool {
	return a.ID != uuid.Nil && a.ID == id
}
