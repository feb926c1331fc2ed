package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusRejected  Status = "Rejected"
)

var allStatuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected}

// ActiveStatuses hold a slot. At most one booking per slot may be in one of them.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// ParseStatus is case-insensitive.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

func (s Status) Valid() bool {
	return containsStatus(allStatuses, s)
}

// Active reports whether s holds the slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Booking struct {
	ID             uuid.UUID          `json:"id"`
	PatientID      uuid.UUID          `json:"patientId"`
	PatientName    string             `json:"patientName"`
	PatientEmail   string             `json:"patientEmail,omitempty"`
	PatientPhone   string             `json:"patientPhone"`
	PatientGender  string             `json:"patientGender"`
	PatientAge     int                `json:"patientAge"`
	DoctorID       uuid.UUID          `json:"doctorId"`
	DoctorName     string             `json:"doctorName"`
	Specialization string             `json:"specialization"`
	Date           calendar.Date      `json:"date"`
	Time           calendar.TimeOfDay `json:"time"`
	HealthIssue    string             `json:"healthIssue"`
	Status         Status             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Draft is a booking request before it is stored. Patient and doctor
// details are copied onto the booking as they are at booking time.
type Draft struct {
	PatientID      uuid.UUID
	PatientName    string
	PatientEmail   string
	PatientPhone   string
	PatientGender  string
	PatientAge     int
	DoctorID       uuid.UUID
	DoctorName     string
	Specialization string
	Date           calendar.Date
	Time           *calendar.TimeOfDay
	HealthIssue    string
	Notes          string
}

// Filter narrows booking lists. Zero fields match everything.
type Filter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Statuses  []Status
	From      calendar.Date
	To        calendar.Date
}

func (f Filter) Match(b Booking) bool {
	if f.PatientID != uuid.Nil && b.PatientID != f.PatientID {
		return false
	}
	if f.DoctorID != uuid.Nil && b.DoctorID != f.DoctorID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	if !f.From.IsZero() && b.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && b.Date.After(f.To) {
		return false
	}
	return true
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const (
	EventBookingReserved     = "BOOKING_RESERVED"
	EventBookingTransitioned = "BOOKING_TRANSITIONED"
	EventBookingDeleted      = "BOOKING_DELETED"
)

type Event struct {
	ID        int64
	Type      string
	BookingID *uuid.UUID
	Payload   []byte
	CreatedAt time.Time
}
