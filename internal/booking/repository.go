package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/calendar"
)

var (
	ErrBookingNotFound     = apperrors.Wrap(apperrors.ErrNotFound, "booking not found")
	ErrSlotTaken           = apperrors.Wrap(apperrors.ErrSlotConflict, "slot is already booked")
	ErrSlotBeingBooked     = apperrors.Wrap(apperrors.ErrSlotConflict, "slot is currently being booked, choose another or retry")
	ErrTerminalStatus      = apperrors.Wrap(apperrors.ErrInvalidState, "booking is already in a terminal status")
	ErrIllegalTransition   = apperrors.Wrap(apperrors.ErrInvalidState, "transition is not part of the booking lifecycle")
	ErrStatusChanged       = apperrors.Wrap(apperrors.ErrInvalidState, "booking status changed concurrently")
	ErrTransitionForbidden = apperrors.Wrap(apperrors.ErrForbiddenTransition, "role may not perform this transition")
	ErrNotVisible          = apperrors.Wrap(apperrors.ErrForbidden, "booking belongs to someone else")
	ErrAdminOnly           = apperrors.Wrap(apperrors.ErrForbidden, "only admins may do this")
)

// Repository stores bookings. Create must enforce, atomically, that no two
// bookings in ActiveStatuses share (doctor, date, time), failing with ErrSlotTaken.
type Repository interface {
	Create(ctx context.Context, d Draft) (*Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByDoctorDateTime(ctx context.Context, doctorID uuid.UUID, date calendar.Date, at calendar.TimeOfDay, statuses []Status) ([]Booking, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID) ([]Booking, error)
	FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Booking, error)
	// FindByDateRange returns bookings with from <= date <= to ordered by date, time.
	FindByDateRange(ctx context.Context, from, to calendar.Date) ([]Booking, error)
	FindAll(ctx context.Context, f Filter) ([]Booking, error)
	// UpdateStatus applies only if the stored status is still from. notes nil keeps the current notes.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes *string) (*Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[Status]int, error)

	InsertEvent(ctx context.Context, ev Event) error
}

// Validate checks required fields in form order and reports the first one missing.
func (d Draft) Validate() error {
	if err := d.validatePatient(); err != nil {
		return err
	}
	if d.DoctorID == uuid.Nil {
		return apperrors.Required("doctorId")
	}
	if strings.TrimSpace(d.DoctorName) == "" {
		return apperrors.Required("doctorName")
	}
	if strings.TrimSpace(d.Specialization) == "" {
		return apperrors.Required("specialization")
	}
	return d.validateSlot()
}

// validateRequest is Validate without the doctor snapshot, which the
// allocator fills from the directory.
func (d Draft) validateRequest() error {
	if err := d.validatePatient(); err != nil {
		return err
	}
	if d.DoctorID == uuid.Nil {
		return apperrors.Required("doctorId")
	}
	return d.validateSlot()
}

func (d Draft) validatePatient() error {
	switch {
	case d.PatientID == uuid.Nil:
		return apperrors.Required("patientId")
	case strings.TrimSpace(d.PatientName) == "":
		return apperrors.Required("patientName")
	case strings.TrimSpace(d.PatientPhone) == "":
		return apperrors.Required("patientPhone")
	case strings.TrimSpace(d.PatientGender) == "":
		return apperrors.Required("patientGender")
	case d.PatientAge == 0:
		return apperrors.Required("patientAge")
	case d.PatientAge < 0 || d.PatientAge > 150:
		return apperrors.NewValidationError("patientAge", "out of range")
	}
	return nil
}

func (d Draft) validateSlot() error {
	switch {
	case d.Date.IsZero():
		return apperrors.Required("date")
	case d.Time == nil:
		return apperrors.Required("time")
	case strings.TrimSpace(d.HealthIssue) == "":
		return apperrors.Required("healthIssue")
	}
	return nil
}
