package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/metrics"
	redisclient "github.com/hackgods/doctor-booking/internal/redis"
)

// DoctorDirectory returns a doctor only if it exists and is active.
type DoctorDirectory interface {
	Bookable(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

type SlotResolver interface {
	ResolveSlots(ctx context.Context, doctorID uuid.UUID, date calendar.Date) ([]calendar.TimeOfDay, error)
}

// Allocator is the only path that creates bookings.
type Allocator struct {
	repo    Repository
	doctors DoctorDirectory
	slots   SlotResolver
	locker  redisclient.Locker
	events  eventRecorder
	log     zerolog.Logger
}

func NewAllocator(repo Repository, doctors DoctorDirectory, slots SlotResolver, locker redisclient.Locker, log zerolog.Logger) *Allocator {
	if locker == nil {
		locker = redisclient.NoopLocker{}
	}
	log = log.With().Str("component", "allocator").Logger()
	return &Allocator{
		repo:    repo,
		doctors: doctors,
		slots:   slots,
		locker:  locker,
		events:  eventRecorder{repo: repo, log: log},
		log:     log,
	}
}

// Reserve creates a Pending booking for the draft's (doctor, date, time).
// Of any number of concurrent calls for one free slot exactly one succeeds;
// the rest fail with apperrors.ErrSlotConflict and are not retried.
func (a *Allocator) Reserve(ctx context.Context, draft Draft) (*Booking, error) {
	b, err := a.reserve(ctx, draft)
	metrics.IncReservation(outcome(err))
	return b, err
}

func (a *Allocator) reserve(ctx context.Context, draft Draft) (*Booking, error) {
	if err := draft.validateRequest(); err != nil {
		return nil, err
	}

	doc, err := a.doctors.Bookable(ctx, draft.DoctorID)
	if err != nil {
		return nil, err
	}
	draft.DoctorName = doc.Name
	draft.Specialization = doc.Specialization

	offered, err := a.slots.ResolveSlots(ctx, draft.DoctorID, draft.Date)
	if err != nil {
		return nil, fmt.Errorf("resolve slots: %w", err)
	}
	if !containsTime(offered, *draft.Time) {
		return nil, apperrors.NewValidationError("time", fmt.Sprintf("%s is not offered on %s", draft.Time, draft.Date))
	}

	key := redisclient.SlotKey(draft.DoctorID, draft.Date, *draft.Time)

	var created *Booking
	ran := false
	err = a.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		ran = true
		b, err := a.createIfFree(lockCtx, draft)
		created = b
		return err
	})

	if err != nil && !ran && !errors.Is(err, redisclient.ErrLockNotAcquired) {
		// lock backend is down; the storage constraint alone still decides
		a.log.Warn().Err(err).Str("key", key).Msg("slot lock unavailable, reserving without it")
		created, err = a.createIfFree(ctx, draft)
	}

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	a.events.record(ctx, created.ID, EventBookingReserved, map[string]any{
		"doctor_id":  created.DoctorID.String(),
		"patient_id": created.PatientID.String(),
		"date":       created.Date.String(),
		"time":       created.Time.String(),
	})
	a.log.Info().
		Str("booking_id", created.ID.String()).
		Str("doctor_id", created.DoctorID.String()).
		Stringer("date", created.Date).
		Stringer("time", created.Time).
		Msg("slot reserved")

	return created, nil
}

func (a *Allocator) createIfFree(ctx context.Context, draft Draft) (*Booking, error) {
	existing, err := a.repo.FindByDoctorDateTime(ctx, draft.DoctorID, draft.Date, *draft.Time, ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("check slot occupancy: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrSlotTaken
	}

	b, err := a.repo.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Occupied returns the times on date held by Pending or Confirmed bookings.
func (a *Allocator) Occupied(ctx context.Context, doctorID uuid.UUID, date calendar.Date) (map[calendar.TimeOfDay]bool, error) {
	held, err := a.repo.FindAll(ctx, Filter{DoctorID: doctorID, From: date, To: date, Statuses: ActiveStatuses})
	if err != nil {
		return nil, fmt.Errorf("load occupied slots: %w", err)
	}

	out := make(map[calendar.TimeOfDay]bool, len(held))
	for _, b := range held {
		out[b.Time] = true
	}
	return out, nil
}

func containsTime(list []calendar.TimeOfDay, t calendar.TimeOfDay) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultReserved
	case errors.Is(err, apperrors.ErrSlotConflict):
		return metrics.ResultConflict
	case errors.Is(err, apperrors.ErrValidation):
		return metrics.ResultValidation
	case errors.Is(err, apperrors.ErrNotFound):
		return metrics.ResultNotFound
	}
	return metrics.ResultError
}
