package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/doctor"
)

var ErrNotPermitted = apperrors.Wrap(apperrors.ErrForbidden, "only the doctor or an admin may edit this schedule")

// DoctorFinder is the part of the doctor directory schedules need.
type DoctorFinder interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// Service validates and authorizes schedule edits before they reach the repository.
type Service struct {
	repo    Repository
	doctors DoctorFinder
	step    time.Duration
	log     zerolog.Logger
}

// NewService builds a schedule service. Ranges it accepts must lie on the
// step grid the resolver cuts slots at.
func NewService(repo Repository, doctors DoctorFinder, step time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		step:    step,
		log:     log.With().Str("component", "schedule").Logger(),
	}
}

func (s *Service) GetWeeklySchedule(ctx context.Context, doctorID uuid.UUID) (WeeklySchedule, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return WeeklySchedule{}, err
	}

	w, err := s.repo.GetWeekly(ctx, doctorID)
	if errors.Is(err, ErrScheduleNotFound) {
		return Unavailable(doctorID), nil
	}
	if err != nil {
		return WeeklySchedule{}, fmt.Errorf("get weekly schedule: %w", err)
	}
	return *w, nil
}

// SetWeeklySchedule replaces the whole template.
func (s *Service) SetWeeklySchedule(ctx context.Context, actor auth.Actor, w WeeklySchedule) error {
	if err := s.authorize(ctx, actor, w.DoctorID); err != nil {
		return err
	}
	if err := w.Validate(s.step); err != nil {
		return err
	}
	if err := s.repo.SaveWeekly(ctx, w); err != nil {
		return err
	}

	s.log.Info().Str("doctor_id", w.DoctorID.String()).Str("by", actor.Role.String()).Msg("weekly schedule saved")
	return nil
}

func (s *Service) GetExceptions(ctx context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]Exception, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to", "must not be before from")
	}
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListExceptions(ctx, doctorID, from, to)
}

// UpsertException records an override, replacing any existing one for that date.
func (s *Service) UpsertException(ctx context.Context, actor auth.Actor, e Exception) error {
	if err := s.authorize(ctx, actor, e.DoctorID); err != nil {
		return err
	}
	if err := e.Validate(s.step); err != nil {
		return err
	}
	if err := s.repo.UpsertException(ctx, e); err != nil {
		return err
	}

	s.log.Info().
		Str("doctor_id", e.DoctorID.String()).
		Stringer("date", e.Date).
		Str("type", string(e.Kind)).
		Msg("schedule exception saved")
	return nil
}

func (s *Service) RemoveException(ctx context.Context, actor auth.Actor, doctorID uuid.UUID, date calendar.Date) error {
	if err := s.authorize(ctx, actor, doctorID); err != nil {
		return err
	}
	if err := s.repo.DeleteException(ctx, doctorID, date); err != nil {
		return err
	}

	s.log.Info().Str("doctor_id", doctorID.String()).Stringer("date", date).Msg("schedule exception removed")
	return nil
}

func (s *Service) authorize(ctx context.Context, actor auth.Actor, doctorID uuid.UUID) error {
	if !actor.Is(auth.RoleAdmin) && !(actor.Is(auth.RoleDoctor) && actor.Owns(doctorID)) {
		return ErrNotPermitted
	}
	_, err := s.doctors.Get(ctx, doctorID)
	return err
}
