package doctor

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
)

var ErrNotPermitted = apperrors.Wrap(apperrors.ErrForbidden, "not permitted to change this doctor")

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "doctors").Logger()}
}

// Create registers a doctor. Admin only.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req NewDoctor) (*Doctor, error) {
	if !actor.Is(auth.RoleAdmin) {
		return nil, ErrNotPermitted
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Specialization = strings.TrimSpace(req.Specialization)

	switch {
	case req.Name == "":
		return nil, apperrors.Required("name")
	case req.Email == "":
		return nil, apperrors.Required("email")
	case req.Specialization == "":
		return nil, apperrors.Required("specialization")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, apperrors.NewValidationError("email", "invalid address")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, apperrors.NewValidationError("rating", "must be between 0 and 5")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := s.repo.Create(ctx, Doctor{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Specialization: req.Specialization,
		IsActive:       active,
		Rating:         req.Rating,
	})
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.log.Info().Str("doctor_id", created.ID.String()).Str("name", created.Name).Msg("doctor created")
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Doctor, error) {
	doctors, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// SetActive toggles bookability. Admins may change any doctor, a doctor only themself.
func (s *Service) SetActive(ctx context.Context, actor auth.Actor, id uuid.UUID, active bool) (*Doctor, error) {
	switch {
	case actor.Is(auth.RoleAdmin):
	case actor.Is(auth.RoleDoctor) && actor.Owns(id):
	default:
		return nil, ErrNotPermitted
	}

	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("doctor_id", id.String()).
		Bool("active", active).
		Str("by", actor.Role.String()).
		Msg("doctor availability toggled")
	return updated, nil
}

// Bookable returns the doctor if it exists and accepts bookings.
func (s *Service) Bookable(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrDoctorInactive
	}
	return d, nil
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}
