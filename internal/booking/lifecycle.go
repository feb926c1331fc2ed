package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/metrics"
)

// Lifecycle moves bookings between statuses on behalf of an actor.
type Lifecycle struct {
	repo   Repository
	events eventRecorder
	log    zerolog.Logger
}

func NewLifecycle(repo Repository, log zerolog.Logger) *Lifecycle {
	log = log.With().Str("component", "lifecycle").Logger()
	return &Lifecycle{
		repo:   repo,
		events: eventRecorder{repo: repo, log: log},
		log:    log,
	}
}

// Transition moves the booking to status to. notes, when non-nil, replaces
// the booking's notes.
func (l *Lifecycle) Transition(ctx context.Context, id uuid.UUID, actor auth.Actor, to Status, notes *string) (*Booking, error) {
	if !to.Valid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}

	current, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeTransition(actor, *current, to); err != nil {
		l.log.Debug().
			Err(err).
			Str("booking_id", id.String()).
			Str("role", actor.Role.String()).
			Str("from", string(current.Status)).
			Str("to", string(to)).
			Msg("transition refused")
		return nil, err
	}

	updated, err := l.repo.UpdateStatus(ctx, id, current.Status, to, notes)
	if err != nil {
		return nil, err
	}

	metrics.IncTransition(string(current.Status), string(to), actor.Role.String())
	l.events.record(ctx, id, EventBookingTransitioned, map[string]any{
		"from":     string(current.Status),
		"to":       string(to),
		"role":     actor.Role.String(),
		"actor_id": actor.ID.String(),
	})
	l.log.Info().
		Str("booking_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Str("role", actor.Role.String()).
		Msg("booking transitioned")

	return updated, nil
}

// Delete removes a booking outright. Admin cleanup only.
func (l *Lifecycle) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	if !actor.Is(auth.RoleAdmin) {
		return ErrAdminOnly
	}

	b, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := l.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.events.record(ctx, id, EventBookingDeleted, map[string]any{
		"status":   string(b.Status),
		"actor_id": actor.ID.String(),
	})
	l.log.Info().Str("booking_id", id.String()).Msg("booking deleted")
	return nil
}
