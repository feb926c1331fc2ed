package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
)

func TestAdminRejectThenDoctorConfirmScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b1, err := e.allocator.Reserve(ctx, e.draft(uuid.New(), "09:00"))
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	e.repo.Clock = func() time.Time { return later }

	rejected, err := e.lifecycle.Transition(ctx, b1.ID, e.admin, StatusRejected, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.True(t, rejected.UpdatedAt.After(b1.UpdatedAt))
	assert.Equal(t, b1.ID, rejected.ID)
	assert.Equal(t, b1.CreatedAt, rejected.CreatedAt)

	_, err = e.lifecycle.Transition(ctx, b1.ID, e.doctorActor(), StatusConfirmed, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestPatientCannotConfirm(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	patientID := uuid.New()

	b, err := e.allocator.Reserve(ctx, e.draft(patientID, "09:00"))
	require.NoError(t, err)

	_, err = e.lifecycle.Transition(ctx, b.ID, auth.Actor{Role: auth.RolePatient, ID: patientID}, StatusConfirmed, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenTransition)

	got, err := e.repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestPatientCancelsOwnPendingFreesSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	patientID := uuid.New()

	b, err := e.allocator.Reserve(ctx, e.draft(patientID, "09:00"))
	require.NoError(t, err)

	_, err = e.lifecycle.Transition(ctx, b.ID, auth.Actor{Role: auth.RolePatient, ID: uuid.New()}, StatusCancelled, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbiddenTransition)

	cancelled, err := e.lifecycle.Transition(ctx, b.ID, auth.Actor{Role: auth.RolePatient, ID: patientID}, StatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = e.allocator.Reserve(ctx, e.draft(uuid.New(), "09:00"))
	assert.NoError(t, err)
}

func TestDoctorFlowWithNotes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b, err := e.allocator.Reserve(ctx, e.draft(uuid.New(), "09:30"))
	require.NoError(t, err)

	note := "fasting required"
	confirmed, err := e.lifecycle.Transition(ctx, b.ID, e.doctorActor(), StatusConfirmed, &note)
	require.NoError(t, err)
	assert.Equal(t, note, confirmed.Notes)

	completed, err := e.lifecycle.Transition(ctx, b.ID, e.doctorActor(), StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, note, completed.Notes)

	_, err = e.lifecycle.Transition(ctx, b.ID, e.admin, StatusCancelled, nil)
	assert.ErrorIs(t, err, ErrTerminalStatus)

	var types []string
	for _, ev := range e.repo.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{EventBookingReserved, EventBookingTransitioned, EventBookingTransitioned}, types)
}

func TestTransitionValidationAndMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.lifecycle.Transition(ctx, uuid.New(), e.admin, StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = e.lifecycle.Transition(ctx, uuid.New(), e.admin, Status("Archived"), nil)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

// staleRepo reports the booking in an older status than storage holds.
type staleRepo struct {
	*MemoryRepository
	stale Status
}

func (s staleRepo) FindByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.MemoryRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = s.stale
	return b, nil
}

func TestTransitionLosesRaceWithInvalidState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b, err := e.allocator.Reserve(ctx, e.draft(uuid.New(), "09:00"))
	require.NoError(t, err)
	_, err = e.repo.UpdateStatus(ctx, b.ID, StatusPending, StatusConfirmed, nil)
	require.NoError(t, err)

	lc := NewLifecycle(staleRepo{MemoryRepository: e.repo, stale: StatusPending}, testLogger())
	_, err = lc.Transition(ctx, b.ID, e.doctorActor(), StatusRejected, nil)
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	b, err := e.allocator.Reserve(ctx, e.draft(uuid.New(), "09:00"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.lifecycle.Delete(ctx, b.ID, e.doctorActor()), apperrors.ErrForbidden)
	require.NoError(t, e.lifecycle.Delete(ctx, b.ID, e.admin))
	assert.ErrorIs(t, e.lifecycle.Delete(ctx, b.ID, e.admin), ErrBookingNotFound)

	events := e.repo.Events()
	assert.Equal(t, EventBookingDeleted, events[len(events)-1].Type)
}
