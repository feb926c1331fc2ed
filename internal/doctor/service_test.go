package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
)

var admin = auth.Actor{Role: auth.RoleAdmin, ID: uuid.New()}

func newService() *Service {
	return NewService(NewMemoryRepository(), zerolog.Nop())
}

func TestCreateDefaultsActive(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	d, err := svc.Create(ctx, admin, NewDoctor{Name: "Dr. John Smith", Email: "john@clinic.test", Specialization: "Cardiologist", Rating: 4.5})
	require.NoError(t, err)
	assert.True(t, d.IsActive)
	assert.NotEqual(t, uuid.Nil, d.ID)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiologist", got.Specialization)
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, NewDoctor{Name: "Dr. X", Specialization: "Neurologist"})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = svc.Create(ctx, admin, NewDoctor{Name: "Dr. X", Email: "nope", Specialization: "Neurologist"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = svc.Create(ctx, admin, NewDoctor{Name: "Dr. X", Email: "x@c.test", Specialization: "Neurologist", Rating: 7})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rating", ve.Field)
}

func TestCreateRequiresAdmin(t *testing.T) {
	_, err := newService().Create(context.Background(), auth.Actor{Role: auth.RoleDoctor, ID: uuid.New()},
		NewDoctor{Name: "Dr. X", Email: "x@c.test", Specialization: "Neurologist"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSetActivePermissions(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	d, err := svc.Create(ctx, admin, NewDoctor{Name: "Dr. Sarah Wilson", Email: "sarah@clinic.test", Specialization: "Pediatrician"})
	require.NoError(t, err)

	self := auth.Actor{Role: auth.RoleDoctor, ID: d.ID}
	other := auth.Actor{Role: auth.RoleDoctor, ID: uuid.New()}
	patient := auth.Actor{Role: auth.RolePatient, ID: uuid.New()}

	_, err = svc.SetActive(ctx, other, d.ID, false)
	assert.ErrorIs(t, err, ErrNotPermitted)
	_, err = svc.SetActive(ctx, patient, d.ID, false)
	assert.ErrorIs(t, err, ErrNotPermitted)

	updated, err := svc.SetActive(ctx, self, d.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Bookable(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDoctorInactive)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err = svc.SetActive(ctx, admin, d.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	n, err := svc.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSetActiveUnknownDoctor(t *testing.T) {
	_, err := newService().SetActive(context.Background(), admin, uuid.New(), true)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListActiveOnly(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	inactive := false

	_, err := svc.Create(ctx, admin, NewDoctor{Name: "Dr. Mike Johnson", Email: "mike@clinic.test", Specialization: "Orthopedic", IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, NewDoctor{Name: "Dr. Jane Doe", Email: "jane@clinic.test", Specialization: "Dermatologist"})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Dr. Jane Doe", all[0].Name)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Dr. Jane Doe", active[0].Name)
}
