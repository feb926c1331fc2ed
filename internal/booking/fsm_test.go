package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
)

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("Expired")
	assert.Error(t, err)
	assert.False(t, Status("").Valid())
}

func TestAuthorizeTransition(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	patient := auth.Actor{Role: auth.RolePatient, ID: patientID}
	otherPatient := auth.Actor{Role: auth.RolePatient, ID: uuid.New()}
	doc := auth.Actor{Role: auth.RoleDoctor, ID: doctorID}
	otherDoc := auth.Actor{Role: auth.RoleDoctor, ID: uuid.New()}
	admin := auth.Actor{Role: auth.RoleAdmin, ID: uuid.New()}

	tests := []struct {
		name  string
		actor auth.Actor
		from  Status
		to    Status
		want  error
	}{
		{"patient cancels own pending", patient, StatusPending, StatusCancelled, nil},
		{"patient cannot confirm", patient, StatusPending, StatusConfirmed, apperrors.ErrForbiddenTransition},
		{"patient cannot cancel confirmed", patient, StatusConfirmed, StatusCancelled, apperrors.ErrForbiddenTransition},
		{"patient cannot cancel someone else's", otherPatient, StatusPending, StatusCancelled, apperrors.ErrForbiddenTransition},
		{"doctor confirms", doc, StatusPending, StatusConfirmed, nil},
		{"doctor rejects", doc, StatusPending, StatusRejected, nil},
		{"doctor completes", doc, StatusConfirmed, StatusCompleted, nil},
		{"doctor cancels confirmed", doc, StatusConfirmed, StatusCancelled, nil},
		{"doctor cannot cancel pending", doc, StatusPending, StatusCancelled, apperrors.ErrForbiddenTransition},
		{"doctor cannot complete pending", doc, StatusPending, StatusCompleted, apperrors.ErrForbiddenTransition},
		{"other doctor cannot confirm", otherDoc, StatusPending, StatusConfirmed, apperrors.ErrForbiddenTransition},
		{"admin rejects", admin, StatusPending, StatusRejected, nil},
		{"admin completes", admin, StatusConfirmed, StatusCompleted, nil},
		{"admin cannot skip to completed", admin, StatusPending, StatusCompleted, apperrors.ErrInvalidState},
		{"admin cannot reconfirm", admin, StatusConfirmed, StatusConfirmed, apperrors.ErrInvalidState},
		{"unknown role", auth.Actor{ID: uuid.New()}, StatusPending, StatusCancelled, apperrors.ErrForbiddenTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{PatientID: patientID, DoctorID: doctorID, Status: tt.from}
			err := authorizeTransition(tt.actor, b, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTerminalSourceIsInvalidStateForEveryRole(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	actors := []auth.Actor{
		{Role: auth.RolePatient, ID: patientID},
		{Role: auth.RolePatient, ID: uuid.New()},
		{Role: auth.RoleDoctor, ID: doctorID},
		{Role: auth.RoleAdmin, ID: uuid.New()},
	}

	for _, from := range []Status{StatusCompleted, StatusRejected, StatusCancelled} {
		for _, to := range AllStatuses() {
			for _, actor := range actors {
				b := Booking{PatientID: patientID, DoctorID: doctorID, Status: from}
				assert.ErrorIs(t, authorizeTransition(actor, b, to), apperrors.ErrInvalidState, "%s %s->%s", actor.Role, from, to)
			}
		}
	}
}

func TestAllowedTransitions(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	b := Booking{PatientID: patientID, DoctorID: doctorID, Status: StatusPending}

	assert.Equal(t, []Status{StatusCancelled}, AllowedTransitions(auth.Actor{Role: auth.RolePatient, ID: patientID}, b))
	assert.Equal(t, []Status{StatusConfirmed, StatusRejected}, AllowedTransitions(auth.Actor{Role: auth.RoleDoctor, ID: doctorID}, b))
	assert.Equal(t, []Status{StatusConfirmed, StatusRejected, StatusCancelled}, AllowedTransitions(auth.Actor{Role: auth.RoleAdmin}, b))

	b.Status = StatusCompleted
	assert.Empty(t, AllowedTransitions(auth.Actor{Role: auth.RoleAdmin}, b))
}
