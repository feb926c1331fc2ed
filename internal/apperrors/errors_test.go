package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesClass(t *testing.T) {
	err := fmt.Errorf("create booking: %w", Required("patientPhone"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "patientPhone", ve.Field)
		assert.Equal(t, "required", ve.Reason)
	}
	assert.Equal(t, "create booking: patientPhone: required", err.Error())
}

func TestWrapKeepsMessageAndClass(t *testing.T) {
	errDoctorGone := Wrap(ErrNotFound, "doctor not found")

	wrapped := fmt.Errorf("reserve: %w", errDoctorGone)
	assert.ErrorIs(t, wrapped, errDoctorGone)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrSlotConflict)
	assert.Equal(t, "doctor not found", errDoctorGone.Error())
}
