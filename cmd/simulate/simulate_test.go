package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOperationMetrics(t *testing.T) {
	var om OperationMetrics
	for i := 1; i <= 20; i++ {
		om.Record(time.Duration(i)*time.Millisecond, i%4 != 0, i%4 == 0)
	}
	om.Record(time.Millisecond, false, false)

	assert.EqualValues(t, 21, om.Total)
	assert.EqualValues(t, 15, om.Success)
	assert.EqualValues(t, 5, om.Conflict)
	assert.EqualValues(t, 1, om.Error)

	_, min, max, p50, p95 := om.Stats()
	assert.Equal(t, time.Millisecond, min)
	assert.Equal(t, 20*time.Millisecond, max)
	assert.Equal(t, 10*time.Millisecond, p50)
	assert.Equal(t, 19*time.Millisecond, p95)

	var buf bytes.Buffer
	printOperationReport(&buf, "Booking", &om)
	assert.Contains(t, buf.String(), "Conflicts: 5")
}

func TestCountDoubleBooked(t *testing.T) {
	doc := uuid.New()
	list := []bookingView{
		{ID: uuid.New(), DoctorID: doc, Date: "2026-03-09", Time: "09:00"},
		{ID: uuid.New(), DoctorID: doc, Date: "2026-03-09", Time: "09:30"},
		{ID: uuid.New(), DoctorID: uuid.New(), Date: "2026-03-09", Time: "09:00"},
	}
	assert.Zero(t, countDoubleBooked(list))

	list = append(list, bookingView{ID: uuid.New(), DoctorID: doc, Date: "2026-03-09", Time: "09:00"})
	assert.Equal(t, 1, countDoubleBooked(list))
}

func TestLoadConfigNormalizesRatios(t *testing.T) {
	t.Setenv("SIM_BOOKING_RATIO", "2")
	t.Setenv("SIM_CONFIRM_RATIO", "1")
	t.Setenv("SIM_READ_RATIO", "1")

	cfg := loadConfig()
	assert.InDelta(t, 0.5, cfg.BookingRatio, 1e-9)
	assert.InDelta(t, 0.25, cfg.ConfirmRatio, 1e-9)
	assert.NoError(t, validateConfig(cfg))
}
