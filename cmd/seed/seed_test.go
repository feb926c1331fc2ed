package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

func TestSeedWritesDoctorsAndSchedules(t *testing.T) {
	ctx := context.Background()
	doctors := doctor.NewMemoryRepository()
	schedules := schedule.NewMemoryRepository()

	s := newSeeder(doctors, schedules, zerolog.Nop())
	require.NoError(t, s.seed(ctx, 4))

	list, err := doctors.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 6)

	for _, d := range list {
		w, err := schedules.GetWeekly(ctx, d.ID)
		require.NoError(t, err, d.Name)
		assert.True(t, w.Day(time.Monday).IsAvailable, d.Name)
		assert.False(t, w.Day(time.Sunday).IsAvailable, d.Name)
	}
}

func TestWeekdaysLateStartIsValid(t *testing.T) {
	w := weekdaysLateStart(uuid.New())
	require.NoError(t, w.Validate(seedGranularity))
	assert.False(t, w.Day(time.Saturday).IsAvailable)
	assert.Len(t, w.Day(time.Friday).Slots, 2)
}
