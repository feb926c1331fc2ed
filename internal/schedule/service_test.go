package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/apperrors"
	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/doctor"
)

type fixture struct {
	svc      *Service
	repo     *MemoryRepository
	doctorID uuid.UUID
	self     auth.Actor
	admin    auth.Actor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	admin := auth.Actor{Role: auth.RoleAdmin, ID: uuid.New()}
	doctors := doctor.NewService(doctor.NewMemoryRepository(), zerolog.Nop())
	d, err := doctors.Create(context.Background(), admin, doctor.NewDoctor{
		Name: "Dr. Robert Chen", Email: "robert@clinic.test", Specialization: "Neurologist",
	})
	require.NoError(t, err)

	repo := NewMemoryRepository()
	return fixture{
		svc:      NewService(repo, doctors, 30*time.Minute, zerolog.Nop()),
		repo:     repo,
		doctorID: d.ID,
		self:     auth.Actor{Role: auth.RoleDoctor, ID: d.ID},
		admin:    admin,
	}
}

func TestGetWeeklyDefaultsToUnavailable(t *testing.T) {
	f := newFixture(t)

	w, err := f.svc.GetWeeklySchedule(context.Background(), f.doctorID)
	require.NoError(t, err)
	for _, day := range w.Days {
		assert.False(t, day.IsAvailable)
		assert.Empty(t, day.Slots)
	}

	_, err = f.svc.GetWeeklySchedule(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetWeeklyReplacesWholesale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetWeeklySchedule(ctx, f.self, ClinicHours(f.doctorID)))

	only := Unavailable(f.doctorID)
	only.Days[time.Thursday] = DaySchedule{IsAvailable: true, Slots: []calendar.TimeRange{rng("13:00", "14:00")}}
	require.NoError(t, f.svc.SetWeeklySchedule(ctx, f.admin, only))

	got, err := f.svc.GetWeeklySchedule(ctx, f.doctorID)
	require.NoError(t, err)
	assert.False(t, got.Day(time.Monday).IsAvailable)
	assert.Equal(t, []calendar.TimeRange{rng("13:00", "14:00")}, got.Day(time.Thursday).Slots)
}

func TestSetWeeklyRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	bad := Unavailable(f.doctorID)
	bad.Days[time.Monday] = DaySchedule{Slots: []calendar.TimeRange{rng("09:00", "10:00")}}

	err := f.svc.SetWeeklySchedule(context.Background(), f.self, bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.repo.GetWeekly(context.Background(), f.doctorID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestScheduleEditsStayOnSlotGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	offGrid := Unavailable(f.doctorID)
	offGrid.Days[time.Monday] = DaySchedule{IsAvailable: true, Slots: []calendar.TimeRange{rng("09:10", "10:00")}}
	err := f.svc.SetWeeklySchedule(ctx, f.self, offGrid)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "monday.timeSlots[0]", ve.Field)
	_, err = f.repo.GetWeekly(ctx, f.doctorID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	date := calendar.Date{Year: 2026, Month: time.March, Day: 9}
	err = f.svc.UpsertException(ctx, f.self, Exception{
		DoctorID: f.doctorID,
		Date:     date,
		Kind:     ExceptionCustom,
		Slots:    []calendar.TimeRange{rng("13:00", "13:45")},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "timeSlots[0]", ve.Field)
	_, err = f.repo.GetException(ctx, f.doctorID, date)
	assert.ErrorIs(t, err, ErrExceptionNotFound)
}

func TestScheduleEditsRequireOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := auth.Actor{Role: auth.RoleDoctor, ID: uuid.New()}
	patient := auth.Actor{Role: auth.RolePatient, ID: uuid.New()}

	assert.ErrorIs(t, f.svc.SetWeeklySchedule(ctx, stranger, ClinicHours(f.doctorID)), ErrNotPermitted)
	assert.ErrorIs(t, f.svc.SetWeeklySchedule(ctx, patient, ClinicHours(f.doctorID)), ErrNotPermitted)

	exc := Exception{DoctorID: f.doctorID, Date: calendar.Date{Year: 2026, Month: time.April, Day: 1}, Kind: ExceptionUnavailable}
	assert.ErrorIs(t, f.svc.UpsertException(ctx, stranger, exc), apperrors.ErrForbidden)
	assert.ErrorIs(t, f.svc.RemoveException(ctx, patient, f.doctorID, exc.Date), apperrors.ErrForbidden)
}

func TestExceptionUpsertReplacesAndRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := calendar.Date{Year: 2026, Month: time.April, Day: 6}

	require.NoError(t, f.svc.UpsertException(ctx, f.self, Exception{DoctorID: f.doctorID, Date: date, Kind: ExceptionUnavailable, Reason: "leave"}))
	require.NoError(t, f.svc.UpsertException(ctx, f.self, Exception{
		DoctorID: f.doctorID, Date: date, Kind: ExceptionCustom, Slots: []calendar.TimeRange{rng("10:00", "11:00")},
	}))

	list, err := f.svc.GetExceptions(ctx, f.doctorID, date.AddDays(-1), date.AddDays(1))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ExceptionCustom, list[0].Kind)
	assert.Empty(t, list[0].Reason)

	require.NoError(t, f.svc.RemoveException(ctx, f.self, f.doctorID, date))
	assert.ErrorIs(t, f.svc.RemoveException(ctx, f.self, f.doctorID, date), ErrExceptionNotFound)
}

func TestGetExceptionsOrderedAndBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := calendar.Date{Year: 2026, Month: time.April, Day: 10}

	for _, offset := range []int{3, 0, 7, 1} {
		require.NoError(t, f.svc.UpsertException(ctx, f.admin, Exception{DoctorID: f.doctorID, Date: base.AddDays(offset), Kind: ExceptionUnavailable}))
	}

	list, err := f.svc.GetExceptions(ctx, f.doctorID, base, base.AddDays(3))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, base, list[0].Date)
	assert.Equal(t, base.AddDays(1), list[1].Date)
	assert.Equal(t, base.AddDays(3), list[2].Date)

	_, err = f.svc.GetExceptions(ctx, f.doctorID, base, base.AddDays(-1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
