package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

// countingRepo records how often the resolver reads storage.
type countingRepo struct {
	*MemoryRepository
	reads atomic.Int32
}

func (c *countingRepo) GetWeekly(ctx context.Context, id uuid.UUID) (*WeeklySchedule, error) {
	c.reads.Add(1)
	return c.MemoryRepository.GetWeekly(ctx, id)
}

func (c *countingRepo) GetException(ctx context.Context, id uuid.UUID, d calendar.Date) (*Exception, error) {
	c.reads.Add(1)
	return c.MemoryRepository.GetException(ctx, id, d)
}

// Wednesday 2026-03-04, 10:00 UTC.
var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func tod(s string) calendar.TimeOfDay {
	t, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func endOf(s string) calendar.TimeOfDay {
	t, err := calendar.ParseRangeEnd(s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) calendar.TimeRange {
	return calendar.TimeRange{Start: tod(start), End: endOf(end)}
}

func newResolver(repo Repository) *Resolver {
	return NewResolver(repo, ResolverOptions{
		HorizonDays: 30,
		Granularity: 30 * time.Minute,
		Now:         func() time.Time { return fixedNow },
	})
}

func nextMonday() calendar.Date {
	return calendar.DateOf(fixedNow).AddDays(5)
}

func TestResolveWeeklyTemplate(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()

	w := Unavailable(doctorID)
	w.Days[time.Monday] = DaySchedule{IsAvailable: true, Slots: []calendar.TimeRange{rng("09:00", "10:00")}}
	require.NoError(t, repo.SaveWeekly(context.Background(), w))

	monday := nextMonday()
	require.Equal(t, time.Monday, monday.Weekday())

	slots, err := newResolver(repo).ResolveSlots(context.Background(), doctorID, monday)
	require.NoError(t, err)
	assert.Equal(t, []calendar.TimeOfDay{tod("09:00"), tod("09:30")}, slots)
}

func TestResolveClinicHours(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	require.NoError(t, repo.SaveWeekly(context.Background(), ClinicHours(doctorID)))

	r := newResolver(repo)
	slots, err := r.ResolveSlots(context.Background(), doctorID, nextMonday())
	require.NoError(t, err)
	assert.Len(t, slots, 12)
	assert.Equal(t, tod("09:00"), slots[0])
	assert.Equal(t, tod("16:30"), slots[len(slots)-1])

	sunday := nextMonday().AddDays(-1)
	slots, err = r.ResolveSlots(context.Background(), doctorID, sunday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveOutsideHorizonSkipsStorage(t *testing.T) {
	repo := &countingRepo{MemoryRepository: NewMemoryRepository()}
	doctorID := uuid.New()
	require.NoError(t, repo.SaveWeekly(context.Background(), ClinicHours(doctorID)))

	r := newResolver(repo)
	today := calendar.DateOf(fixedNow)

	for _, d := range []calendar.Date{today.AddDays(-1), today.AddDays(31), today.AddDays(-400)} {
		slots, err := r.ResolveSlots(context.Background(), doctorID, d)
		require.NoError(t, err)
		assert.Empty(t, slots, d.String())
	}
	assert.Equal(t, int32(0), repo.reads.Load())

	_, err := r.ResolveSlots(context.Background(), doctorID, today.AddDays(30))
	require.NoError(t, err)
	assert.NotZero(t, repo.reads.Load())
}

func TestResolveTodayIsBookable(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	require.NoError(t, repo.SaveWeekly(context.Background(), ClinicHours(doctorID)))

	slots, err := newResolver(repo).ResolveSlots(context.Background(), doctorID, calendar.DateOf(fixedNow))
	require.NoError(t, err)
	assert.NotEmpty(t, slots)
}

func TestResolveUnavailableExceptionWins(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	ctx := context.Background()
	require.NoError(t, repo.SaveWeekly(ctx, ClinicHours(doctorID)))
	require.NoError(t, repo.UpsertException(ctx, Exception{DoctorID: doctorID, Date: nextMonday(), Kind: ExceptionUnavailable, Reason: "conference"}))

	slots, err := newResolver(repo).ResolveSlots(ctx, doctorID, nextMonday())
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveCustomExceptionIgnoresTemplate(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	ctx := context.Background()
	require.NoError(t, repo.SaveWeekly(ctx, ClinicHours(doctorID)))

	sunday := nextMonday().AddDays(-1)
	require.NoError(t, repo.UpsertException(ctx, Exception{
		DoctorID: doctorID,
		Date:     sunday,
		Kind:     ExceptionCustom,
		Slots:    []calendar.TimeRange{rng("11:00", "12:00"), rng("08:00", "08:30")},
	}))

	slots, err := newResolver(repo).ResolveSlots(ctx, doctorID, sunday)
	require.NoError(t, err)
	assert.Equal(t, []calendar.TimeOfDay{tod("08:00"), tod("11:00"), tod("11:30")}, slots)
}

func TestResolveNoScheduleIsEmpty(t *testing.T) {
	slots, err := newResolver(NewMemoryRepository()).ResolveSlots(context.Background(), uuid.New(), nextMonday())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	require.NoError(t, repo.SaveWeekly(context.Background(), ClinicHours(doctorID)))
	r := newResolver(repo)

	first, err := r.ResolveSlots(context.Background(), doctorID, nextMonday())
	require.NoError(t, err)
	second, err := r.ResolveSlots(context.Background(), doctorID, nextMonday())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveUsesClinicZone(t *testing.T) {
	repo := NewMemoryRepository()
	doctorID := uuid.New()
	require.NoError(t, repo.SaveWeekly(context.Background(), ClinicHours(doctorID)))

	// 2026-03-04 23:30 UTC is already 2026-03-05 in UTC+9.
	late := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)
	r := NewResolver(repo, ResolverOptions{
		HorizonDays: 30,
		Location:    time.FixedZone("UTC+9", 9*3600),
		Now:         func() time.Time { return late },
	})

	assert.False(t, r.Bookable(calendar.DateOf(late)))
	assert.True(t, r.Bookable(calendar.DateOf(late).AddDays(1)))
}

func TestResolverWindow(t *testing.T) {
	r := newResolver(NewMemoryRepository())

	first, last := r.Window()
	assert.Equal(t, calendar.Date{Year: 2026, Month: time.March, Day: 4}, first)
	assert.Equal(t, calendar.Date{Year: 2026, Month: time.April, Day: 3}, last)
	assert.True(t, r.Bookable(last))
	assert.False(t, r.Bookable(last.AddDays(1)))
}
