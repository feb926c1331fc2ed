package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/doctor"
	redisclient "github.com/hackgods/doctor-booking/internal/redis"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

// Wednesday 2026-03-04, 08:00 UTC.
var testNow = time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)

type env struct {
	repo      *MemoryRepository
	doctors   *doctor.Service
	schedules *schedule.MemoryRepository
	resolver  *schedule.Resolver
	allocator *Allocator
	lifecycle *Lifecycle
	queries   *Queries
	admin     auth.Actor
	doctor    *doctor.Doctor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithLocker(t, redisclient.NoopLocker{})
}

func newEnvWithLocker(t *testing.T, locker redisclient.Locker) *env {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	admin := auth.Actor{Role: auth.RoleAdmin, ID: uuid.New()}
	doctors := doctor.NewService(doctor.NewMemoryRepository(), log)
	d, err := doctors.Create(ctx, admin, doctor.NewDoctor{
		Name: "Dr. John Smith", Email: "john@clinic.test", Specialization: "Cardiologist", Rating: 4.5,
	})
	require.NoError(t, err)

	schedules := schedule.NewMemoryRepository()
	w := schedule.Unavailable(d.ID)
	w.Days[time.Monday] = schedule.DaySchedule{
		IsAvailable: true,
		Slots:       []calendar.TimeRange{{Start: at("09:00"), End: at("10:00")}},
	}
	require.NoError(t, schedules.SaveWeekly(ctx, w))

	resolver := schedule.NewResolver(schedules, schedule.ResolverOptions{
		HorizonDays: 30,
		Granularity: 30 * time.Minute,
		Now:         func() time.Time { return testNow },
	})

	repo := NewMemoryRepository()
	repo.Clock = func() time.Time { return testNow }

	return &env{
		repo:      repo,
		doctors:   doctors,
		schedules: schedules,
		resolver:  resolver,
		allocator: NewAllocator(repo, doctors, resolver, locker, log),
		lifecycle: NewLifecycle(repo, log),
		queries:   NewQueries(repo),
		admin:     admin,
		doctor:    d,
	}
}

func at(s string) calendar.TimeOfDay {
	t, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func nextMonday() calendar.Date {
	return calendar.DateOf(testNow).AddDays(5)
}

func (e *env) draft(patientID uuid.UUID, slot string) Draft {
	t := at(slot)
	return Draft{
		PatientID:     patientID,
		PatientName:   "Ada Patient",
		PatientEmail:  "ada@example.test",
		PatientPhone:  "+1-555-0100",
		PatientGender: "female",
		PatientAge:    34,
		DoctorID:      e.doctor.ID,
		Date:          nextMonday(),
		Time:          &t,
		HealthIssue:   "chest pain",
	}
}

func (e *env) doctorActor() auth.Actor {
	return auth.Actor{Role: auth.RoleDoctor, ID: e.doctor.ID}
}

// fullDraft is a draft with the doctor snapshot already filled in.
func fullDraft(doctorID uuid.UUID, date calendar.Date, slot string) Draft {
	t := at(slot)
	return Draft{
		PatientID:      uuid.New(),
		PatientName:    "Ben Patient",
		PatientPhone:   "+1-555-0101",
		PatientGender:  "male",
		PatientAge:     51,
		DoctorID:       doctorID,
		DoctorName:     "Dr. Jane Doe",
		Specialization: "Dermatologist",
		Date:           date,
		Time:           &t,
		HealthIssue:    "rash",
	}
}
