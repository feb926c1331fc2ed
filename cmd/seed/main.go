package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/calendar"
	"github.com/hackgods/doctor-booking/internal/db"
	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/logging"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

// seedGranularity is the grid the seeded templates are drawn on. Any server
// step that divides 30 minutes accepts them.
const seedGranularity = 30 * time.Minute

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func main() {
	count := flag.Int("doctors", 20, "number of generated doctors on top of the named ones")
	flag.Parse()

	_ = godotenv.Load()
	log := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn, db.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if n, err := db.NewMigrator(pool, db.Migrations()).Up(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	} else if n > 0 {
		log.Info().Int("applied", n).Msg("migrations applied")
	}

	s := newSeeder(doctor.NewPgRepository(pool), schedule.NewPgRepository(pool), log)
	if err := s.seed(context.Background(), *count); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().Msg("seed complete")
}

type seeder struct {
	doctors   *doctor.Service
	schedules *schedule.Service
	admin     auth.Actor
	log       zerolog.Logger
}

func newSeeder(doctors doctor.Repository, schedules schedule.Repository, log zerolog.Logger) *seeder {
	doctorSvc := doctor.NewService(doctors, log)
	return &seeder{
		doctors:   doctorSvc,
		schedules: schedule.NewService(schedules, doctorSvc, seedGranularity, log),
		admin:     auth.Actor{Role: auth.RoleAdmin, ID: uuid.New(), Name: "seed"},
		log:       log,
	}
}

func (s *seeder) seed(ctx context.Context, count int) error {
	named := []struct {
		req      doctor.NewDoctor
		schedule func(uuid.UUID) schedule.WeeklySchedule
	}{
		{
			req:      doctor.NewDoctor{Name: "Dr. John Smith", Email: "john.smith@clinic.example", Specialization: "Cardiology", Rating: 4.8},
			schedule: schedule.ClinicHours,
		},
		{
			req:      doctor.NewDoctor{Name: "Dr. Jane Doe", Email: "jane.doe@clinic.example", Specialization: "Dermatology", Rating: 4.6},
			schedule: weekdaysLateStart,
		},
	}

	for _, n := range named {
		if err := s.addDoctor(ctx, n.req, n.schedule); err != nil {
			return err
		}
	}

	s.log.Info().Int("count", count).Msg("seeding generated doctors")
	for i := 0; i < count; i++ {
		req := doctor.NewDoctor{
			Name:           "Dr. " + gofakeit.Name(),
			Email:          gofakeit.Email(),
			Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
			Rating:         float64(gofakeit.Number(30, 50)) / 10,
		}
		tmpl := schedule.ClinicHours
		if i%3 == 0 {
			tmpl = weekdaysLateStart
		}
		if err := s.addDoctor(ctx, req, tmpl); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) addDoctor(ctx context.Context, req doctor.NewDoctor, tmpl func(uuid.UUID) schedule.WeeklySchedule) error {
	d, err := s.doctors.Create(ctx, s.admin, req)
	if err != nil {
		return fmt.Errorf("create doctor %s: %w", req.Name, err)
	}
	if err := s.schedules.SetWeeklySchedule(ctx, s.admin, tmpl(d.ID)); err != nil {
		return fmt.Errorf("schedule for %s: %w", d.Name, err)
	}

	s.log.Info().
		Str("doctor_id", d.ID.String()).
		Str("name", d.Name).
		Str("specialization", d.Specialization).
		Msg("doctor seeded")
	return nil
}

// weekdaysLateStart is Monday to Friday, 10:00-12:00 and 15:00-17:00.
func weekdaysLateStart(doctorID uuid.UUID) schedule.WeeklySchedule {
	w := schedule.Unavailable(doctorID)
	for d := time.Monday; d <= time.Friday; d++ {
		w.Days[d] = schedule.DaySchedule{
			IsAvailable: true,
			Slots: []calendar.TimeRange{
				{Start: calendar.NewTimeOfDay(10, 0), End: calendar.NewTimeOfDay(12, 0)},
				{Start: calendar.NewTimeOfDay(15, 0), End: calendar.NewTimeOfDay(17, 0)},
			},
		}
	}
	return w
}
