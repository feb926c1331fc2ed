package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type ResolverOptions struct {
	HorizonDays int            // last bookable day is today + HorizonDays
	Granularity time.Duration  // slot length ranges are cut into
	Location    *time.Location // zone that defines today
	Now         func() time.Time
}

// Resolver turns schedule state into bookable slot starts. It never writes.
type Resolver struct {
	repo    Repository
	horizon int
	step    time.Duration
	loc     *time.Location
	now     func() time.Time
}

func NewResolver(repo Repository, opts ResolverOptions) *Resolver {
	if opts.Granularity <= 0 {
		opts.Granularity = 30 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Resolver{
		repo:    repo,
		horizon: opts.HorizonDays,
		step:    opts.Granularity,
		loc:     opts.Location,
		now:     opts.Now,
	}
}

func (r *Resolver) Granularity() time.Duration { return r.step }

// Today is the current clinic date.
func (r *Resolver) Today() calendar.Date {
	return calendar.Today(r.now(), r.loc)
}

// Window returns the first and last bookable dates.
func (r *Resolver) Window() (first, last calendar.Date) {
	today := r.Today()
	return today, today.AddDays(r.horizon)
}

// Bookable reports whether date lies in [today, today+horizon].
func (r *Resolver) Bookable(date calendar.Date) bool {
	first, last := r.Window()
	return !date.Before(first) && !date.After(last)
}

// ResolveSlots returns the ordered slot starts offered for doctorID on date.
// Slots already held by bookings are not removed here.
func (r *Resolver) ResolveSlots(ctx context.Context, doctorID uuid.UUID, date calendar.Date) ([]calendar.TimeOfDay, error) {
	if !r.Bookable(date) {
		return []calendar.TimeOfDay{}, nil
	}

	exc, err := r.repo.GetException(ctx, doctorID, date)
	switch {
	case err == nil:
		if exc.Kind == ExceptionUnavailable {
			return []calendar.TimeOfDay{}, nil
		}
		return r.expand(exc.Slots), nil
	case !errors.Is(err, ErrExceptionNotFound):
		return nil, fmt.Errorf("load exception: %w", err)
	}

	weekly, err := r.repo.GetWeekly(ctx, doctorID)
	if errors.Is(err, ErrScheduleNotFound) {
		return []calendar.TimeOfDay{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load weekly schedule: %w", err)
	}

	day := weekly.Day(date.Weekday())
	if !day.IsAvailable {
		return []calendar.TimeOfDay{}, nil
	}
	return r.expand(day.Slots), nil
}

func (r *Resolver) expand(ranges []calendar.TimeRange) []calendar.TimeOfDay {
	slots := calendar.Expand(ranges, r.step)
	if slots == nil {
		return []calendar.TimeOfDay{}
	}
	return slots
}
