package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/auth"
)

// Queries are the read paths, scoped to what the actor may see.
type Queries struct {
	repo Repository
}

func NewQueries(repo Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Booking, error) {
	b, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(actor, *b) {
		return nil, ErrNotVisible
	}
	return b, nil
}

// List applies f after pinning patients and doctors to their own bookings.
func (q *Queries) List(ctx context.Context, actor auth.Actor, f Filter) ([]Booking, error) {
	switch actor.Role {
	case auth.RolePatient:
		if f.PatientID != uuid.Nil && f.PatientID != actor.ID {
			return nil, ErrNotVisible
		}
		f.PatientID = actor.ID
	case auth.RoleDoctor:
		if f.DoctorID != uuid.Nil && f.DoctorID != actor.ID {
			return nil, ErrNotVisible
		}
		f.DoctorID = actor.ID
	case auth.RoleAdmin:
	default:
		return nil, ErrNotVisible
	}

	list, err := q.find(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Booking{}
	}
	return list, nil
}

// find uses the single-key lookups when f names exactly one key and falls
// back to FindAll otherwise.
func (q *Queries) find(ctx context.Context, f Filter) ([]Booking, error) {
	if len(f.Statuses) > 0 {
		return q.repo.FindAll(ctx, f)
	}

	byPatient := f.PatientID != uuid.Nil
	byDoctor := f.DoctorID != uuid.Nil
	byRange := !f.From.IsZero() && !f.To.IsZero()
	open := f.From.IsZero() != f.To.IsZero()
	switch {
	case byPatient && !byDoctor && !byRange && !open:
		return q.repo.FindByPatient(ctx, f.PatientID)
	case byDoctor && !byPatient && !byRange && !open:
		return q.repo.FindByDoctor(ctx, f.DoctorID)
	case byRange && !byPatient && !byDoctor:
		return q.repo.FindByDateRange(ctx, f.From, f.To)
	default:
		return q.repo.FindAll(ctx, f)
	}
}

// Overview is the admin dashboard summary.
type Overview struct {
	Total         int            `json:"total"`
	ByStatus      map[Status]int `json:"byStatus"`
	ActiveDoctors int            `json:"activeDoctors"`
}

type ActiveDoctorCounter interface {
	CountActive(ctx context.Context) (int, error)
}

func (q *Queries) Overview(ctx context.Context, actor auth.Actor, doctors ActiveDoctorCounter) (*Overview, error) {
	if !actor.Is(auth.RoleAdmin) {
		return nil, ErrAdminOnly
	}

	counts, err := q.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	active, err := doctors.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &Overview{Total: total, ByStatus: counts, ActiveDoctors: active}, nil
}
