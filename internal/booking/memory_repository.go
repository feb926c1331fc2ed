package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type slotKey struct {
	doctorID uuid.UUID
	date     calendar.Date
	at       calendar.TimeOfDay
}

func keyOf(b Booking) slotKey {
	return slotKey{doctorID: b.DoctorID, date: b.Date, at: b.Time}
}

// MemoryRepository keeps bookings in process. The active index plays the
// part of the partial unique index, so check and insert happen under one lock.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]Booking
	active   map[slotKey]uuid.UUID
	events   []Event
	seq      int64

	// Clock stamps createdAt and updatedAt.
	Clock func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[uuid.UUID]Booking),
		active:   make(map[slotKey]uuid.UUID),
		Clock:    time.Now,
	}
}

func (r *MemoryRepository) now() time.Time {
	return r.Clock().UTC()
}

func (r *MemoryRepository) Create(_ context.Context, d Draft) (*Booking, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b := Booking{
		ID:             uuid.New(),
		PatientID:      d.PatientID,
		PatientName:    d.PatientName,
		PatientEmail:   d.PatientEmail,
		PatientPhone:   d.PatientPhone,
		PatientGender:  d.PatientGender,
		PatientAge:     d.PatientAge,
		DoctorID:       d.DoctorID,
		DoctorName:     d.DoctorName,
		Specialization: d.Specialization,
		Date:           d.Date,
		Time:           *d.Time,
		HealthIssue:    d.HealthIssue,
		Status:         StatusPending,
		Notes:          d.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	key := keyOf(b)
	if _, taken := r.active[key]; taken {
		return nil, ErrSlotTaken
	}
	r.active[key] = b.ID
	r.bookings[b.ID] = b
	return &b, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) FindByDoctorDateTime(_ context.Context, doctorID uuid.UUID, date calendar.Date, at calendar.TimeOfDay, statuses []Status) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Booking
	for _, b := range r.bookings {
		if b.DoctorID != doctorID || b.Date != date || b.Time != at {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, b.Status) {
			continue
		}
		result = append(result, b)
	}
	sortBookings(result)
	return result, nil
}

func (r *MemoryRepository) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]Booking, error) {
	return r.FindAll(ctx, Filter{PatientID: patientID})
}

func (r *MemoryRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Booking, error) {
	return r.FindAll(ctx, Filter{DoctorID: doctorID})
}

func (r *MemoryRepository) FindByDateRange(ctx context.Context, from, to calendar.Date) ([]Booking, error) {
	return r.FindAll(ctx, Filter{From: from, To: to})
}

func (r *MemoryRepository) FindAll(_ context.Context, f Filter) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Booking
	for _, b := range r.bookings {
		if f.Match(b) {
			result = append(result, b)
		}
	}
	sortBookings(result)
	return result, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, notes *string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, ErrStatusChanged
	}

	key := keyOf(b)
	if to.Active() && !from.Active() {
		if _, taken := r.active[key]; taken {
			return nil, ErrSlotTaken
		}
	}

	b.Status = to
	if notes != nil {
		b.Notes = *notes
	}
	b.UpdatedAt = r.now()
	r.bookings[id] = b

	switch {
	case to.Active():
		r.active[key] = id
	case r.active[key] == id:
		delete(r.active, key)
	}
	return &b, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	if key := keyOf(b); r.active[key] == id {
		delete(r.active, key)
	}
	delete(r.bookings, id)
	return nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int, len(allStatuses))
	for _, s := range allStatuses {
		counts[s] = 0
	}
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (r *MemoryRepository) InsertEvent(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	ev.ID = r.seq
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.now()
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded audit trail.
func (r *MemoryRepository) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Event(nil), r.events...)
}

func sortBookings(list []Booking) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
