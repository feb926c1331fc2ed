package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/doctor-booking/internal/calendar"
)

type exceptionKey struct {
	doctorID uuid.UUID
	date     calendar.Date
}

type MemoryRepository struct {
	mu         sync.RWMutex
	weekly     map[uuid.UUID]WeeklySchedule
	exceptions map[exceptionKey]Exception
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		weekly:     make(map[uuid.UUID]WeeklySchedule),
		exceptions: make(map[exceptionKey]Exception),
	}
}

func cloneRanges(in []calendar.TimeRange) []calendar.TimeRange {
	if in == nil {
		return nil
	}
	return append([]calendar.TimeRange(nil), in...)
}

func cloneWeekly(w WeeklySchedule) WeeklySchedule {
	for i := range w.Days {
		w.Days[i].Slots = cloneRanges(w.Days[i].Slots)
	}
	return w
}

func (r *MemoryRepository) GetWeekly(_ context.Context, doctorID uuid.UUID) (*WeeklySchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.weekly[doctorID]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	w = cloneWeekly(w)
	return &w, nil
}

func (r *MemoryRepository) SaveWeekly(_ context.Context, w WeeklySchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w = cloneWeekly(w)
	w.UpdatedAt = time.Now().UTC()
	r.weekly[w.DoctorID] = w
	return nil
}

func (r *MemoryRepository) GetException(_ context.Context, doctorID uuid.UUID, date calendar.Date) (*Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exceptions[exceptionKey{doctorID, date}]
	if !ok {
		return nil, ErrExceptionNotFound
	}
	e.Slots = cloneRanges(e.Slots)
	return &e, nil
}

func (r *MemoryRepository) ListExceptions(_ context.Context, doctorID uuid.UUID, from, to calendar.Date) ([]Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Exception
	for k, e := range r.exceptions {
		if k.doctorID != doctorID || k.date.Before(from) || k.date.After(to) {
			continue
		}
		e.Slots = cloneRanges(e.Slots)
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *MemoryRepository) UpsertException(_ context.Context, e Exception) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Slots = cloneRanges(e.Slots)
	r.exceptions[exceptionKey{e.DoctorID, e.Date}] = e
	return nil
}

func (r *MemoryRepository) DeleteException(_ context.Context, doctorID uuid.UUID, date calendar.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := exceptionKey{doctorID, date}
	if _, ok := r.exceptions[key]; !ok {
		return ErrExceptionNotFound
	}
	delete(r.exceptions, key)
	return nil
}
