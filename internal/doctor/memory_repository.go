package doctor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps doctors in process. Used by the memory driver and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	doctors map[uuid.UUID]Doctor
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		doctors: make(map[uuid.UUID]Doctor),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, d Doctor) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.doctors[d.ID] = d
	return &d, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) List(_ context.Context, activeOnly bool) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Doctor
	for _, d := range r.doctors {
		if activeOnly && !d.IsActive {
			continue
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryRepository) SetActive(_ context.Context, id uuid.UUID, active bool) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	d.IsActive = active
	d.UpdatedAt = r.now().UTC()
	r.doctors[id] = d
	return &d, nil
}

func (r *MemoryRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, d := range r.doctors {
		if d.IsActive {
			n++
		}
	}
	return n, nil
}
