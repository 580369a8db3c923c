package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vacq/booking-service/internal/domain"
)

// MemoryHospitalRepository is the in-process hospital store.
type MemoryHospitalRepository struct {
	mu        sync.RWMutex
	hospitals map[string]domain.Hospital
}

// NewMemoryHospitalRepository returns an empty repository.
func NewMemoryHospitalRepository() *MemoryHospitalRepository {
	return &MemoryHospitalRepository{hospitals: make(map[string]domain.Hospital)}
}

func (r *MemoryHospitalRepository) Create(_ context.Context, h *domain.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(h.Name, "") {
		return ErrDuplicateName
	}
	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	r.hospitals[h.ID] = *h
	return nil
}

func (r *MemoryHospitalRepository) Update(_ context.Context, h *domain.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.hospitals[h.ID]
	if !ok {
		return ErrNotFound
	}
	if r.nameTaken(h.Name, h.ID) {
		return ErrDuplicateName
	}
	h.CreatedAt = existing.CreatedAt
	h.UpdatedAt = time.Now().UTC()
	r.hospitals[h.ID] = *h
	return nil
}

func (r *MemoryHospitalRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hospitals[id]; !ok {
		return ErrNotFound
	}
	delete(r.hospitals, id)
	return nil
}

func (r *MemoryHospitalRepository) GetByID(_ context.Context, id string) (*domain.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hospitals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (r *MemoryHospitalRepository) List(_ context.Context) ([]domain.Hospital, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Hospital, 0, len(r.hospitals))
	for _, h := range r.hospitals {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryHospitalRepository) nameTaken(name, exceptID string) bool {
	for id, h := range r.hospitals {
		if id != exceptID && h.Name == name {
			return true
		}
	}
	return false
}
