package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
)

// MemoryRepo keeps profiles in process. Used when DB_DSN is unset in
// development and by tests.
type MemoryRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: map[string]domain.Profile{}}
}

func (m *MemoryRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return clone(p), nil
}

func (m *MemoryRepo) Mutate(_ context.Context, userID string, fn func(*domain.Profile) error) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := domain.Default(userID)
	if existing, ok := m.profiles[userID]; ok {
		p = clone(existing)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.Normalize()
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = *clone(*p)
	return p, nil
}

func (m *MemoryRepo) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	return nil
}

func (m *MemoryRepo) ListPushTargets(context.Context) ([]domain.PushTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PushTarget, 0, len(m.profiles))
	for id, p := range m.profiles {
		if p.PushToken != "" {
			out = append(out, domain.PushTarget{UserID: id, PushToken: p.PushToken})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func clone(p domain.Profile) *domain.Profile {
	cp := p
	cp.Inventory = make(map[catalog.ProductID]int, len(p.Inventory))
	for k, v := range p.Inventory {
		cp.Inventory[k] = v
	}
	cp.SkinConcerns = append([]catalog.Concern(nil), p.SkinConcerns...)
	if p.CustomRituals != nil {
		c := *p.CustomRituals
		c.Morning = append([]catalog.ProductID(nil), c.Morning...)
		c.Evening = append([]catalog.ProductID(nil), c.Evening...)
		cp.CustomRituals = &c
	}
	if p.ReferenceDate != nil {
		d := *p.ReferenceDate
		cp.ReferenceDate = &d
	}
	return &cp
}
