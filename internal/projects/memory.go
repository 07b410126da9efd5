package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/helpinghands/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by unit tests and by the
// standalone project service when no MongoDB is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*models.Project
	seq   map[string]int // creation order tiebreak for identical timestamps
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*models.Project{}, seq: map[string]int{}}
}

func (m *MemoryRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.JoinedVolunteers == nil {
		p.JoinedVolunteers = []string{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	m.seq[p.ID] = m.next
	m.next++
	return p, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clone(p)
	return cp, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Project, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return m.seq[out[i].ID] > m.seq[out[j].ID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) AddVolunteer(ctx context.Context, projectID, userID string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.JoinedVolunteers == nil {
		p.JoinedVolunteers = []string{}
	}
	if !p.HasVolunteer(userID) {
		p.JoinedVolunteers = append(p.JoinedVolunteers, userID)
		p.UpdatedAt = time.Now().UTC()
	}
	return clone(p), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}

func clone(p *models.Project) *models.Project {
	cp := *p
	cp.JoinedVolunteers = append([]string{}, p.JoinedVolunteers...)
	return &cp
}
