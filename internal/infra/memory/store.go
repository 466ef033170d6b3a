package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fnb-insights/internal/application/dataset"
	authDomain "fnb-insights/internal/domain/auth"
	authinfra "fnb-insights/internal/infrastructure/auth"
)

// Store keeps uploaded datasets and accounts in memory. It backs upload
// sessions where no Postgres DSN is configured.
type Store struct {
	mu       sync.RWMutex
	users    map[string]authDomain.User
	datasets map[string]dataset.Dataset
	idSeq    int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]authDomain.User),
		datasets: make(map[string]dataset.Dataset),
	}
}

// nextID must be called with the write lock held.
func (s *Store) nextID() string {
	s.idSeq++
	return fmt.Sprintf("id-%d", s.idSeq)
}

// SeedUsers creates the default accounts for local use.
func (s *Store) SeedUsers(adminEmail, adminPassword string) {
	hash := func(p string) string {
		h, err := authinfra.HashPassword(p)
		if err != nil {
			return p
		}
		return h
	}
	if adminEmail != "" && adminPassword != "" {
		s.AddUser(adminEmail, hash(adminPassword), "Admin", authDomain.RoleAdmin)
	}
	s.AddUser("analyst@example.com", hash("analyst123"), "Analyst", authDomain.RoleAnalyst)
	s.AddUser("viewer@example.com", hash("viewer123"), "Viewer", authDomain.RoleViewer)
}

func (s *Store) AddUser(email, passwordHash, name string, role authDomain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	s.users[id] = authDomain.User{
		ID:           id,
		Email:        email,
		Name:         name,
		Role:         role,
		Status:       authDomain.StatusActive,
		PasswordHash: passwordHash,
	}
}

// UserRepository impl.
func (s *Store) FindByEmail(ctx context.Context, email string) (authDomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return authDomain.User{}, fmt.Errorf("user not found")
}

func (s *Store) FindByID(ctx context.Context, id string) (authDomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return authDomain.User{}, fmt.Errorf("user not found")
	}
	return u, nil
}

// dataset.Repository impl.
func (s *Store) SaveDataset(ctx context.Context, ds dataset.Dataset) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ds.ID
	if id == "" {
		id = s.nextID()
	}
	ds.ID = id
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = time.Now()
	}
	s.datasets[id] = ds
	return id, nil
}

func (s *Store) GetDataset(ctx context.Context, id string) (dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return dataset.Dataset{}, fmt.Errorf("dataset %s not found", id)
	}
	return ds, nil
}

// ListDatasets returns stored datasets ordered by creation time.
func (s *Store) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dataset.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
