// Package memrepo holds map-backed repositories with the same conditional
// semantics as the Mongo ones. Service tests run against it.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"slotwise/database/repository"
	"slotwise/models"

	"github.com/google/uuid"
)

// Store backs all four repositories so bookings can touch slots atomically.
type Store struct {
	mu           sync.Mutex
	users        map[string]models.User
	providers    map[string]models.Provider
	slots        map[string]models.Availability
	appointments map[string]models.Appointment
}

func NewStore() *Store {
	return &Store{
		users:        map[string]models.User{},
		providers:    map[string]models.Provider{},
		slots:        map[string]models.Availability{},
		appointments: map[string]models.Appointment{},
	}
}

func (s *Store) Users() *Users               { return &Users{s} }
func (s *Store) Providers() *Providers       { return &Providers{s} }
func (s *Store) Availabilities() *Slots      { return &Slots{s} }
func (s *Store) Appointments() *Appointments { return &Appointments{s} }

func window[T any](items []T, req models.PageRequest) []T {
	start := int(req.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Users implements userRepo.UserRepository.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.ID == u.ID || existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *Users) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.find(func(u models.User) bool { return u.Email == email })
	return err == nil, nil
}

func (r *Users) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.find(func(u models.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *Users) sorted() []models.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Users) GetAll(_ context.Context) ([]models.User, error) { return r.sorted(), nil }

func (r *Users) GetPage(_ context.Context, req models.PageRequest) ([]models.User, int64, error) {
	all := r.sorted()
	return window(all, req), int64(len(all)), nil
}

func (r *Users) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && (other.Email == u.Email || other.Username == u.Username) {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = time.Now().UTC()
	stored := *u
	stored.TokenHash = current.TokenHash
	r.s.users[u.ID] = stored
	return nil
}

func (r *Users) SetTokenHash(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TokenHash = hash
	r.s.users[id] = u
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *Users) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// Providers implements providerRepo.ProviderRepository.
type Providers struct{ s *Store }

func (r *Providers) Create(_ context.Context, p *models.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.providers {
		if existing.ID == p.ID || existing.UserID == p.UserID {
			return repository.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Availabilities = nil
	r.s.providers[p.ID] = stored
	return nil
}

func (r *Providers) find(match func(models.Provider) bool) (*models.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.providers {
		if match(p) {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Providers) GetByID(_ context.Context, id string) (*models.Provider, error) {
	return r.find(func(p models.Provider) bool { return p.ID == id })
}

func (r *Providers) GetByUserID(_ context.Context, userID string) (*models.Provider, error) {
	return r.find(func(p models.Provider) bool { return p.UserID == userID })
}

func (r *Providers) GetByUsername(_ context.Context, username string) (*models.Provider, error) {
	return r.find(func(p models.Provider) bool { return p.Username == username })
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(term)))
}

func matches(p models.Provider, field models.ProviderSearchField, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	switch field {
	case models.SearchServiceName:
		return containsFold(p.ServiceName, term)
	case models.SearchCity:
		return containsFold(p.City, term)
	case models.SearchDescription:
		return containsFold(p.Description, term)
	}
	for _, v := range []string{p.ServiceName, p.Description, p.City, p.State, p.Address, p.Username} {
		if containsFold(v, term) {
			return true
		}
	}
	return false
}

func (r *Providers) filtered(field models.ProviderSearchField, term string) []models.Provider {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Provider{}
	for _, p := range r.s.providers {
		if matches(p, field, term) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Providers) GetAll(_ context.Context) ([]models.Provider, error) {
	return r.filtered(models.SearchAll, ""), nil
}

func (r *Providers) GetPage(_ context.Context, req models.PageRequest) ([]models.Provider, int64, error) {
	all := r.filtered(models.SearchAll, "")
	return window(all, req), int64(len(all)), nil
}

func (r *Providers) Search(_ context.Context, field models.ProviderSearchField, term string) ([]models.Provider, error) {
	return r.filtered(field, term), nil
}

func (r *Providers) SearchPage(_ context.Context, field models.ProviderSearchField, term string, req models.PageRequest) ([]models.Provider, int64, error) {
	all := r.filtered(field, term)
	return window(all, req), int64(len(all)), nil
}

func (r *Providers) Update(_ context.Context, p *models.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.providers[p.ID]
	if !ok || existing.UserID != p.UserID {
		return repository.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	stored := *p
	stored.Availabilities = nil
	r.s.providers[p.ID] = stored
	return nil
}

func (r *Providers) SyncUsername(_ context.Context, userID, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.providers {
		if p.UserID == userID {
			p.Username = username
			r.s.providers[id] = p
		}
	}
	return nil
}

func (r *Providers) SetProfileImage(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ProfileImage = url
	r.s.providers[id] = p
	return nil
}

func (r *Providers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.providers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.providers, id)
	return nil
}

func (r *Providers) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.providers)), nil
}
