// Package memstore provides in-memory implementations of the repository
// contracts.  They mirror the MySQL repositories' ordering and sentinel
// errors and back the service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/repository"
)

type Users struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.User
}

func NewUsers() *Users { return &Users{rows: map[uint64]model.User{}} }

func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, row := range s.rows {
		if row.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.rows[u.ID] = *u
	return nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, row := range s.rows {
		if row.Email == email {
			return row, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *Users) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return row, nil
}

type Admins struct {
	mu   sync.Mutex
	rows []model.Admin
}

func NewAdmins() *Admins { return &Admins{} }

func (s *Admins) GetByUsername(_ context.Context, username string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.Username == username {
			return a, nil
		}
	}
	return model.Admin{}, repository.ErrNotFound
}

func (s *Admins) Create(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Username == a.Username {
			return repository.ErrAdminExists
		}
	}
	a.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *a)
	return nil
}

// Len returns the number of admin rows.
func (s *Admins) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type Bookings struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Booking
}

func NewBookings() *Bookings { return &Bookings{rows: map[uint64]model.Booking{}} }

func (s *Bookings) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.rows[b.ID] = *b
	return nil
}

func (s *Bookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *Bookings) List(_ context.Context) ([]model.Booking, error) {
	return s.filter(func(model.Booking) bool { return true }), nil
}

func (s *Bookings) ListByStatus(_ context.Context, status model.BookingStatus) ([]model.Booking, error) {
	return s.filter(func(b model.Booking) bool { return b.Status == status }), nil
}

func (s *Bookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	return s.filter(func(b model.Booking) bool { return b.UserID != nil && *b.UserID == userID }), nil
}

func (s *Bookings) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	s.rows[id] = b
	return nil
}

func (s *Bookings) filter(keep func(model.Booking) bool) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.rows {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type Contacts struct {
	mu   sync.Mutex
	rows []model.ContactMessage
}

func NewContacts() *Contacts { return &Contacts{} }

func (s *Contacts) Create(_ context.Context, m *model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *m)
	return nil
}

func (s *Contacts) List(_ context.Context) ([]model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ContactMessage, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

type Pricing struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.PricingItem
}

func NewPricing() *Pricing { return &Pricing{rows: map[uint64]model.PricingItem{}} }

func (s *Pricing) List(_ context.Context) ([]model.PricingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PricingItem, 0, len(s.rows))
	for _, it := range s.rows {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Pricing) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *Pricing) GetByID(_ context.Context, id uint64) (model.PricingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.rows[id]
	if !ok {
		return model.PricingItem{}, repository.ErrNotFound
	}
	return it, nil
}

func (s *Pricing) Create(_ context.Context, it *model.PricingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	it.ID = s.nextID
	s.rows[it.ID] = *it
	return nil
}

func (s *Pricing) Update(_ context.Context, id uint64, p model.PricingPatch, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	it.UpdatedAt = updatedAt
	s.rows[id] = it
	return nil
}

func (s *Pricing) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
