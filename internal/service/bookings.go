package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/metrics"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/queue"
	"github.com/iliyamo/waste-pickup/internal/repository"
)

// BookingStore is the persistence behind BookingManager.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
}

// BookingRequest is a pickup request as submitted by a client.  Photo is the
// blob store's filename for the uploaded image; UserID is set when the
// caller is logged in.
type BookingRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Address string  `json:"address" validate:"required,min=5,max=255"`
	Date    string  `json:"date" validate:"required,pickupdate"`
	Time    string  `json:"time" validate:"required,hhmm"`
	Photo   string  `json:"photo" validate:"required"`
	UserID  *uint64 `json:"-"`
}

// BookingManager runs the booking lifecycle: create, read and status update.
// Events are published after the row is written; a publish failure is logged
// and does not fail the call.
type BookingManager struct {
	store    BookingStore
	events   EventPublisher
	log      *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewBookingManager(store BookingStore, events EventPublisher, log *logger.Logger) *BookingManager {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	m := &BookingManager{store: store, events: events, log: log, now: time.Now}
	m.validate = NewValidator(func() time.Time { return m.now() })
	return m
}

// Validate reports every invalid field of req without storing anything.
func (m *BookingManager) Validate(req BookingRequest) error {
	return validate(m.validate, normalizeBooking(req))
}

// Create validates req and stores a new booking in status pending.
func (m *BookingManager) Create(ctx context.Context, req BookingRequest) (uint64, error) {
	req = normalizeBooking(req)
	if err := validate(m.validate, req); err != nil {
		return 0, err
	}
	now := m.now()
	day, _ := parsePickupDate(req.Date, now)

	b := &model.Booking{
		UserID:     req.UserID,
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		PickupDate: day,
		PickupTime: req.Time,
		Photo:      req.Photo,
		Status:     model.StatusPending,
		CreatedAt:  now.UTC(),
	}
	if err := m.store.Create(ctx, b); err != nil {
		return 0, apperror.Persistence("could not create booking", err)
	}

	metrics.IncBookingCreated()
	m.publish(ctx, queue.BookingEvent{
		Type:       queue.EventBookingCreated,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Name:       b.Name,
		Email:      b.Email,
		Address:    b.Address,
		PickupDate: b.PickupDate.Format(model.PickupDateLayout),
		PickupTime: b.PickupTime,
		Status:     string(b.Status),
	})
	return b.ID, nil
}

// List returns every booking, newest first.
func (m *BookingManager) List(ctx context.Context) ([]model.Booking, error) {
	out, err := m.store.List(ctx)
	if err != nil {
		return nil, apperror.Persistence("could not list bookings", err)
	}
	return out, nil
}

// ListFiltered returns the bookings in the given status.  An empty status
// behaves like List.
func (m *BookingManager) ListFiltered(ctx context.Context, status string) ([]model.Booking, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return m.List(ctx)
	}
	st, err := model.ParseBookingStatus(status)
	if err != nil {
		return nil, apperror.FieldError("status", statusMessage())
	}
	out, err := m.store.ListByStatus(ctx, st)
	if err != nil {
		return nil, apperror.Persistence("could not list bookings", err)
	}
	return out, nil
}

// ListForUser returns the bookings owned by userID, newest first.
func (m *BookingManager) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Persistence("could not list bookings", err)
	}
	return out, nil
}

func (m *BookingManager) Get(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, apperror.NotFound("booking")
		}
		return model.Booking{}, apperror.Persistence("could not load booking", err)
	}
	return b, nil
}

// UpdateStatus sets the status of booking id and returns the stored value.
// Any status of the closed set is accepted regardless of the current one;
// concurrent updates are last-writer-wins.
func (m *BookingManager) UpdateStatus(ctx context.Context, id uint64, status string) (model.BookingStatus, error) {
	st, err := model.ParseBookingStatus(strings.TrimSpace(status))
	if err != nil {
		return "", apperror.FieldError("status", statusMessage())
	}

	// Read first only to report the previous status in the event.
	prev, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("booking")
		}
		return "", apperror.Persistence("could not load booking", err)
	}
	if err := m.store.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("booking")
		}
		return "", apperror.Persistence("could not update booking", err)
	}

	metrics.IncStatusChange(string(st))
	m.publish(ctx, queue.BookingEvent{
		Type:           queue.EventBookingStatusChanged,
		BookingID:      id,
		UserID:         prev.UserID,
		Email:          prev.Email,
		Status:         string(st),
		PreviousStatus: string(prev.Status),
	})
	return st, nil
}

// NextStatuses returns the forward steps from current.  UpdateStatus does not
// consult it.
func (m *BookingManager) NextStatuses(current model.BookingStatus) []model.BookingStatus {
	return current.NextStatuses()
}

func (m *BookingManager) publish(ctx context.Context, ev queue.BookingEvent) {
	ev.OccurredAt = m.now().UTC().Format(time.RFC3339)
	if err := m.events.Publish(ctx, ev); err != nil {
		m.log.Warn("booking event not published", "type", ev.Type, "booking_id", ev.BookingID, "error", err)
	}
}

func normalizeBooking(req BookingRequest) BookingRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	return req
}

func statusMessage() string {
	names := make([]string, len(model.BookingStatuses))
	for i, s := range model.BookingStatuses {
		names[i] = string(s)
	}
	return "must be one of: " + strings.Join(names, ", ")
}
