package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/model"
)

type ContactStore interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	List(ctx context.Context) ([]model.ContactMessage, error)
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Inbox stores contact messages.  Messages are never edited or deleted.
type Inbox struct {
	store    ContactStore
	validate *validator.Validate
	now      func() time.Time
}

func NewInbox(store ContactStore) *Inbox {
	return &Inbox{store: store, validate: NewValidator(time.Now), now: time.Now}
}

func (b *Inbox) Submit(ctx context.Context, req ContactRequest) (uint64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if err := validate(b.validate, req); err != nil {
		return 0, err
	}
	msg := &model.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: b.now().UTC(),
	}
	if err := b.store.Create(ctx, msg); err != nil {
		return 0, apperror.Persistence("could not save message", err)
	}
	return msg.ID, nil
}

// List returns all messages, newest first.
func (b *Inbox) List(ctx context.Context) ([]model.ContactMessage, error) {
	out, err := b.store.List(ctx)
	if err != nil {
		return nil, apperror.Persistence("could not list messages", err)
	}
	return out, nil
}
