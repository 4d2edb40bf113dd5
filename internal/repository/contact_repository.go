package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/waste-pickup/internal/model"
)

// ContactRepo is the append-only inbox store.  It has no update or delete.
type ContactRepo struct{ DB *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{DB: db} }

func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, message, created_at) VALUES (?,?,?,?)",
		m.Name, m.Email, m.Message, m.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// List returns all messages, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	out := []model.ContactMessage{}
	err := r.DB.SelectContext(ctx, &out,
		"SELECT id,name,email,message,created_at FROM contact_messages ORDER BY created_at DESC, id DESC")
	return out, err
}
