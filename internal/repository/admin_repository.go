package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/waste-pickup/internal/model"
)

// AdminRepo reads and seeds the singleton admin row.  The unique key on
// admins.username is what keeps the row singular; Create reports
// ErrAdminExists when another process seeded it first.
type AdminRepo struct{ DB *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{DB: db} }

func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := r.DB.GetContext(ctx, &a,
		"SELECT id,username,password_hash,created_at FROM admins WHERE username=? LIMIT 1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, created_at) VALUES (?,?,?)",
		a.Username, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAdminExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
