package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/waste-pickup/internal/model"
)

const bookingColumns = "id,user_id,name,email,address,pickup_date,pickup_time,photo,status,created_at"

// BookingRepo persists pickup bookings.  Lists are full scans ordered newest
// first; there is no pagination at this system's scale.
type BookingRepo struct{ DB *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Create inserts b and fills in its ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookings (user_id, name, email, address, pickup_date, pickup_time, photo, status, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		b.UserID, b.Name, b.Email, b.Address, b.PickupDate, b.PickupTime, b.Photo, b.Status, b.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var b model.Booking
	err := r.DB.GetContext(ctx, &b, "SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

// List returns every booking, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	out := []model.Booking{}
	err := r.DB.SelectContext(ctx, &out,
		"SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC, id DESC")
	return out, err
}

// ListByStatus returns bookings in the given status, newest first.
func (r *BookingRepo) ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	out := []model.Booking{}
	err := r.DB.SelectContext(ctx, &out,
		"SELECT "+bookingColumns+" FROM bookings WHERE status=? ORDER BY created_at DESC, id DESC", status)
	return out, err
}

// ListByUser returns the bookings owned by userID, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	err := r.DB.SelectContext(ctx, &out,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	return out, err
}

// UpdateStatus overwrites the status of one booking (last writer wins).
// It returns ErrNotFound when no row matches id.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
