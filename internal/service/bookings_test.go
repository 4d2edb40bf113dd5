package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/queue"
	"github.com/iliyamo/waste-pickup/internal/repository/memstore"
)

func newBookings() (*BookingManager, *memstore.Bookings, *recordingPublisher) {
	store, pub := memstore.NewBookings(), &recordingPublisher{}
	m := NewBookingManager(store, pub, nil)
	m.now = func() time.Time { return fixedNow }
	return m, store, pub
}

func validBooking() BookingRequest {
	return BookingRequest{
		Name:    "Ann Lee",
		Email:   "ann@x.com",
		Address: "1 Main Street",
		Date:    "2026-03-12",
		Time:    "09:30",
		Photo:   "abc.jpg",
	}
}

func TestBookingCreate(t *testing.T) {
	m, store, pub := newBookings()
	ctx := context.Background()
	uid := uint64(7)

	req := validBooking()
	req.UserID = &uid
	id, err := m.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	b, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.PickupDate.Format(model.PickupDateLayout) != "2026-03-12" || b.PickupTime != "09:30" {
		t.Errorf("pickup = %v %q", b.PickupDate, b.PickupTime)
	}
	if b.UserID == nil || *b.UserID != uid {
		t.Errorf("user id = %v", b.UserID)
	}

	evs := pub.Events()
	if len(evs) != 1 || evs[0].Type != queue.EventBookingCreated || evs[0].BookingID != id {
		t.Errorf("events = %+v", evs)
	}
}

func TestBookingCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*BookingRequest)
		field string
	}{
		{"past date", func(r *BookingRequest) { r.Date = "2026-03-09" }, "date"},
		{"bad date", func(r *BookingRequest) { r.Date = "12/03/2026" }, "date"},
		{"bad time", func(r *BookingRequest) { r.Time = "25:00" }, "time"},
		{"missing photo", func(r *BookingRequest) { r.Photo = "" }, "photo"},
		{"bad email", func(r *BookingRequest) { r.Email = "ann" }, "email"},
		{"blank name", func(r *BookingRequest) { r.Name = "   " }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, pub := newBookings()
			req := validBooking()
			tt.edit(&req)
			_, err := m.Create(context.Background(), req)
			if codeOf(err) != apperror.CodeValidation {
				t.Fatalf("code = %q, want validation", codeOf(err))
			}
			if detailsOf(err)[tt.field] == "" {
				t.Errorf("no detail for %q: %v", tt.field, detailsOf(err))
			}
			if all, _ := store.List(context.Background()); len(all) != 0 {
				t.Errorf("invalid booking stored")
			}
			if len(pub.Events()) != 0 {
				t.Errorf("event published for invalid booking")
			}
		})
	}
}

func TestBookingValidate_ReportsAllFields(t *testing.T) {
	m, store, _ := newBookings()
	req := validBooking()
	req.Time = "7pm"
	req.Date = "tomorrow"
	req.Photo = ""

	d := detailsOf(m.Validate(req))
	for _, f := range []string{"time", "date", "photo"} {
		if d[f] == "" {
			t.Errorf("no detail for %q: %v", f, d)
		}
	}
	if err := m.Validate(validBooking()); err != nil {
		t.Errorf("valid booking: %v", err)
	}
	if all, _ := store.List(context.Background()); len(all) != 0 {
		t.Errorf("Validate stored a booking")
	}
}

func TestBookingCreate_PublishFailureIgnored(t *testing.T) {
	m, _, pub := newBookings()
	pub.err = errors.New("broker down")
	if _, err := m.Create(context.Background(), validBooking()); err != nil {
		t.Fatalf("Create with failing publisher: %v", err)
	}
}

func TestBookingList_NewestFirstAndFiltered(t *testing.T) {
	m, _, _ := newBookings()
	ctx := context.Background()

	var ids []uint64
	for i := 0; i < 3; i++ {
		m.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		id, err := m.Create(ctx, validBooking())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	if _, err := m.UpdateStatus(ctx, ids[0], "completed"); err != nil {
		t.Fatal(err)
	}

	all, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("order = %v", bookingIDs(all))
	}

	done, err := m.ListFiltered(ctx, "completed")
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].ID != ids[0] {
		t.Errorf("completed = %v", bookingIDs(done))
	}

	if _, err := m.ListFiltered(ctx, "archived"); codeOf(err) != apperror.CodeValidation {
		t.Errorf("unknown status filter code = %q", codeOf(err))
	}
}

func TestBookingListForUser(t *testing.T) {
	m, _, _ := newBookings()
	ctx := context.Background()
	ann, bob := uint64(1), uint64(2)

	for _, uid := range []*uint64{&ann, &bob, nil, &ann} {
		req := validBooking()
		req.UserID = uid
		if _, err := m.Create(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	got, err := m.ListForUser(ctx, ann)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("ann's bookings = %d, want 2", len(got))
	}
}

func TestBookingUpdateStatus(t *testing.T) {
	m, store, pub := newBookings()
	ctx := context.Background()
	id, err := m.Create(ctx, validBooking())
	if err != nil {
		t.Fatal(err)
	}

	// Any member of the set is accepted, including going backwards.
	for _, st := range []string{"completed", "pending", "completing"} {
		got, err := m.UpdateStatus(ctx, id, st)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", st, err)
		}
		if string(got) != st {
			t.Errorf("returned status = %q, want %q", got, st)
		}
		b, _ := store.GetByID(ctx, id)
		if string(b.Status) != st {
			t.Errorf("status = %q, want %q", b.Status, st)
		}
	}

	evs := pub.Events()
	last := evs[len(evs)-1]
	if last.Type != queue.EventBookingStatusChanged || last.PreviousStatus != "pending" || last.Status != "completing" {
		t.Errorf("last event = %+v", last)
	}

	if got, err := m.UpdateStatus(ctx, id, " completed\t"); err != nil || got != model.StatusCompleted {
		t.Errorf("padded status = %q, %v", got, err)
	}
	if _, err := m.UpdateStatus(ctx, id, "archived"); codeOf(err) != apperror.CodeValidation {
		t.Errorf("invalid status code = %q", codeOf(err))
	}
	if _, err := m.UpdateStatus(ctx, 999, "completed"); codeOf(err) != apperror.CodeNotFound {
		t.Errorf("unknown id code = %q", codeOf(err))
	}
}

func TestBookingGet(t *testing.T) {
	m, _, _ := newBookings()
	ctx := context.Background()
	id, _ := m.Create(ctx, validBooking())

	b, err := m.Get(ctx, id)
	if err != nil || b.ID != id {
		t.Fatalf("Get = %+v, %v", b, err)
	}
	if _, err := m.Get(ctx, id+1); codeOf(err) != apperror.CodeNotFound {
		t.Errorf("code = %q, want not found", codeOf(err))
	}
}

func TestNextStatuses(t *testing.T) {
	m, _, _ := newBookings()
	got := m.NextStatuses(model.StatusCompleting)
	if len(got) != 1 || got[0] != model.StatusCompleted {
		t.Errorf("NextStatuses(completing) = %v", got)
	}
	if len(m.NextStatuses(model.StatusCompleted)) != 0 {
		t.Error("completed should be terminal")
	}
}

func bookingIDs(bs []model.Booking) []uint64 {
	out := make([]uint64, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}
