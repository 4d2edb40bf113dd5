package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/repository/memstore"
)

func TestInbox(t *testing.T) {
	b := NewInbox(memstore.NewContacts())
	b.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	first, err := b.Submit(ctx, ContactRequest{Name: "Ann", Email: "ann@x.com", Message: "When do you collect glass?"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := b.Submit(ctx, ContactRequest{Name: "Bob", Email: "bob@x.com", Message: "Thanks for the quick pickup!"})
	if err != nil {
		t.Fatal(err)
	}

	msgs, err := b.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].ID != second || msgs[1].ID != first {
		t.Errorf("messages not newest first: %+v", msgs)
	}
}

func TestInbox_Validation(t *testing.T) {
	b := NewInbox(memstore.NewContacts())
	tests := []struct {
		name  string
		req   ContactRequest
		field string
	}{
		{"short name", ContactRequest{Name: "A", Email: "a@x.com", Message: "long enough message"}, "name"},
		{"bad email", ContactRequest{Name: "Ann", Email: "ann@", Message: "long enough message"}, "email"},
		{"short message", ContactRequest{Name: "Ann", Email: "a@x.com", Message: "hi"}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Submit(context.Background(), tt.req)
			if codeOf(err) != apperror.CodeValidation {
				t.Fatalf("code = %q", codeOf(err))
			}
			if detailsOf(err)[tt.field] == "" {
				t.Errorf("no detail for %q", tt.field)
			}
		})
	}
}
