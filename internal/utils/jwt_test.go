package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/waste-pickup/internal/model"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	s := NewSessionIssuer("test-secret", 0)

	tok, err := s.Issue(7, model.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(tok.Exp); d < 23*time.Hour || d > 24*time.Hour+time.Minute {
		t.Errorf("expiry %s is not ~24h from now", d)
	}

	claims, err := s.Verify(tok.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SubjectID != 7 || claims.Role != model.RoleUser {
		t.Errorf("claims = %+v", claims)
	}
}

func TestIssue_RejectsUnknownRole(t *testing.T) {
	s := NewSessionIssuer("test-secret", time.Hour)
	if _, err := s.Issue(1, "superuser"); err == nil {
		t.Errorf("expected error for unknown role")
	}
	if _, err := s.Issue(0, model.RoleAdmin); err == nil {
		t.Errorf("expected error for zero subject")
	}
}

func TestVerify_ExpiredTokenRejected(t *testing.T) {
	s := NewSessionIssuer("test-secret", 24*time.Hour)
	issuedAt := time.Now().Add(-25 * time.Hour)
	s.now = func() time.Time { return issuedAt }

	tok, err := s.Issue(3, model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Signature is valid; only the clock has moved past exp.
	s.now = time.Now
	if _, err := s.Verify(tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	s := NewSessionIssuer("test-secret", time.Hour)
	good, err := s.Issue(5, model.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(good.Token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	otherSecret, _ := NewSessionIssuer("other-secret", time.Hour).Issue(5, model.RoleUser)

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "5", "role": model.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5", "role": model.RoleAdmin,
	}).SignedString([]byte("test-secret"))

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5", "role": "root", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "abc", "role": model.RoleUser, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"tampered":       tampered,
		"wrong secret":   otherSecret.Token,
		"alg none":       unsigned,
		"missing exp":    noExp,
		"unknown role":   badRole,
		"non-numeric id": badSubject,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := s.Verify(raw)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
			if claims != (Claims{}) {
				t.Errorf("partial claims leaked: %+v", claims)
			}
		})
	}
}
