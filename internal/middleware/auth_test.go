package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/utils"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	id, _ := UserID(c)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
}

func serve(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func token(t *testing.T, iss *utils.SessionIssuer, id uint64, role string) string {
	t.Helper()
	tok, err := iss.Issue(id, role)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func TestJWTAuth(t *testing.T) {
	iss := utils.NewSessionIssuer(testSecret, time.Hour)
	other := utils.NewSessionIssuer("other-secret", time.Hour)
	expired := utils.NewSessionIssuer(testSecret, time.Nanosecond)
	expiredTok := token(t, expired, 1, model.RoleUser)
	time.Sleep(1100 * time.Millisecond)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", token(t, iss, 3, model.RoleUser), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", token(t, other, 3, model.RoleUser), http.StatusUnauthorized},
		{"expired", expiredTok, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, JWTAuth(iss), tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	iss := utils.NewSessionIssuer(testSecret, time.Hour)
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"admin", token(t, iss, 1, model.RoleAdmin), http.StatusOK},
		{"user", token(t, iss, 2, model.RoleUser), http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, AdminOnly(iss), tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	iss := utils.NewSessionIssuer(testSecret, time.Hour)
	for _, header := range []string{"", "Bearer junk", token(t, iss, 5, model.RoleUser)} {
		rec := serve(t, OptionalAuth(iss), header)
		if rec.Code != http.StatusOK {
			t.Errorf("header %q: status = %d", header, rec.Code)
		}
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	rec := serve(t, RequireRole(model.RoleUser), "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
