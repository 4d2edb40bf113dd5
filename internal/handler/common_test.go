package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/logger"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		hidden     string
	}{
		{"validation", apperror.FieldError("email", "must be a valid email address"), http.StatusBadRequest, apperror.CodeValidation, ""},
		{"not found", apperror.NotFound("booking"), http.StatusNotFound, apperror.CodeNotFound, ""},
		{"forbidden", apperror.Forbidden("insufficient role"), http.StatusForbidden, apperror.CodeForbidden, ""},
		{"raw error", errors.New("dial tcp 10.0.0.1:3306: refused"), http.StatusInternalServerError, apperror.CodePersistence, "10.0.0.1"},
		{"wrapped cause", apperror.Persistence("could not list bookings", errors.New("Error 1146: table missing")), http.StatusInternalServerError, apperror.CodePersistence, "1146"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := respondError(c, logger.Discard(), tt.err); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
			if tt.hidden != "" && strings.Contains(rec.Body.String(), tt.hidden) {
				t.Errorf("internal cause leaked: %s", rec.Body)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		raw string
		ok  bool
	}{{"12", true}, {"0", false}, {"-1", false}, {"abc", false}, {"", false}} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(tc.raw)
		_, err := pathID(c)
		if (err == nil) != tc.ok {
			t.Errorf("pathID(%q) err = %v", tc.raw, err)
		}
	}
}
