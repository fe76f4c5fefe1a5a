package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func roleRequest(role string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	if role == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	cases := []struct {
		name     string
		allowed  []string
		role     string
		wantCode int
	}{
		{"matching role", []string{"staff"}, "staff", http.StatusOK},
		{"one of several", []string{"admin", "staff"}, "staff", http.StatusOK},
		{"wrong role", []string{"admin"}, "customer", http.StatusForbidden},
		{"no role on context", []string{"admin"}, "", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireRole(tc.allowed, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, roleRequest(tc.role))

			if w.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	handler := RequireAdmin(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest("admin"))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, roleRequest("staff"))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for staff, got %d", w.Code)
	}
}
