package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Validation-only paths; they return before the repository is touched.
func TestRegisterValidation(t *testing.T) {
	handler := &AuthHandler{jwtSecret: "test-secret"}

	app := fiber.New()
	app.Post("/api/auth/register", handler.Register)

	cases := []struct {
		name string
		body string
	}{
		{"malformed email", `{"email": "not-an-email", "password": "longenough", "role": "tutor"}`},
		{"short password", `{"email": "a@example.com", "password": "short", "role": "tutor"}`},
		{"unknown role", `{"email": "a@example.com", "password": "longenough", "role": "admin"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestMeRejectsMissingIdentity(t *testing.T) {
	handler := &AuthHandler{}

	app := fiber.New()
	app.Get("/api/auth/me", handler.Me)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
