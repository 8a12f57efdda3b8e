package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
)

type stubClassManager struct {
	class           *models.Class
	sessionsCreated int
	createErr       error
	classes         []models.Class
	listErr         error
	lastTutorID     int64
	lastInput       services.CreateClassInput
}

func (s *stubClassManager) CreateClass(_ context.Context, tutorID int64, input services.CreateClassInput) (*models.Class, int, error) {
	s.lastTutorID = tutorID
	s.lastInput = input
	return s.class, s.sessionsCreated, s.createErr
}

func (s *stubClassManager) ListClasses(_ context.Context, _ int64) ([]models.Class, error) {
	return s.classes, s.listErr
}

func TestCreateClassMaterializesSessions(t *testing.T) {
	service := &stubClassManager{
		class: &models.Class{
			ID:            9,
			TutorID:       1,
			StudentID:     2,
			Subject:       "Mathematics",
			TotalSessions: 12,
		},
		sessionsCreated: 12,
	}
	handler := &ClassHandler{service: service}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes", handler.CreateClass)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes", strings.NewReader(`{
		"student_id": 2,
		"subject": "Mathematics",
		"learning_mode": "online",
		"meeting_link": "https://meet.example.com/abc",
		"schedule_days": [1, 4],
		"start_time": "14:00",
		"duration_minutes": 90,
		"start_date": "2026-03-09",
		"total_sessions": 12
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastTutorID != 1 {
		t.Fatalf("expected tutor 1, got %d", service.lastTutorID)
	}
	if want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC); !service.lastInput.StartDate.Equal(want) {
		t.Fatalf("expected start date %v, got %v", want, service.lastInput.StartDate)
	}
	if len(service.lastInput.ScheduleDays) != 2 || service.lastInput.StartTime != "14:00" {
		t.Fatalf("unexpected schedule input: %+v", service.lastInput)
	}

	var body struct {
		SessionsCreated int `json:"sessions_created"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.SessionsCreated != 12 {
		t.Fatalf("expected 12 sessions created, got %d", body.SessionsCreated)
	}
}

func TestCreateClassRejectsStudentRole(t *testing.T) {
	handler := &ClassHandler{service: &stubClassManager{}}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Post("/api/v1/classes", handler.CreateClass)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateClassRejectsMalformedStartDate(t *testing.T) {
	handler := &ClassHandler{service: &stubClassManager{}}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes", handler.CreateClass)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes", strings.NewReader(`{
		"student_id": 2,
		"subject": "Mathematics",
		"start_date": "09/03/2026"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateClassUnknownStudentReturns404(t *testing.T) {
	handler := &ClassHandler{service: &stubClassManager{createErr: services.ErrUserNotFound}}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes", handler.CreateClass)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes", strings.NewReader(`{
		"student_id": 999,
		"subject": "Mathematics",
		"learning_mode": "online",
		"schedule_days": [1],
		"start_time": "14:00",
		"duration_minutes": 90,
		"start_date": "2026-03-09",
		"total_sessions": 4
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListClassesReturnsMemberships(t *testing.T) {
	handler := &ClassHandler{service: &stubClassManager{
		classes: []models.Class{{ID: 9, Subject: "Mathematics"}, {ID: 10, Subject: "Physics"}},
	}}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Get("/api/v1/classes", handler.ListClasses)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/classes", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Classes []models.Class `json:"classes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(body.Classes))
	}
}
