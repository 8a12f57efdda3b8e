package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

type stubAttendanceMarker struct {
	result     *services.MarkAttendanceResult
	err        error
	lastActor  int64
	lastClass  int64
	lastNumber int
}

func (s *stubAttendanceMarker) Mark(_ context.Context, actorID int64, classID int64, sessionNumber int) (*services.MarkAttendanceResult, error) {
	s.lastActor = actorID
	s.lastClass = classID
	s.lastNumber = sessionNumber
	return s.result, s.err
}

type stubClassReader struct {
	class *models.Class
	err   error
}

func (s *stubClassReader) GetByID(_ context.Context, _ int64) (*models.Class, error) {
	return s.class, s.err
}

type stubHub struct {
	events     []notifyws.Event
	recipients [][]int64
}

func (s *stubHub) Notify(event notifyws.Event, userIDs ...int64) {
	s.events = append(s.events, event)
	s.recipients = append(s.recipients, userIDs)
}

func newAuthedApp(role, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	return app
}

func TestMarkAttendanceNotifiesWhenBothAttendedNow(t *testing.T) {
	service := &stubAttendanceMarker{
		result: &services.MarkAttendanceResult{
			Session: &models.ClassSession{
				ID:     3,
				Status: models.SessionScheduled,
				Attendance: models.AttendanceRecord{
					TutorAttended:   true,
					StudentAttended: true,
				},
			},
			BothAttended:    true,
			BothAttendedNow: true,
		},
	}
	hub := &stubHub{}
	handler := &AttendanceHandler{
		service: service,
		classes: &stubClassReader{class: &models.Class{ID: 9, TutorID: 1, StudentID: 2}},
		hub:     hub,
	}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Post("/api/v1/classes/:classId/sessions/:num/attendance", handler.Mark)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classes/9/sessions/4/attendance", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActor != 2 || service.lastClass != 9 || service.lastNumber != 4 {
		t.Fatalf("unexpected service call: actor=%d class=%d num=%d",
			service.lastActor, service.lastClass, service.lastNumber)
	}
	if len(hub.events) != 1 || hub.events[0].Type != notifyws.EventBothAttended {
		t.Fatalf("expected one both-attended event, got %+v", hub.events)
	}
	if len(hub.recipients[0]) != 2 {
		t.Fatalf("expected both parties notified, got %v", hub.recipients[0])
	}

	var body struct {
		BothAttended bool `json:"both_attended"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.BothAttended {
		t.Fatal("expected both_attended true in the response")
	}
}

func TestMarkAttendanceOutsideWindowReturns422(t *testing.T) {
	hub := &stubHub{}
	handler := &AttendanceHandler{
		service: &stubAttendanceMarker{err: services.ErrOutsideWindow},
		classes: &stubClassReader{},
		hub:     hub,
	}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes/:classId/sessions/:num/attendance", handler.Mark)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/classes/9/sessions/4/attendance", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if len(hub.events) != 0 {
		t.Fatalf("expected no notifications, got %+v", hub.events)
	}
}

func TestMarkAttendanceRejectsUnknownRole(t *testing.T) {
	handler := &AttendanceHandler{
		service: &stubAttendanceMarker{},
		classes: &stubClassReader{},
		hub:     &stubHub{},
	}

	app := newAuthedApp("admin", "1")
	app.Post("/api/v1/classes/:classId/sessions/:num/attendance", handler.Mark)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/classes/9/sessions/4/attendance", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestMarkAttendanceRejectsBadParams(t *testing.T) {
	handler := &AttendanceHandler{
		service: &stubAttendanceMarker{},
		classes: &stubClassReader{},
		hub:     &stubHub{},
	}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes/:classId/sessions/:num/attendance", handler.Mark)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/classes/abc/sessions/4/attendance", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
