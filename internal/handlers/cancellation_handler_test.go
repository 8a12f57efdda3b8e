package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

type stubCancellationNegotiator struct {
	request    *models.CancellationRequest
	requestErr error
	session    *models.ClassSession
	respondErr error
	lastReason string
	lastAction string
}

func (s *stubCancellationNegotiator) Request(_ context.Context, _ int64, _ int64, _ int, reason string) (*models.CancellationRequest, error) {
	s.lastReason = reason
	return s.request, s.requestErr
}

func (s *stubCancellationNegotiator) Respond(_ context.Context, _ int64, _ int64, _ int, action string) (*models.ClassSession, error) {
	s.lastAction = action
	return s.session, s.respondErr
}

func TestCancellationRequestNotifiesCounterparty(t *testing.T) {
	service := &stubCancellationNegotiator{
		request: &models.CancellationRequest{
			ID:          1,
			SessionID:   3,
			RequestedBy: models.RoleTutor,
			Status:      models.CancellationPending,
		},
	}
	hub := &stubHub{}
	handler := &CancellationHandler{
		service: service,
		classes: &stubClassReader{class: &models.Class{ID: 9, TutorID: 1, StudentID: 2}},
		hub:     hub,
	}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes/:classId/sessions/:num/cancellation/request", handler.Request)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/classes/9/sessions/4/cancellation/request",
		strings.NewReader(`{"reason": "I have a schedule conflict that day"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastReason != "I have a schedule conflict that day" {
		t.Fatalf("unexpected reason passed through: %q", service.lastReason)
	}
	if len(hub.events) != 1 || hub.events[0].Type != notifyws.EventCancellationRequested {
		t.Fatalf("expected one cancellation-requested event, got %+v", hub.events)
	}
	if len(hub.recipients[0]) != 1 || hub.recipients[0][0] != 2 {
		t.Fatalf("expected only the student notified, got %v", hub.recipients[0])
	}
}

func TestCancellationRequestShortReasonReturns400(t *testing.T) {
	handler := &CancellationHandler{
		service: &stubCancellationNegotiator{requestErr: services.ErrInvalidInput},
		classes: &stubClassReader{},
		hub:     &stubHub{},
	}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Post("/api/v1/classes/:classId/sessions/:num/cancellation/request", handler.Request)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/classes/9/sessions/4/cancellation/request",
		strings.NewReader(`{"reason": "busy"}`),
	)
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

func TestCancellationRespondApproveReportsApproval(t *testing.T) {
	service := &stubCancellationNegotiator{
		session: &models.ClassSession{ID: 3, Status: models.SessionCancelled},
	}
	hub := &stubHub{}
	handler := &CancellationHandler{
		service: service,
		classes: &stubClassReader{class: &models.Class{ID: 9, TutorID: 1, StudentID: 2}},
		hub:     hub,
	}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Post("/api/v1/classes/:classId/sessions/:num/cancellation/respond", handler.Respond)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/classes/9/sessions/4/cancellation/respond",
		strings.NewReader(`{"action": "approve"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastAction != "approve" {
		t.Fatalf("unexpected action passed through: %q", service.lastAction)
	}
	if len(hub.events) != 1 || hub.events[0].Type != notifyws.EventCancellationResolved {
		t.Fatalf("expected one cancellation-resolved event, got %+v", hub.events)
	}
	if !strings.Contains(hub.events[0].Message, "approved") {
		t.Fatalf("expected an approval message, got %q", hub.events[0].Message)
	}
	if len(hub.recipients[0]) != 1 || hub.recipients[0][0] != 1 {
		t.Fatalf("expected only the tutor notified, got %v", hub.recipients[0])
	}
}

func TestCancellationRespondSelfResolutionReturns403(t *testing.T) {
	handler := &CancellationHandler{
		service: &stubCancellationNegotiator{respondErr: services.ErrForbidden},
		classes: &stubClassReader{},
		hub:     &stubHub{},
	}

	app := newAuthedApp(models.RoleTutor, "1")
	app.Post("/api/v1/classes/:classId/sessions/:num/cancellation/respond", handler.Respond)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/classes/9/sessions/4/cancellation/respond",
		strings.NewReader(`{"action": "approve"}`),
	)
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

func TestCancellationRespondLostRaceReturns409(t *testing.T) {
	handler := &CancellationHandler{
		service: &stubCancellationNegotiator{respondErr: services.ErrConflict},
		classes: &stubClassReader{},
		hub:     &stubHub{},
	}

	app := newAuthedApp(models.RoleStudent, "2")
	app.Post("/api/v1/classes/:classId/sessions/:num/cancellation/respond", handler.Respond)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/classes/9/sessions/4/cancellation/respond",
		strings.NewReader(`{"action": "reject"}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
