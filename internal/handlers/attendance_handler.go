package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

type attendanceMarker interface {
	Mark(ctx context.Context, actorID int64, classID int64, sessionNumber int) (*services.MarkAttendanceResult, error)
}

type classReader interface {
	GetByID(ctx context.Context, classID int64) (*models.Class, error)
}

type notifier interface {
	Notify(event notifyws.Event, userIDs ...int64)
}

type AttendanceHandler struct {
	service attendanceMarker
	classes classReader
	hub     notifier
}

func NewAttendanceHandler(service *services.AttendanceService, classes classReader, hub notifier) *AttendanceHandler {
	return &AttendanceHandler{service: service, classes: classes, hub: hub}
}

func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleTutor && role != models.RoleStudent) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, sessionNumber, err := parseClassParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Mark(c.Context(), actorID, classID, sessionNumber)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	if result.BothAttendedNow {
		if class, err := h.classes.GetByID(c.Context(), classID); err == nil {
			h.hub.Notify(notifyws.Event{
				Type:          notifyws.EventBothAttended,
				ClassID:       classID,
				SessionNumber: sessionNumber,
				Message:       "Both parties attended, the session can start",
			}, class.TutorID, class.StudentID)
		}
	}

	return c.JSON(fiber.Map{
		"attendance":    result.Session.Attendance,
		"both_attended": result.BothAttended,
	})
}
