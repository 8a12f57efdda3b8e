package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
)

type scheduleProjector interface {
	WeeklySchedule(ctx context.Context, actorID int64, referenceDate time.Time) (*services.WeeklySchedule, error)
}

type sessionQuerier interface {
	GetSession(ctx context.Context, actorID int64, classID int64, sessionNumber int) (*models.SessionDetail, error)
	ListClassSessions(ctx context.Context, actorID int64, classID int64) ([]models.SessionDetail, error)
}

type ScheduleHandler struct {
	schedule scheduleProjector
	sessions sessionQuerier
}

func NewScheduleHandler(schedule *services.ScheduleService, sessions *services.SessionService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, sessions: sessions}
}

func (h *ScheduleHandler) WeeklySchedule(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var referenceDate time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		referenceDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
	}

	week, err := h.schedule.WeeklySchedule(c.Context(), actorID, referenceDate)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(week)
}

func (h *ScheduleHandler) ListClassSessions(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, err := strconv.ParseInt(c.Params("classId"), 10, 64)
	if err != nil || classID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}

	sessions, err := h.sessions.ListClassSessions(c.Context(), actorID, classID)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *ScheduleHandler) GetSession(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, sessionNumber, err := parseClassParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := h.sessions.GetSession(c.Context(), actorID, classID, sessionNumber)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(fiber.Map{"session": session})
}
