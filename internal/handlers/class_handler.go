package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
)

type classManager interface {
	CreateClass(ctx context.Context, tutorID int64, input services.CreateClassInput) (*models.Class, int, error)
	ListClasses(ctx context.Context, actorID int64) ([]models.Class, error)
}

type ClassHandler struct {
	service classManager
}

func NewClassHandler(service *services.ClassService) *ClassHandler {
	return &ClassHandler{service: service}
}

type createClassRequest struct {
	StudentID       int64   `json:"student_id"`
	Subject         string  `json:"subject"`
	LearningMode    string  `json:"learning_mode"`
	MeetingLink     *string `json:"meeting_link"`
	Location        *string `json:"location"`
	ScheduleDays    []int   `json:"schedule_days"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	StartDate       string  `json:"start_date"`
	TotalSessions   int     `json:"total_sessions"`
}

func (h *ClassHandler) CreateClass(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTutor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	tutorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	startDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
	}

	class, sessionsCreated, err := h.service.CreateClass(c.Context(), tutorID, services.CreateClassInput{
		StudentID:       req.StudentID,
		Subject:         req.Subject,
		LearningMode:    req.LearningMode,
		MeetingLink:     req.MeetingLink,
		Location:        req.Location,
		ScheduleDays:    req.ScheduleDays,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		StartDate:       startDate,
		TotalSessions:   req.TotalSessions,
	})
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"class":            class,
		"sessions_created": sessionsCreated,
	})
}

func (h *ClassHandler) ListClasses(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classes, err := h.service.ListClasses(c.Context(), actorID)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(fiber.Map{"classes": classes})
}
