package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

type homeworkTracker interface {
	Assign(ctx context.Context, actorID int64, classID int64, sessionNumber int, input services.AssignHomeworkInput) (*models.Assignment, error)
	ListSessionHomework(ctx context.Context, actorID int64, classID int64, sessionNumber int) ([]models.AssignmentDetail, *models.HomeworkSummary, error)
	Submit(ctx context.Context, actorID int64, assignmentID int64, fileURL string, notes *string) (*models.Submission, error)
	Grade(ctx context.Context, actorID int64, assignmentID int64, score float64, feedback *string) (*models.Grade, error)
	Dashboard(ctx context.Context, actorID int64, role string, bucket string, limit int, offset int) ([]models.AssignmentDetail, int, error)
	AssignmentClass(ctx context.Context, assignmentID int64) (*models.Class, error)
}

type uploader interface {
	UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error)
}

type HomeworkHandler struct {
	service homeworkTracker
	storage uploader
	hub     notifier
}

func NewHomeworkHandler(service *services.HomeworkService, storage services.StorageService, hub notifier) *HomeworkHandler {
	var up uploader
	if storage != nil {
		up = storage
	}
	return &HomeworkHandler{service: service, storage: up, hub: hub}
}

type assignHomeworkRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Deadline      string  `json:"deadline"`
	AttachmentURL *string `json:"attachment_url"`
}

type submitHomeworkRequest struct {
	FileURL string  `json:"file_url"`
	Notes   *string `json:"notes"`
}

type gradeHomeworkRequest struct {
	Score    float64 `json:"score"`
	Feedback *string `json:"feedback"`
}

func (h *HomeworkHandler) Assign(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTutor {
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

	var req assignHomeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	deadline, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Deadline))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deadline must be a valid RFC3339 timestamp"})
	}

	assignment, err := h.service.Assign(c.Context(), actorID, classID, sessionNumber, services.AssignHomeworkInput{
		Title:         req.Title,
		Description:   req.Description,
		AttachmentURL: req.AttachmentURL,
		Deadline:      deadline,
	})
	if err != nil {
		return mapLifecycleError(c, err)
	}

	if class, err := h.service.AssignmentClass(c.Context(), assignment.ID); err == nil {
		h.hub.Notify(notifyws.Event{
			Type:          notifyws.EventHomeworkAssigned,
			ClassID:       class.ID,
			SessionNumber: sessionNumber,
			AssignmentID:  assignment.ID,
			Message:       "New homework: " + assignment.Title,
		}, class.StudentID)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": assignment})
}

func (h *HomeworkHandler) ListSessionHomework(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, sessionNumber, err := parseClassParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	assignments, summary, err := h.service.ListSessionHomework(c.Context(), actorID, classID, sessionNumber)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
		"summary":     summary,
	})
}

func (h *HomeworkHandler) Submit(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleStudent {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	assignmentID, err := parseAssignmentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req submitHomeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	submission, err := h.service.Submit(c.Context(), actorID, assignmentID, req.FileURL, req.Notes)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	if class, err := h.service.AssignmentClass(c.Context(), assignmentID); err == nil {
		h.hub.Notify(notifyws.Event{
			Type:         notifyws.EventHomeworkSubmitted,
			ClassID:      class.ID,
			AssignmentID: assignmentID,
			Message:      "Homework was submitted",
		}, class.TutorID)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"submission": submission})
}

func (h *HomeworkHandler) Grade(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != models.RoleTutor {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	assignmentID, err := parseAssignmentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req gradeHomeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	grade, err := h.service.Grade(c.Context(), actorID, assignmentID, req.Score, req.Feedback)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	if class, err := h.service.AssignmentClass(c.Context(), assignmentID); err == nil {
		h.hub.Notify(notifyws.Event{
			Type:         notifyws.EventHomeworkGraded,
			ClassID:      class.ID,
			AssignmentID: assignmentID,
			Message:      "Your homework was graded",
		}, class.StudentID)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"grade": grade})
}

func (h *HomeworkHandler) Dashboard(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleTutor && role != models.RoleStudent) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit := parsePageQuery(c)
	bucket := strings.TrimSpace(c.Query("bucket"))

	assignments, total, err := h.service.Dashboard(
		c.Context(),
		actorID,
		role,
		bucket,
		limit,
		(page-1)*limit,
	)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
		"pagination":  buildPaginationMeta(page, limit, total),
	})
}

// UploadFile stores a homework file (attachment or submission) and
// returns its URL; the caller then references the URL in assign/submit.
func (h *HomeworkHandler) UploadFile(c *fiber.Ctx) error {
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "File storage is not configured"})
	}

	role, ok := c.Locals("role").(string)
	if !ok || (role != models.RoleTutor && role != models.RoleStudent) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	folder := "homework/submissions"
	if role == models.RoleTutor {
		folder = "homework/attachments"
	}
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(fileHeader.Filename))

	fileURL, err := h.storage.UploadFile(c.Context(), file, filename, folder)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload file"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file_url": fileURL})
}

func parseAssignmentID(c *fiber.Ctx) (int64, error) {
	assignmentID, err := strconv.ParseInt(c.Params("assignmentId"), 10, 64)
	if err != nil || assignmentID <= 0 {
		return 0, errors.New("invalid assignment id")
	}
	return assignmentID, nil
}
