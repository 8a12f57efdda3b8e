package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/models"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
	notifyws "github.com/QuocHuyGIT103/SkillBridgeBack/internal/websocket"
)

type cancellationNegotiator interface {
	Request(ctx context.Context, actorID int64, classID int64, sessionNumber int, reason string) (*models.CancellationRequest, error)
	Respond(ctx context.Context, actorID int64, classID int64, sessionNumber int, action string) (*models.ClassSession, error)
}

type CancellationHandler struct {
	service cancellationNegotiator
	classes classReader
	hub     notifier
}

func NewCancellationHandler(service *services.CancellationService, classes classReader, hub notifier) *CancellationHandler {
	return &CancellationHandler{service: service, classes: classes, hub: hub}
}

type cancellationRequestBody struct {
	Reason string `json:"reason"`
}

type cancellationRespondBody struct {
	Action string `json:"action"`
}

func (h *CancellationHandler) Request(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, sessionNumber, err := parseClassParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body cancellationRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.service.Request(c.Context(), actorID, classID, sessionNumber, body.Reason)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	h.notifyCounterparty(c, actorID, classID, notifyws.Event{
		Type:          notifyws.EventCancellationRequested,
		ClassID:       classID,
		SessionNumber: sessionNumber,
		Message:       "The other party asked to cancel this session",
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cancellation_request": request})
}

func (h *CancellationHandler) Respond(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	classID, sessionNumber, err := parseClassParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var body cancellationRespondBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.Respond(c.Context(), actorID, classID, sessionNumber, body.Action)
	if err != nil {
		return mapLifecycleError(c, err)
	}

	outcome := "rejected"
	if session.Status == models.SessionCancelled {
		outcome = "approved"
	}
	h.notifyCounterparty(c, actorID, classID, notifyws.Event{
		Type:          notifyws.EventCancellationResolved,
		ClassID:       classID,
		SessionNumber: sessionNumber,
		Message:       "Your cancellation request was " + outcome,
	})

	return c.JSON(fiber.Map{"session": session})
}

func (h *CancellationHandler) notifyCounterparty(c *fiber.Ctx, actorID, classID int64, event notifyws.Event) {
	class, err := h.classes.GetByID(c.Context(), classID)
	if err != nil {
		return
	}
	counterparty := class.TutorID
	if actorID == class.TutorID {
		counterparty = class.StudentID
	}
	h.hub.Notify(event, counterparty)
}
