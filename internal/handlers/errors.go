package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
)

func parseActorID(c *fiber.Ctx) (int64, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	actorID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || actorID <= 0 {
		return 0, errors.New("invalid user id")
	}
	return actorID, nil
}

func parseClassParams(c *fiber.Ctx) (classID int64, sessionNumber int, err error) {
	classID, err = strconv.ParseInt(c.Params("classId"), 10, 64)
	if err != nil || classID <= 0 {
		return 0, 0, errors.New("invalid class id")
	}
	sessionNumber, err = strconv.Atoi(c.Params("num"))
	if err != nil || sessionNumber <= 0 {
		return 0, 0, errors.New("invalid session number")
	}
	return classID, sessionNumber, nil
}

func mapLifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Lost a concurrent update, retry"})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrOutsideWindow),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrAlreadyGraded),
		errors.Is(err, services.ErrNoSubmission):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}
}
