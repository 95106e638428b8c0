package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/haventide/wellspring/internal/models"
)

func (handler *Handler) GetStreak(c *fiber.Ctx) error {
	streak, found, err := handler.repositories.Streaks.FindByUser(currentUserID(c))
	if err != nil {
		handler.logger.WithError(err).Warn("api: load streak failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to load streak")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "streak not found")
	}
	return c.JSON(streak)
}

// PutStreak applies the device's streak under the same last-write-wins
// rule as content records: an older or equal mirror never clobbers a
// newer one.
func (handler *Handler) PutStreak(c *fiber.Ctx) error {
	incoming := models.Streak{}
	if err := c.BodyParser(&incoming); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if incoming.Count < 0 || incoming.LongestCount < 0 {
		return apiError(c, fiber.StatusBadRequest, "negative count")
	}

	userID := currentUserID(c)
	switch incoming.UserID {
	case "":
		incoming.UserID = userID
	case userID:
	default:
		return apiError(c, fiber.StatusForbidden, "owner mismatch")
	}
	if incoming.ID == "" {
		incoming.ID = uuid.NewString()
	}
	if incoming.UpdatedAt.IsZero() {
		incoming.UpdatedAt = time.Now().In(handler.location)
	}

	existing, found, err := handler.repositories.Streaks.FindByUser(userID)
	if err != nil {
		handler.logger.WithError(err).Warn("api: load streak failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to store streak")
	}
	if found && !incoming.UpdatedAt.After(existing.UpdatedAt) {
		return c.JSON(fiber.Map{"applied": false})
	}

	if err := handler.repositories.Streaks.Save(&incoming); err != nil {
		handler.logger.WithError(err).Warn("api: store streak failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to store streak")
	}
	return c.JSON(fiber.Map{"applied": true})
}
