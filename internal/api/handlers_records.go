package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/haventide/wellspring/internal/db"
	"github.com/haventide/wellspring/internal/models"
)

// The record handlers are shared by all nine collections. Writes are
// last-write-wins upserts keyed on the record ID; replaying an outbox
// entry or re-running a sync upload is idempotent.

func listRecords[T models.Record](handler *Handler, collection *db.Collection[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := collection.ListByUser(currentUserID(c))
		if err != nil {
			handler.logger.WithError(err).Warn("api: list records failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to list records")
		}
		return c.JSON(records)
	}
}

func upsertRecord[T models.Record, P models.MutablePtr[T]](handler *Handler, collection *db.Collection[T], idFromPath bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var record T
		if err := c.BodyParser(&record); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}

		pointer := P(&record)
		userID := currentUserID(c)
		now := time.Now().In(handler.location)

		if idFromPath {
			pathID := c.Params("id")
			if pathID == "" || (record.RecordID() != "" && record.RecordID() != pathID) {
				return apiError(c, fiber.StatusBadRequest, "id mismatch")
			}
			if record.RecordID() == "" {
				return apiError(c, fiber.StatusBadRequest, "missing record id")
			}
		}

		switch pointer.OwnerID() {
		case "":
			pointer.AssignOwner(userID)
		case userID:
		default:
			return apiError(c, fiber.StatusForbidden, "owner mismatch")
		}

		if record.RecordID() == "" {
			pointer.StampNew(now)
		} else if record.UpdatedTime().IsZero() {
			pointer.Touch(now)
		}
		if record.UpdatedTime().Before(record.CreatedTime()) {
			return apiError(c, fiber.StatusBadRequest, "updated_at before created_at")
		}

		existing, found, err := collection.FindByID(record.RecordID())
		if err != nil {
			handler.logger.WithError(err).Warn("api: load record failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to store record")
		}
		if found {
			if existing.OwnerID() != userID {
				return apiError(c, fiber.StatusForbidden, "owner mismatch")
			}
			if !record.UpdatedTime().After(existing.UpdatedTime()) {
				return c.JSON(fiber.Map{"applied": false, "id": record.RecordID()})
			}
		}

		if err := collection.Upsert(&record); err != nil {
			handler.logger.WithError(err).Warn("api: store record failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to store record")
		}

		status := fiber.StatusOK
		if !found {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"applied": true, "id": record.RecordID()})
	}
}

func deleteRecord[T models.Record](handler *Handler, collection *db.Collection[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return apiError(c, fiber.StatusBadRequest, "missing record id")
		}

		existing, found, err := collection.FindByID(id)
		if err != nil {
			handler.logger.WithError(err).Warn("api: load record failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to delete record")
		}
		if !found {
			// Already gone counts as deleted.
			return c.SendStatus(fiber.StatusNoContent)
		}
		if existing.OwnerID() != currentUserID(c) {
			return apiError(c, fiber.StatusForbidden, "owner mismatch")
		}

		if _, err := collection.Delete(id); err != nil {
			handler.logger.WithError(err).Warn("api: delete record failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to delete record")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
