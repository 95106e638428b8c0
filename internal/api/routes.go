package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haventide/wellspring/internal/db"
	"github.com/haventide/wellspring/internal/models"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	registerCollection[models.Note, *models.Note](api, handler, models.KindNote, handler.repositories.Notes)
	registerCollection[models.Prayer, *models.Prayer](api, handler, models.KindPrayer, handler.repositories.Prayers)
	registerCollection[models.Meal, *models.Meal](api, handler, models.KindMeal, handler.repositories.Meals)
	registerCollection[models.Journal, *models.Journal](api, handler, models.KindJournal, handler.repositories.Journals)
	registerCollection[models.Plan, *models.Plan](api, handler, models.KindPlan, handler.repositories.Plans)
	registerCollection[models.Share, *models.Share](api, handler, models.KindShare, handler.repositories.Shares)
	registerCollection[models.Comment, *models.Comment](api, handler, models.KindComment, handler.repositories.Comments)
	registerCollection[models.Run, *models.Run](api, handler, models.KindRun, handler.repositories.Runs)
	registerCollection[models.Workout, *models.Workout](api, handler, models.KindWorkout, handler.repositories.Workouts)

	streak := api.Group("/streak", handler.AuthRequired)
	streak.Get("", handler.GetStreak)
	streak.Put("", handler.PutStreak)
}

func registerCollection[T models.Record, P models.MutablePtr[T]](router fiber.Router, handler *Handler, kind models.Kind, collection *db.Collection[T]) {
	group := router.Group("/"+string(kind)+"s", handler.AuthRequired)
	group.Get("", listRecords(handler, collection))
	group.Post("", upsertRecord[T, P](handler, collection, false))
	group.Put("/:id", upsertRecord[T, P](handler, collection, true))
	group.Delete("/:id", deleteRecord(handler, collection))
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
