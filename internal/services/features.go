package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/db"
	"github.com/haventide/wellspring/internal/models"
	"github.com/haventide/wellspring/internal/remote"
)

// Features bundles one repository per content kind over a shared
// streak service, activity checker and outbox. It also implements the
// sync engine's Syncer.
type Features struct {
	Notes    *Feature[models.Note, *models.Note]
	Prayers  *Feature[models.Prayer, *models.Prayer]
	Meals    *Feature[models.Meal, *models.Meal]
	Journals *Feature[models.Journal, *models.Journal]
	Plans    *Feature[models.Plan, *models.Plan]
	Shares   *Feature[models.Share, *models.Share]
	Comments *Feature[models.Comment, *models.Comment]
	Runs     *Feature[models.Run, *models.Run]
	Workouts *Feature[models.Workout, *models.Workout]

	Streaks  *StreakService
	Activity *ActivityService

	client *remote.Client
	logger *logrus.Logger
}

func NewFeatures(repositories *db.Repositories, client *remote.Client, location *time.Location, logger *logrus.Logger) *Features {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	streaks := NewStreakService(repositories.Streaks, repositories.Outbox, location, logger)
	activity := NewActivityService(
		location,
		repositories.Workouts,
		repositories.Runs,
		repositories.Meals,
		repositories.Journals,
		repositories.Prayers,
	)

	features := &Features{
		Streaks:  streaks,
		Activity: activity,
		client:   client,
		logger:   logger,
	}

	features.Notes = NewFeature[models.Note, *models.Note](
		models.KindNote, repositories.Notes,
		remote.NewCollection[models.Note](client, models.KindNote),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Prayers = NewFeature[models.Prayer, *models.Prayer](
		models.KindPrayer, repositories.Prayers,
		remote.NewCollection[models.Prayer](client, models.KindPrayer),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Meals = NewFeature[models.Meal, *models.Meal](
		models.KindMeal, repositories.Meals,
		remote.NewCollection[models.Meal](client, models.KindMeal),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Journals = NewFeature[models.Journal, *models.Journal](
		models.KindJournal, repositories.Journals,
		remote.NewCollection[models.Journal](client, models.KindJournal),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Plans = NewFeature[models.Plan, *models.Plan](
		models.KindPlan, repositories.Plans,
		remote.NewCollection[models.Plan](client, models.KindPlan),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Shares = NewFeature[models.Share, *models.Share](
		models.KindShare, repositories.Shares,
		remote.NewCollection[models.Share](client, models.KindShare),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Comments = NewFeature[models.Comment, *models.Comment](
		models.KindComment, repositories.Comments,
		remote.NewCollection[models.Comment](client, models.KindComment),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Runs = NewFeature[models.Run, *models.Run](
		models.KindRun, repositories.Runs,
		remote.NewCollection[models.Run](client, models.KindRun),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)
	features.Workouts = NewFeature[models.Workout, *models.Workout](
		models.KindWorkout, repositories.Workouts,
		remote.NewCollection[models.Workout](client, models.KindWorkout),
		repositories.Outbox, repositories.Tombstones, streaks, activity, location, logger,
	)

	return features
}

// SyncUser reconciles every collection and then the streak, one after
// another. A failing collection only costs its own pass; the rest still
// run.
func (features *Features) SyncUser(ctx context.Context, userID string) {
	if ctx.Err() != nil {
		return
	}

	features.Notes.Sync(ctx, userID)
	features.Prayers.Sync(ctx, userID)
	features.Meals.Sync(ctx, userID)
	features.Journals.Sync(ctx, userID)
	features.Plans.Sync(ctx, userID)
	features.Shares.Sync(ctx, userID)
	features.Comments.Sync(ctx, userID)
	features.Runs.Sync(ctx, userID)
	features.Workouts.Sync(ctx, userID)

	features.Streaks.Sync(ctx, userID, features.client)
}
