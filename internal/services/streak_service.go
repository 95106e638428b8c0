package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/models"
)

type StreakStore interface {
	FindByUser(userID string) (models.Streak, bool, error)
	Save(streak *models.Streak) error
}

type StreakMirror interface {
	FetchStreak(ctx context.Context) (models.Streak, bool, error)
}

// StreakService owns the consecutive-day counter. Every feature calls
// RecordActivity on successful creation; the read-modify-write is
// serialized per user by a keyed lock.
type StreakService struct {
	streaks  StreakStore
	outbox   OutboxWriter
	location *time.Location
	logger   *logrus.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewStreakService(streaks StreakStore, outbox OutboxWriter, location *time.Location, logger *logrus.Logger) *StreakService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StreakService{
		streaks:   streaks,
		outbox:    outbox,
		location:  location,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (service *StreakService) lockFor(userID string) *sync.Mutex {
	service.mu.Lock()
	defer service.mu.Unlock()

	lock, exists := service.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		service.userLocks[userID] = lock
	}
	return lock
}

// RecordActivity applies one activity happening at now. Same calendar
// day only refreshes UpdatedAt, the next day increments, a longer gap
// restarts the count at 1.
func (service *StreakService) RecordActivity(userID string, now time.Time) error {
	lock := service.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	streak, exists, err := service.streaks.FindByUser(userID)
	if err != nil {
		return err
	}

	if !exists {
		streak = models.Streak{
			ID:           uuid.NewString(),
			UserID:       userID,
			Count:        1,
			LongestCount: 1,
			UpdatedAt:    now,
		}
		return service.save(&streak)
	}

	gap := DaysBetween(streak.UpdatedAt, now, service.location)
	switch {
	case gap <= 0:
		// Same day, or the clock moved backwards. Count holds.
	case gap == 1:
		streak.Count++
	default:
		streak.Count = 1
	}
	streak.UpdatedAt = now
	if streak.Count > streak.LongestCount {
		streak.LongestCount = streak.Count
	}

	return service.save(&streak)
}

// CheckAndReset forces the count to zero when more than one whole day
// passed since the last recorded activity. Unlike RecordActivity's
// reset-to-1, this models "nothing new happened", so the streak is
// gone, not restarted.
func (service *StreakService) CheckAndReset(userID string, now time.Time) error {
	lock := service.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	streak, exists, err := service.streaks.FindByUser(userID)
	if err != nil {
		return err
	}
	if !exists || streak.Count == 0 {
		return nil
	}

	if DaysBetween(streak.UpdatedAt, now, service.location) <= 1 {
		return nil
	}

	streak.Count = 0
	streak.UpdatedAt = now
	return service.save(&streak)
}

func (service *StreakService) Current(userID string) (models.Streak, bool, error) {
	return service.streaks.FindByUser(userID)
}

// save persists locally and queues the remote mirror. The mirror rides
// the outbox like content records do; a queue failure never fails the
// local update.
func (service *StreakService) save(streak *models.Streak) error {
	if err := service.streaks.Save(streak); err != nil {
		return err
	}

	entry, err := models.NewOutboxEntry(models.KindStreak, models.OutboxOpUpsert, streak.UserID, streak.ID, streak, streak.UpdatedAt)
	if err != nil {
		return err
	}
	if err := service.outbox.Enqueue(&entry); err != nil {
		service.logger.WithError(err).WithField("user", streak.UserID).
			Warn("streak: queue remote mirror failed")
	}
	return nil
}

// Sync pulls the remote streak and adopts it when strictly newer, so a
// fresh device picks up a streak earned elsewhere. The push direction
// flows through the outbox.
func (service *StreakService) Sync(ctx context.Context, userID string, mirror StreakMirror) {
	remoteStreak, found, err := mirror.FetchStreak(ctx)
	if err != nil {
		service.logger.WithError(err).WithField("user", userID).
			Info("streak: fetch remote failed, will retry next cycle")
		return
	}
	if !found || remoteStreak.UserID != userID {
		return
	}

	lock := service.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	localStreak, exists, err := service.streaks.FindByUser(userID)
	if err != nil {
		service.logger.WithError(err).WithField("user", userID).
			Warn("streak: load local failed during sync")
		return
	}
	if exists && !remoteStreak.UpdatedAt.After(localStreak.UpdatedAt) {
		return
	}

	if err := service.streaks.Save(&remoteStreak); err != nil {
		service.logger.WithError(err).WithField("user", userID).
			Warn("streak: adopt remote failed")
	}
}
