package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/models"
	"github.com/haventide/wellspring/internal/remote"
)

const (
	defaultDrainInterval = 30 * time.Second
	defaultDrainBatch    = 50
	baseRetryBackoff     = 30 * time.Second
	maxRetryBackoff      = 15 * time.Minute
	maxDeliveryAttempts  = 10
)

type OutboxStore interface {
	ListDue(now time.Time, limit int) ([]models.OutboxEntry, error)
	Save(entry *models.OutboxEntry) error
	Remove(id uint) error
}

type RemoteWriter interface {
	CreateRecord(ctx context.Context, kind models.Kind, payload json.RawMessage) error
	UpdateRecord(ctx context.Context, kind models.Kind, id string, payload json.RawMessage) error
	DeleteRecord(ctx context.Context, kind models.Kind, id string) error
	UpsertStreakRaw(ctx context.Context, payload json.RawMessage) error
}

// Drainer replays queued outbox entries against the remote API. Local
// mutations only ever touch the queue, so this goroutine is the single
// place where user writes meet the network.
type Drainer struct {
	outbox   OutboxStore
	remote   RemoteWriter
	logger   *logrus.Logger
	interval time.Duration
	now      func() time.Time
}

func NewDrainer(outbox OutboxStore, remoteWriter RemoteWriter, logger *logrus.Logger) *Drainer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Drainer{
		outbox:   outbox,
		remote:   remoteWriter,
		logger:   logger,
		interval: defaultDrainInterval,
		now:      time.Now,
	}
}

func (drainer *Drainer) Start(ctx context.Context) {
	ticker := time.NewTicker(drainer.interval)
	go func() {
		defer ticker.Stop()

		drainer.DrainOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				drainer.DrainOnce(ctx)
			}
		}
	}()
}

// DrainOnce delivers every due entry. An unauthorized response aborts
// the whole pass; other failures reschedule just the failing entry and
// move on.
func (drainer *Drainer) DrainOnce(ctx context.Context) {
	entries, err := drainer.outbox.ListDue(drainer.now(), defaultDrainBatch)
	if err != nil {
		drainer.logger.WithError(err).Warn("outbox: list due entries failed")
		return
	}

	for index := range entries {
		if ctx.Err() != nil {
			return
		}

		entry := entries[index]
		err := drainer.deliver(ctx, entry)
		if err == nil {
			if err := drainer.outbox.Remove(entry.ID); err != nil {
				drainer.logger.WithError(err).WithField("entry", entry.ID).
					Warn("outbox: remove delivered entry failed")
			}
			continue
		}

		if errors.Is(err, remote.ErrUnauthorized) {
			drainer.logger.Warn("outbox: remote rejected token, pausing drain until next login or refresh")
			return
		}

		drainer.reschedule(entry, err)
	}
}

func (drainer *Drainer) deliver(ctx context.Context, entry models.OutboxEntry) error {
	if entry.Kind == models.KindStreak {
		return drainer.remote.UpsertStreakRaw(ctx, entry.Payload)
	}

	switch entry.Op {
	case models.OutboxOpCreate:
		return drainer.remote.CreateRecord(ctx, entry.Kind, entry.Payload)
	case models.OutboxOpUpdate:
		return drainer.remote.UpdateRecord(ctx, entry.Kind, entry.RecordID, entry.Payload)
	case models.OutboxOpDelete:
		return drainer.remote.DeleteRecord(ctx, entry.Kind, entry.RecordID)
	default:
		return errors.New("unknown outbox op " + entry.Op)
	}
}

func (drainer *Drainer) reschedule(entry models.OutboxEntry, deliveryErr error) {
	entry.Attempts++
	entry.LastError = deliveryErr.Error()

	if entry.Attempts >= maxDeliveryAttempts {
		drainer.logger.WithFields(logrus.Fields{
			"entry":  entry.ID,
			"kind":   entry.Kind,
			"op":     entry.Op,
			"record": entry.RecordID,
			"error":  entry.LastError,
		}).Warn("outbox: dropping entry after too many attempts, sync will repair the record")
		if err := drainer.outbox.Remove(entry.ID); err != nil {
			drainer.logger.WithError(err).WithField("entry", entry.ID).
				Warn("outbox: remove exhausted entry failed")
		}
		return
	}

	entry.NextAttemptAt = drainer.now().Add(retryBackoff(entry.Attempts))
	if err := drainer.outbox.Save(&entry); err != nil {
		drainer.logger.WithError(err).WithField("entry", entry.ID).
			Warn("outbox: reschedule entry failed")
		return
	}

	drainer.logger.WithFields(logrus.Fields{
		"entry":    entry.ID,
		"kind":     entry.Kind,
		"op":       entry.Op,
		"attempts": entry.Attempts,
		"next":     entry.NextAttemptAt.Format(time.RFC3339),
	}).Info("outbox: delivery failed, rescheduled")
}

// retryBackoff doubles from the base per attempt and saturates at the
// cap: 30s, 1m, 2m, 4m, 8m, 15m, 15m, ...
func retryBackoff(attempts int) time.Duration {
	backoff := baseRetryBackoff
	for i := 1; i < attempts; i++ {
		backoff *= 2
		if backoff >= maxRetryBackoff {
			return maxRetryBackoff
		}
	}
	return backoff
}
