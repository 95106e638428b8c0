package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haventide/wellspring/internal/models"
	syncpkg "github.com/haventide/wellspring/internal/sync"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrMissingOwner = errors.New("record has no owner")
)

const tombstoneRetention = 30 * 24 * time.Hour

// LocalCollection is the slice of the local store one feature needs.
type LocalCollection[T any] interface {
	Insert(record *T) error
	Update(record *T) error
	Upsert(record *T) error
	Delete(id string) (bool, error)
	FindByID(id string) (T, bool, error)
	ListByUser(userID string) ([]T, error)
	ListByUserRange(userID string, start time.Time, end time.Time) ([]T, error)
}

// RemoteCollection is the remote API surface for one kind. The client
// is authenticated as a single user, so listing needs no user argument.
type RemoteCollection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) error
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id string) error
}

type OutboxWriter interface {
	Enqueue(entry *models.OutboxEntry) error
}

type TombstoneStore interface {
	Record(tombstone *models.Tombstone) error
	DeletedIDs(userID string, kind models.Kind) (map[string]time.Time, error)
	PruneOlderThan(userID string, kind models.Kind, cutoff time.Time) error
}

type StreakKeeper interface {
	RecordActivity(userID string, now time.Time) error
	CheckAndReset(userID string, now time.Time) error
}

type DayActivityChecker interface {
	HasActivityOn(userID string, day time.Time) (bool, error)
}

// Feature is the repository for one content kind. All mutations commit
// locally first and queue their remote mirror on the outbox; Sync is
// the only method that talks to the remote API directly.
type Feature[T models.Record, P models.MutablePtr[T]] struct {
	kind       models.Kind
	local      LocalCollection[T]
	remote     RemoteCollection[T]
	outbox     OutboxWriter
	tombstones TombstoneStore
	streaks    StreakKeeper
	activity   DayActivityChecker
	location   *time.Location
	logger     *logrus.Logger
	clock      func() time.Time
}

func NewFeature[T models.Record, P models.MutablePtr[T]](
	kind models.Kind,
	local LocalCollection[T],
	remoteCollection RemoteCollection[T],
	outbox OutboxWriter,
	tombstones TombstoneStore,
	streaks StreakKeeper,
	activity DayActivityChecker,
	location *time.Location,
	logger *logrus.Logger,
) *Feature[T, P] {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Feature[T, P]{
		kind:       kind,
		local:      local,
		remote:     remoteCollection,
		outbox:     outbox,
		tombstones: tombstones,
		streaks:    streaks,
		activity:   activity,
		location:   location,
		logger:     logger,
		clock:      time.Now,
	}
}

func (feature *Feature[T, P]) Kind() models.Kind {
	return feature.kind
}

// Create stamps and stores the record, queues the remote create and
// counts the creation as streak activity.
func (feature *Feature[T, P]) Create(record P) error {
	if record.OwnerID() == "" {
		return ErrMissingOwner
	}

	now := feature.clock()
	record.StampNew(now)
	if err := feature.local.Insert((*T)(record)); err != nil {
		return err
	}

	feature.enqueue(models.OutboxOpCreate, record)

	return feature.streaks.RecordActivity(record.OwnerID(), now)
}

// Update refreshes UpdatedAt and overwrites the local row, then queues
// the remote update. Edits do not count as new streak activity.
func (feature *Feature[T, P]) Update(record P) error {
	if record.OwnerID() == "" {
		return ErrMissingOwner
	}
	if record.RecordID() == "" {
		return ErrNotFound
	}

	record.Touch(feature.clock())
	if err := feature.local.Update((*T)(record)); err != nil {
		return err
	}

	feature.enqueue(models.OutboxOpUpdate, record)
	return nil
}

// Delete removes the record, writes a tombstone so sync propagates the
// deletion instead of resurrecting the record, queues the remote
// delete, and drops the streak back to zero when the deleted record was
// the only activity left on its day.
func (feature *Feature[T, P]) Delete(id string) error {
	record, found, err := feature.local.FindByID(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	if _, err := feature.local.Delete(id); err != nil {
		return err
	}

	now := feature.clock()
	owner := P(&record).OwnerID()
	tombstone := models.Tombstone{
		Kind:      feature.kind,
		RecordID:  id,
		UserID:    owner,
		DeletedAt: now,
	}
	if err := feature.tombstones.Record(&tombstone); err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   feature.kind,
			"record": id,
		}).Warn("delete: write tombstone failed, remote copy may come back on next sync")
	}

	feature.enqueueDelete(owner, id)

	remaining, err := feature.activity.HasActivityOn(owner, P(&record).CreatedTime())
	if err != nil {
		feature.logger.WithError(err).WithField("user", owner).
			Warn("delete: activity check failed, leaving streak untouched")
		return nil
	}
	if remaining {
		return nil
	}
	return feature.streaks.CheckAndReset(owner, now)
}

func (feature *Feature[T, P]) Get(id string) (T, error) {
	record, found, err := feature.local.FindByID(id)
	if err != nil {
		return record, err
	}
	if !found {
		return record, ErrNotFound
	}
	return record, nil
}

func (feature *Feature[T, P]) List(userID string) ([]T, error) {
	return feature.local.ListByUser(userID)
}

func (feature *Feature[T, P]) ListRange(userID string, start time.Time, end time.Time) ([]T, error) {
	return feature.local.ListByUserRange(userID, start, end)
}

// Sync converges the local and remote copies of this collection.
// Failures are logged and swallowed: sync is repair work, the next
// cycle simply starts over from the surviving state.
func (feature *Feature[T, P]) Sync(ctx context.Context, userID string) {
	remoteRecords, err := feature.remote.List(ctx)
	if err != nil {
		feature.syncFailed(userID, "fetch remote", err)
		return
	}

	localRecords, err := feature.local.ListByUser(userID)
	if err != nil {
		feature.syncFailed(userID, "fetch local", err)
		return
	}

	deletedIDs, err := feature.tombstones.DeletedIDs(userID, feature.kind)
	if err != nil {
		feature.syncFailed(userID, "load tombstones", err)
		return
	}

	plan := syncpkg.BuildPlan(localRecords, remoteRecords, func(id string) bool {
		_, deleted := deletedIDs[id]
		return deleted
	})
	if plan.Empty() {
		feature.pruneTombstones(userID)
		return
	}

	for index := range plan.AddLocally {
		record := plan.AddLocally[index]
		if err := feature.local.Upsert(&record); err != nil {
			feature.syncFailed(userID, "store downloaded record", err)
			return
		}
	}
	for _, record := range plan.UploadRemote {
		if err := feature.remote.Create(ctx, record); err != nil {
			feature.syncFailed(userID, "upload record", err)
			return
		}
	}
	for _, record := range plan.PushRemote {
		if err := feature.remote.Update(ctx, record); err != nil {
			feature.syncFailed(userID, "push newer record", err)
			return
		}
	}
	for index := range plan.PullLocal {
		record := plan.PullLocal[index]
		if err := feature.local.Upsert(&record); err != nil {
			feature.syncFailed(userID, "pull newer record", err)
			return
		}
	}
	for _, id := range plan.DeleteRemote {
		if err := feature.remote.Delete(ctx, id); err != nil {
			feature.syncFailed(userID, "propagate deletion", err)
			return
		}
	}

	feature.logger.WithFields(logrus.Fields{
		"kind":       feature.kind,
		"user":       userID,
		"downloaded": len(plan.AddLocally),
		"uploaded":   len(plan.UploadRemote),
		"pushed":     len(plan.PushRemote),
		"pulled":     len(plan.PullLocal),
		"deleted":    len(plan.DeleteRemote),
	}).Info("sync: collection reconciled")

	feature.pruneTombstones(userID)
}

// pruneTombstones runs only after a fully successful pass, so every
// deletion has been seen by the remote before its marker goes away.
func (feature *Feature[T, P]) pruneTombstones(userID string) {
	cutoff := feature.clock().Add(-tombstoneRetention)
	if err := feature.tombstones.PruneOlderThan(userID, feature.kind, cutoff); err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind": feature.kind,
			"user": userID,
		}).Warn("sync: prune tombstones failed")
	}
}

func (feature *Feature[T, P]) syncFailed(userID string, stage string, err error) {
	feature.logger.WithError(err).WithFields(logrus.Fields{
		"kind":  feature.kind,
		"user":  userID,
		"stage": stage,
	}).Info("sync: collection pass failed, will retry next cycle")
}

// enqueue puts the record's remote mirror on the outbox. A full outbox
// failure is logged, not returned: the local write already succeeded
// and the reconciler will repair the remote copy.
func (feature *Feature[T, P]) enqueue(op string, record P) {
	entry, err := models.NewOutboxEntry(feature.kind, op, record.OwnerID(), record.RecordID(), record, feature.clock())
	if err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   feature.kind,
			"record": record.RecordID(),
		}).Warn("outbox: build entry failed")
		return
	}
	if err := feature.outbox.Enqueue(&entry); err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   feature.kind,
			"record": record.RecordID(),
		}).Warn("outbox: queue mirror failed, sync will repair")
	}
}

func (feature *Feature[T, P]) enqueueDelete(userID string, id string) {
	entry, err := models.NewOutboxEntry(feature.kind, models.OutboxOpDelete, userID, id, nil, feature.clock())
	if err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   feature.kind,
			"record": id,
		}).Warn("outbox: build delete entry failed")
		return
	}
	if err := feature.outbox.Enqueue(&entry); err != nil {
		feature.logger.WithError(err).WithFields(logrus.Fields{
			"kind":   feature.kind,
			"record": id,
		}).Warn("outbox: queue delete failed, sync will repair")
	}
}
