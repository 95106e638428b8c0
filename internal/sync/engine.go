package sync

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSyncInterval = 5 * time.Minute

// Syncer reconciles every collection for one user. Implemented by the
// services layer; the engine stays ignorant of individual kinds.
type Syncer interface {
	SyncUser(ctx context.Context, userID string)
}

// Engine runs the periodic reconciliation cycle for the device's
// logged-in user.
type Engine struct {
	syncer   Syncer
	drainer  *Drainer
	userID   string
	interval time.Duration
	logger   *logrus.Logger
}

func NewEngine(syncer Syncer, drainer *Drainer, userID string, interval time.Duration, logger *logrus.Logger) *Engine {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		syncer:   syncer,
		drainer:  drainer,
		userID:   userID,
		interval: interval,
		logger:   logger,
	}
}

func (engine *Engine) Start(ctx context.Context) {
	ticker := time.NewTicker(engine.interval)
	go func() {
		defer ticker.Stop()

		engine.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				engine.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce flushes pending local writes first so the reconciler diffs
// against a remote that already has them, then reconciles every
// collection.
func (engine *Engine) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	if engine.drainer != nil {
		engine.drainer.DrainOnce(ctx)
	}
	engine.syncer.SyncUser(ctx, engine.userID)

	engine.logger.WithFields(logrus.Fields{
		"user":     engine.userID,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Debug("sync: cycle finished")
}
