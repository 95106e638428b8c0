package sync

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeSyncer struct {
	users []string
}

func (syncer *fakeSyncer) SyncUser(ctx context.Context, userID string) {
	syncer.users = append(syncer.users, userID)
}

func TestEngineRunOnceDrainsBeforeSyncing(t *testing.T) {
	store := &fakeOutboxStore{due: nil}
	writer := &fakeRemoteWriter{}
	drainer := newTestDrainer(store, writer)
	syncer := &fakeSyncer{}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine := NewEngine(syncer, drainer, "user-1", 0, logger)

	engine.RunOnce(context.Background())

	if len(syncer.users) != 1 || syncer.users[0] != "user-1" {
		t.Fatalf("SyncUser calls = %v, want one for user-1", syncer.users)
	}
}

func TestEngineRunOnceRespectsCancelledContext(t *testing.T) {
	syncer := &fakeSyncer{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine := NewEngine(syncer, nil, "user-1", 0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine.RunOnce(ctx)

	if len(syncer.users) != 0 {
		t.Fatalf("SyncUser ran under a cancelled context")
	}
}
