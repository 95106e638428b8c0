package sync

import (
	"github.com/haventide/wellspring/internal/models"
)

// Plan is the outcome of diffing one collection across the local and
// remote stores. Applying a plan in field order (downloads, uploads,
// pushes, pulls, remote deletes) brings both sides to the same state.
type Plan[T models.Record] struct {
	// AddLocally holds remote records this device has never seen.
	AddLocally []T
	// UploadRemote holds local records the remote side has never seen.
	UploadRemote []T
	// PushRemote holds records where the local copy is strictly newer.
	PushRemote []T
	// PullLocal holds records where the remote copy is strictly newer.
	PullLocal []T
	// DeleteRemote holds IDs deleted locally that still exist remotely.
	DeleteRemote []string
}

func (plan Plan[T]) Empty() bool {
	return plan.Operations() == 0
}

func (plan Plan[T]) Operations() int {
	return len(plan.AddLocally) +
		len(plan.UploadRemote) +
		len(plan.PushRemote) +
		len(plan.PullLocal) +
		len(plan.DeleteRemote)
}

// BuildPlan diffs the two sides of one collection. Records present on
// only one side are copied to the other, unless a local tombstone says
// the record was deleted here, in which case the remote copy is deleted
// instead of resurrected. Records present on both sides follow
// last-write-wins on UpdatedAt: the strictly newer copy overwrites the
// older one, and an exact timestamp tie counts as already converged.
//
// BuildPlan only decides; it performs no I/O.
func BuildPlan[T models.Record](local []T, remote []T, deleted func(id string) bool) Plan[T] {
	if deleted == nil {
		deleted = func(string) bool { return false }
	}

	localByID := make(map[string]T, len(local))
	for _, record := range local {
		localByID[record.RecordID()] = record
	}
	remoteByID := make(map[string]T, len(remote))
	for _, record := range remote {
		remoteByID[record.RecordID()] = record
	}

	plan := Plan[T]{}

	for _, remoteRecord := range remote {
		id := remoteRecord.RecordID()
		localRecord, existsLocally := localByID[id]
		if !existsLocally {
			if deleted(id) {
				plan.DeleteRemote = append(plan.DeleteRemote, id)
				continue
			}
			plan.AddLocally = append(plan.AddLocally, remoteRecord)
			continue
		}

		localUpdated := localRecord.UpdatedTime()
		remoteUpdated := remoteRecord.UpdatedTime()
		switch {
		case localUpdated.Equal(remoteUpdated):
			// Converged.
		case localUpdated.After(remoteUpdated):
			plan.PushRemote = append(plan.PushRemote, localRecord)
		default:
			plan.PullLocal = append(plan.PullLocal, remoteRecord)
		}
	}

	for _, localRecord := range local {
		if _, existsRemotely := remoteByID[localRecord.RecordID()]; !existsRemotely {
			plan.UploadRemote = append(plan.UploadRemote, localRecord)
		}
	}

	return plan
}
