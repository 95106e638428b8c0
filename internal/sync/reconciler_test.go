package sync

import (
	"testing"
	"time"

	"github.com/haventide/wellspring/internal/models"
)

func note(id string, updated time.Time) models.Note {
	return models.Note{
		Meta: models.Meta{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: updated,
			UpdatedAt: updated,
		},
		Title: "note " + id,
	}
}

func stamp(hour int) time.Time {
	return time.Date(2026, 5, 10, hour, 0, 0, 0, time.UTC)
}

func ids(records []models.Note) []string {
	var out []string
	for _, record := range records {
		out = append(out, record.ID)
	}
	return out
}

func sameIDs(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, id := range got {
		seen[id] = true
	}
	for _, id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}

func TestBuildPlanPartitions(t *testing.T) {
	tests := []struct {
		name    string
		local   []models.Note
		remote  []models.Note
		deleted map[string]bool

		wantAdd    []string
		wantUpload []string
		wantPush   []string
		wantPull   []string
		wantDelete []string
	}{
		{
			name: "both empty",
		},
		{
			name:    "remote only is downloaded",
			remote:  []models.Note{note("a", stamp(9))},
			wantAdd: []string{"a"},
		},
		{
			name:       "remote only with tombstone is deleted",
			remote:     []models.Note{note("a", stamp(9))},
			deleted:    map[string]bool{"a": true},
			wantDelete: []string{"a"},
		},
		{
			name:       "local only is uploaded",
			local:      []models.Note{note("a", stamp(9))},
			wantUpload: []string{"a"},
		},
		{
			name:     "local newer is pushed",
			local:    []models.Note{note("a", stamp(12))},
			remote:   []models.Note{note("a", stamp(9))},
			wantPush: []string{"a"},
		},
		{
			name:     "remote newer is pulled",
			local:    []models.Note{note("a", stamp(9))},
			remote:   []models.Note{note("a", stamp(12))},
			wantPull: []string{"a"},
		},
		{
			name:   "equal timestamps are converged",
			local:  []models.Note{note("a", stamp(9))},
			remote: []models.Note{note("a", stamp(9))},
		},
		{
			name: "tombstone does not shadow a surviving record",
			local: []models.Note{
				note("a", stamp(9)),
			},
			remote: []models.Note{
				note("a", stamp(9)),
				note("b", stamp(9)),
			},
			deleted:    map[string]bool{"b": true},
			wantDelete: []string{"b"},
		},
		{
			name: "mixed collection",
			local: []models.Note{
				note("edited-here", stamp(12)),
				note("created-here", stamp(11)),
				note("settled", stamp(7)),
			},
			remote: []models.Note{
				note("edited-here", stamp(10)),
				note("created-there", stamp(11)),
				note("deleted-here", stamp(8)),
				note("edited-there", stamp(13)),
				note("settled", stamp(7)),
			},
			deleted:    map[string]bool{"deleted-here": true},
			wantAdd:    []string{"created-there", "edited-there"},
			wantUpload: []string{"created-here"},
			wantPush:   []string{"edited-here"},
			wantDelete: []string{"deleted-here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted func(id string) bool
			if tt.deleted != nil {
				deleted = func(id string) bool { return tt.deleted[id] }
			}

			plan := BuildPlan(tt.local, tt.remote, deleted)

			if !sameIDs(ids(plan.AddLocally), tt.wantAdd...) {
				t.Errorf("AddLocally = %v, want %v", ids(plan.AddLocally), tt.wantAdd)
			}
			if !sameIDs(ids(plan.UploadRemote), tt.wantUpload...) {
				t.Errorf("UploadRemote = %v, want %v", ids(plan.UploadRemote), tt.wantUpload)
			}
			if !sameIDs(ids(plan.PushRemote), tt.wantPush...) {
				t.Errorf("PushRemote = %v, want %v", ids(plan.PushRemote), tt.wantPush)
			}
			if !sameIDs(ids(plan.PullLocal), tt.wantPull...) {
				t.Errorf("PullLocal = %v, want %v", ids(plan.PullLocal), tt.wantPull)
			}
			if !sameIDs(plan.DeleteRemote, tt.wantDelete...) {
				t.Errorf("DeleteRemote = %v, want %v", plan.DeleteRemote, tt.wantDelete)
			}

			wantOperations := len(tt.wantAdd) + len(tt.wantUpload) + len(tt.wantPush) + len(tt.wantPull) + len(tt.wantDelete)
			if plan.Operations() != wantOperations {
				t.Errorf("Operations() = %d, want %d", plan.Operations(), wantOperations)
			}
			if plan.Empty() != (wantOperations == 0) {
				t.Errorf("Empty() = %v with %d operations", plan.Empty(), wantOperations)
			}
		})
	}
}

func applyPlan(local map[string]models.Note, remote map[string]models.Note, plan Plan[models.Note]) {
	for _, record := range plan.AddLocally {
		local[record.ID] = record
	}
	for _, record := range plan.UploadRemote {
		remote[record.ID] = record
	}
	for _, record := range plan.PushRemote {
		remote[record.ID] = record
	}
	for _, record := range plan.PullLocal {
		local[record.ID] = record
	}
	for _, id := range plan.DeleteRemote {
		delete(remote, id)
	}
}

func values(records map[string]models.Note) []models.Note {
	var out []models.Note
	for _, record := range records {
		out = append(out, record)
	}
	return out
}

func TestBuildPlanConvergesInOnePass(t *testing.T) {
	local := map[string]models.Note{
		"edited-here":  note("edited-here", stamp(12)),
		"created-here": note("created-here", stamp(11)),
		"settled":      note("settled", stamp(7)),
	}
	remote := map[string]models.Note{
		"edited-here":   note("edited-here", stamp(10)),
		"created-there": note("created-there", stamp(11)),
		"deleted-here":  note("deleted-here", stamp(8)),
		"edited-there":  note("edited-there", stamp(13)),
		"settled":       note("settled", stamp(7)),
	}
	deleted := func(id string) bool { return id == "deleted-here" }

	plan := BuildPlan(values(local), values(remote), deleted)
	applyPlan(local, remote, plan)

	if len(local) != len(remote) {
		t.Fatalf("sides differ in size after apply: %d local, %d remote", len(local), len(remote))
	}
	for id, localRecord := range local {
		remoteRecord, exists := remote[id]
		if !exists {
			t.Fatalf("record %s missing remotely after apply", id)
		}
		if !localRecord.UpdatedAt.Equal(remoteRecord.UpdatedAt) {
			t.Fatalf("record %s differs after apply: %s vs %s", id, localRecord.UpdatedAt, remoteRecord.UpdatedAt)
		}
	}

	second := BuildPlan(values(local), values(remote), deleted)
	if !second.Empty() {
		t.Fatalf("second pass is not empty: %d operations", second.Operations())
	}
}

func TestBuildPlanNilTombstoneLookup(t *testing.T) {
	plan := BuildPlan(nil, []models.Note{note("a", stamp(9))}, nil)
	if !sameIDs(ids(plan.AddLocally), "a") {
		t.Fatalf("AddLocally = %v, want [a]", ids(plan.AddLocally))
	}
}
