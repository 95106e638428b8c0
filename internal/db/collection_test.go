package db

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/haventide/wellspring/internal/models"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "wellspring-test.db"))
}

func noteAt(id string, userID string, created time.Time) models.Note {
	return models.Note{
		Meta: models.Meta{
			ID:        id,
			UserID:    userID,
			CreatedAt: created,
			UpdatedAt: created,
		},
		Title: "note " + id,
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	created := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	note := noteAt("a", "user-1", created)
	if err := notes.Insert(&note); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	loaded, found, err := notes.FindByID("a")
	if err != nil {
		t.Fatalf("FindByID() returned error: %v", err)
	}
	if !found {
		t.Fatalf("FindByID() found = false, want true")
	}
	if loaded.Title != "note a" || loaded.UserID != "user-1" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if !loaded.CreatedAt.Equal(created) || !loaded.UpdatedAt.Equal(created) {
		t.Fatalf("timestamps changed on round trip: %s/%s", loaded.CreatedAt, loaded.UpdatedAt)
	}

	if _, found, err := notes.FindByID("ghost"); err != nil || found {
		t.Fatalf("FindByID(ghost) = %v/%v, want false/nil", found, err)
	}
}

func TestCollectionUpdatePreservesGivenTimestamps(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	created := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	note := noteAt("a", "user-1", created)
	if err := notes.Insert(&note); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	edited := time.Date(2026, 5, 12, 15, 30, 0, 0, time.UTC)
	note.Title = "edited"
	note.UpdatedAt = edited
	if err := notes.Update(&note); err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}

	loaded, _, err := notes.FindByID("a")
	if err != nil {
		t.Fatalf("FindByID() returned error: %v", err)
	}
	if loaded.Title != "edited" {
		t.Fatalf("Title = %q, want %q", loaded.Title, "edited")
	}
	if !loaded.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %s, want the original %s", loaded.CreatedAt, created)
	}
	if !loaded.UpdatedAt.Equal(edited) {
		t.Fatalf("UpdatedAt = %s, want the assigned %s", loaded.UpdatedAt, edited)
	}
}

func TestCollectionUpsertOverwritesExistingRow(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	note := noteAt("a", "user-1", time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	if err := notes.Insert(&note); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	// A record pulled from the remote carries its own timestamps.
	pulled := noteAt("a", "user-1", time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC))
	pulled.Title = "remote copy"
	if err := notes.Upsert(&pulled); err != nil {
		t.Fatalf("Upsert() returned error: %v", err)
	}

	count, err := notes.CountByUser("user-1")
	if err != nil {
		t.Fatalf("CountByUser() returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByUser() = %d, want 1", count)
	}

	loaded, _, err := notes.FindByID("a")
	if err != nil {
		t.Fatalf("FindByID() returned error: %v", err)
	}
	if loaded.Title != "remote copy" {
		t.Fatalf("Title = %q, want the upserted copy", loaded.Title)
	}
	if !loaded.UpdatedAt.Equal(pulled.UpdatedAt) {
		t.Fatalf("UpdatedAt = %s, want %s", loaded.UpdatedAt, pulled.UpdatedAt)
	}

	fresh := noteAt("b", "user-1", time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC))
	if err := notes.Upsert(&fresh); err != nil {
		t.Fatalf("Upsert() of a new row returned error: %v", err)
	}
	if _, found, _ := notes.FindByID("b"); !found {
		t.Fatalf("upserted new row not found")
	}
}

func TestCollectionDeleteReportsPresence(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	note := noteAt("a", "user-1", time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	if err := notes.Insert(&note); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	existed, err := notes.Delete("a")
	if err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if !existed {
		t.Fatalf("Delete() existed = false, want true")
	}

	existed, err = notes.Delete("a")
	if err != nil {
		t.Fatalf("second Delete() returned error: %v", err)
	}
	if existed {
		t.Fatalf("second Delete() existed = true, want false")
	}
}

func TestCollectionListByUserNewestFirst(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	older := noteAt("older", "user-1", time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	newer := noteAt("newer", "user-1", time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC))
	foreign := noteAt("foreign", "user-2", time.Date(2026, 5, 13, 9, 0, 0, 0, time.UTC))
	for _, record := range []models.Note{older, newer, foreign} {
		record := record
		if err := notes.Insert(&record); err != nil {
			t.Fatalf("Insert(%s) returned error: %v", record.ID, err)
		}
	}

	records, err := notes.ListByUser("user-1")
	if err != nil {
		t.Fatalf("ListByUser() returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListByUser() = %d records, want 2", len(records))
	}
	if records[0].ID != "newer" || records[1].ID != "older" {
		t.Fatalf("order = %s, %s, want newest first", records[0].ID, records[1].ID)
	}
}

func TestCollectionRangeQueries(t *testing.T) {
	database := openTestDatabase(t)
	notes := NewCollection[models.Note](database)

	inside := noteAt("inside", "user-1", time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	atEnd := noteAt("at-end", "user-1", time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC))
	before := noteAt("before", "user-1", time.Date(2026, 5, 9, 23, 59, 0, 0, time.UTC))
	for _, record := range []models.Note{inside, atEnd, before} {
		record := record
		if err := notes.Insert(&record); err != nil {
			t.Fatalf("Insert(%s) returned error: %v", record.ID, err)
		}
	}

	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

	records, err := notes.ListByUserRange("user-1", start, end)
	if err != nil {
		t.Fatalf("ListByUserRange() returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "inside" {
		t.Fatalf("ListByUserRange() = %v, want only the record inside [start, end)", records)
	}

	exists, err := notes.ExistsByUserRange("user-1", start, end)
	if err != nil {
		t.Fatalf("ExistsByUserRange() returned error: %v", err)
	}
	if !exists {
		t.Fatalf("ExistsByUserRange() = false, want true")
	}

	empty := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	exists, err = notes.ExistsByUserRange("user-1", empty, empty.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ExistsByUserRange() on empty day returned error: %v", err)
	}
	if exists {
		t.Fatalf("ExistsByUserRange() = true for a day without records")
	}
}
