package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haventide/wellspring/internal/models"
)

func TestClientLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("request = %s %s, want POST /api/auth/login", r.Method, r.URL.Path)
		}
		if contentType := r.Header.Get("Content-Type"); contentType != "application/json" {
			t.Errorf("Content-Type = %q", contentType)
		}

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.Email != "alice@example.com" || body.Password != "swordfish1" {
			t.Errorf("credentials = %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"token-1","user_id":"user-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Login(context.Background(), "alice@example.com", "swordfish1")
	if err != nil {
		t.Fatalf("Login() returned error: %v", err)
	}
	if result.Token != "token-1" || result.UserID != "user-1" {
		t.Fatalf("Login() = %+v", result)
	}
}

func TestClientLoginRejectsIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"","user_id":"user-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Login(context.Background(), "alice@example.com", "swordfish1"); err == nil {
		t.Fatalf("Login() accepted a response without a token")
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("token-1")
	notes := NewCollection[models.Note](client, models.KindNote)
	if _, err := notes.List(context.Background()); err != nil {
		t.Fatalf("List() returned error: %v", err)
	}
	if gotAuthorization != "Bearer token-1" {
		t.Fatalf("Authorization = %q, want Bearer token-1", gotAuthorization)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":"unauthorized"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("err = %v, want ErrUnauthorized", err)
				}
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"not here"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("err = %v, want ErrNotFound", err)
				}
			},
		},
		{
			name:   "server error carries the message",
			status: http.StatusInternalServerError,
			body:   `{"error":"database is on fire"}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("err = %v, want StatusError", err)
				}
				if statusErr.Status != http.StatusInternalServerError || statusErr.Message != "database is on fire" {
					t.Fatalf("StatusError = %+v", statusErr)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			notes := NewCollection[models.Note](client, models.KindNote)
			_, err := notes.List(context.Background())
			tt.check(t, err)
		})
	}
}

func TestClientFetchStreakMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, found, err := client.FetchStreak(context.Background())
	if err != nil {
		t.Fatalf("FetchStreak() returned error: %v", err)
	}
	if found {
		t.Fatalf("FetchStreak() found = true, want false for a 404")
	}
}

func TestClientFetchStreakFound(t *testing.T) {
	updated := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Streak{
			ID:        "streak-1",
			UserID:    "user-1",
			Count:     4,
			UpdatedAt: updated,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	streak, found, err := client.FetchStreak(context.Background())
	if err != nil {
		t.Fatalf("FetchStreak() returned error: %v", err)
	}
	if !found || streak.Count != 4 || !streak.UpdatedAt.Equal(updated) {
		t.Fatalf("FetchStreak() = %+v/%v", streak, found)
	}
}

func TestClientDeleteRecordTreatsMissingAsDeleted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.DeleteRecord(context.Background(), models.KindNote, "gone"); err != nil {
		t.Fatalf("DeleteRecord() returned error for an absent record: %v", err)
	}
}

func TestClientRawRecordCallsUsePayloadVerbatim(t *testing.T) {
	payload := json.RawMessage(`{"id":"a","user_id":"user-1","title":"queued"}`)

	var gotMethod, gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.CreateRecord(context.Background(), models.KindNote, payload); err != nil {
		t.Fatalf("CreateRecord() returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/notes" {
		t.Fatalf("request = %s %s, want POST /api/notes", gotMethod, gotPath)
	}
	if gotBody != string(payload) {
		t.Fatalf("body = %s, want the queued payload verbatim", gotBody)
	}

	if err := client.UpdateRecord(context.Background(), models.KindNote, "a", payload); err != nil {
		t.Fatalf("UpdateRecord() returned error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/notes/a" {
		t.Fatalf("request = %s %s, want PUT /api/notes/a", gotMethod, gotPath)
	}

	if err := client.UpsertStreakRaw(context.Background(), payload); err != nil {
		t.Fatalf("UpsertStreakRaw() returned error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/streak" {
		t.Fatalf("request = %s %s, want PUT /api/streak", gotMethod, gotPath)
	}
}

func TestCollectionUpdateTargetsRecordPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	notes := NewCollection[models.Note](client, models.KindNote)

	note := models.Note{Meta: models.Meta{ID: "a", UserID: "user-1"}, Title: "t"}
	if err := notes.Update(context.Background(), note); err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}
	if gotPath != "/api/notes/a" {
		t.Fatalf("path = %s, want /api/notes/a", gotPath)
	}
}
