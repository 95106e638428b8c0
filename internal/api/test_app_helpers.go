package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haventide/wellspring/internal/db"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "wellspring-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(database, "test-secret-key", time.UTC, logger)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, method string, path string, payload any, token string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return request
}

func performRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response, out any) {
	t.Helper()

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func registerAndLogin(t *testing.T, app *fiber.App, email string, password string) (string, string) {
	t.Helper()

	credentials := map[string]string{"email": email, "password": password}

	registerResponse := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", credentials, ""))
	if registerResponse.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", registerResponse.StatusCode)
	}

	loginResponse := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", credentials, ""))
	if loginResponse.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", loginResponse.StatusCode)
	}

	var login struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	decodeJSONBody(t, loginResponse, &login)
	if login.Token == "" || login.UserID == "" {
		t.Fatalf("login response missing token or user id: %+v", login)
	}
	return login.Token, login.UserID
}
