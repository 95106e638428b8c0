package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haventide/wellspring/internal/models"
)

const defaultRequestTimeout = 10 * time.Second

// Client talks to the wellspring server API on behalf of one logged-in
// user. Every request after login carries the bearer token; the server
// scopes all reads and writes to the token's user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (client *Client) SetToken(token string) {
	client.token = token
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (client *Client) Register(ctx context.Context, email string, password string) error {
	body := loginRequest{Email: email, Password: password}
	return client.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

func (client *Client) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	body := loginRequest{Email: email, Password: password}
	var result LoginResult
	if err := client.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" || result.UserID == "" {
		return LoginResult{}, errors.New("login response missing token or user id")
	}
	return result, nil
}

func (client *Client) FetchStreak(ctx context.Context) (models.Streak, bool, error) {
	var streak models.Streak
	err := client.do(ctx, http.MethodGet, "/api/streak", nil, &streak)
	if errors.Is(err, ErrNotFound) {
		return models.Streak{}, false, nil
	}
	if err != nil {
		return models.Streak{}, false, err
	}
	return streak, true, nil
}

// CreateRecord, UpdateRecord and DeleteRecord replay outbox entries.
// The payload is stored wire-ready at enqueue time, so no unmarshalling
// happens between the queue and the socket.
func (client *Client) CreateRecord(ctx context.Context, kind models.Kind, payload json.RawMessage) error {
	return client.do(ctx, http.MethodPost, collectionPath(kind), payload, nil)
}

func (client *Client) UpdateRecord(ctx context.Context, kind models.Kind, id string, payload json.RawMessage) error {
	return client.do(ctx, http.MethodPut, collectionPath(kind)+"/"+id, payload, nil)
}

func (client *Client) DeleteRecord(ctx context.Context, kind models.Kind, id string) error {
	err := client.do(ctx, http.MethodDelete, collectionPath(kind)+"/"+id, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (client *Client) UpsertStreakRaw(ctx context.Context, payload json.RawMessage) error {
	return client.do(ctx, http.MethodPut, "/api/streak", payload, nil)
}

func collectionPath(kind models.Kind) string {
	return "/api/" + string(kind) + "s"
}

func (client *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case response.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case response.StatusCode >= 400:
		return &StatusError{
			Status:  response.StatusCode,
			Message: readErrorMessage(response.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	payload := struct {
		Error string `json:"error"`
	}{}
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		return strings.TrimSpace(string(raw))
	}
	return payload.Error
}
