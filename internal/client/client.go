// Package client is the Go client of the association API used by the website front-end and tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
)

// DefaultTimeout bounds every API call
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a non-JSON error body is kept
const maxErrorBody = 4 * 1024

var (
	// ErrNotAuthenticated is returned before any network call when the session has no token
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrCancelled is returned when the user declines a destructive operation
	ErrCancelled = errors.New("operation cancelled")
	// ErrUnreachable wraps transport failures
	ErrUnreachable = errors.New("could not reach the server")
)

// APIError is a non-success answer of the API. Message is the server message verbatim.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session holds the bearer token and the signed-in user. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Set stores the token and user returned by login or registration
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear signs the session out
func (s *Session) Clear() {
	s.Set("", nil)
}

// Token returns the bearer token, empty when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, nil when signed out
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAdmin reports whether the signed-in user is an administrator
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil && s.user.IsAdmin()
}

// Client calls the association API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API rooted at baseURL (e.g. "https://api.example.org/api/v1")
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session shared with the caller
func (c *Client) Session() *Session {
	return c.session
}

// Register applies for membership. On success the session is signed in.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", false, req, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.Token, resp.User)
	return &resp, nil
}

// Login signs the session in
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := &models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, req, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.Token, resp.User)
	return &resp, nil
}

// Logout clears the session. Tokens are stateless, nothing is sent to the server.
func (c *Client) Logout() {
	c.session.Clear()
}

// RegisterForEvent books a seat. The session token is sent when present so members get the member price.
func (c *Client) RegisterForEvent(ctx context.Context, eventID int64, req *models.EventRegistrationRequest) (*models.RegistrationConfirmation, error) {
	var confirmation models.RegistrationConfirmation
	path := fmt.Sprintf("/events/%d/register", eventID)
	if err := c.do(ctx, http.MethodPost, path, false, req, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

// do sends one request and decodes the envelope's data into out.
// When requireAuth is set and the session has no token, ErrNotAuthenticated is returned without a request.
func (c *Client) do(ctx context.Context, method, path string, requireAuth bool, body, out any) error {
	token := c.session.Token()
	if requireAuth && token == "" {
		return ErrNotAuthenticated
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: truncate(string(raw))}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: message, Fields: envelope.Fields}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
