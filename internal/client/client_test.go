package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminToken    = "admin-token"
	adminEmail    = "admin@example.com"
	adminPassword = "secret1"
)

// fakeAPI is an in-memory stand-in for the association API
type fakeAPI struct {
	mu       sync.Mutex
	articles map[int64]models.Article
	nextID   int64
	requests atomic.Int32
	failList bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		articles: map[int64]models.Article{
			1: {ID: 1, Title: "Les rétinoïdes expliqués", Slug: "les-retinoides-expliques", Tags: []string{"actifs"}, IsPublished: true},
		},
		nextID: 2,
	}
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body models.LoginRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body.Email != adminEmail || body.Password != adminPassword {
			writeEnvelope(w, http.StatusUnauthorized, models.APIResponse{Error: "invalid credentials"})
			return
		}
		writeData(w, http.StatusOK, models.AuthResponse{Token: adminToken, User: &models.User{ID: 1, Email: adminEmail, Role: models.RoleAdmin}})
	})

	r.Route("/api/v1/admin/articles", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer "+adminToken {
					writeEnvelope(w, http.StatusUnauthorized, models.APIResponse{Error: "authentication required"})
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failList {
				writeEnvelope(w, http.StatusInternalServerError, models.APIResponse{Error: "internal server error"})
				return
			}
			list := make([]models.Article, 0, len(f.articles))
			for id := int64(1); id < f.nextID; id++ {
				if a, ok := f.articles[id]; ok {
					list = append(list, a)
				}
			}
			writeData(w, http.StatusOK, list)
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body models.ArticleRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			f.mu.Lock()
			defer f.mu.Unlock()
			a := models.Article{ID: f.nextID, Title: body.Title, Excerpt: body.Excerpt, Tags: body.Tags, Category: body.Category}
			f.articles[a.ID] = a
			f.nextID++
			writeData(w, http.StatusCreated, a)
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			var body models.ArticleRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			f.mu.Lock()
			defer f.mu.Unlock()
			a, ok := f.articles[urlID(req)]
			if !ok {
				writeEnvelope(w, http.StatusNotFound, models.APIResponse{Error: "article not found"})
				return
			}
			a.Title, a.Excerpt, a.Tags = body.Title, body.Excerpt, body.Tags
			f.articles[a.ID] = a
			writeData(w, http.StatusOK, a)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			id := urlID(req)
			if _, ok := f.articles[id]; !ok {
				writeEnvelope(w, http.StatusNotFound, models.APIResponse{Error: "article not found"})
				return
			}
			delete(f.articles, id)
			writeEnvelope(w, http.StatusOK, models.APIResponse{Success: true, Message: "article deleted"})
		})
		r.Patch("/{id}/publish", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			a, ok := f.articles[urlID(req)]
			if !ok {
				writeEnvelope(w, http.StatusNotFound, models.APIResponse{Error: "article not found"})
				return
			}
			a.IsPublished = !a.IsPublished
			f.articles[a.ID] = a
			writeData(w, http.StatusOK, a)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func urlID(req *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	return id
}

func writeEnvelope(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data any) {
	raw, _ := json.Marshal(data)
	writeEnvelope(w, status, models.APIResponse{Success: true, Data: raw})
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	srv := api.server(t)
	return New(srv.URL+"/api/v1/", NewSession())
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError string
		expectedToken string
	}{
		{name: "success", password: adminPassword, expectedToken: adminToken},
		{name: "wrong password", password: "nope", expectedError: "invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, newFakeAPI())

			resp, err := c.Login(context.Background(), adminEmail, tt.password)

			if tt.expectedError != "" {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
				assert.Equal(t, tt.expectedError, apiErr.Message)
				assert.Nil(t, resp)
				assert.Empty(t, c.Session().Token())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedToken, c.Session().Token())
			assert.True(t, c.Session().IsAdmin())
		})
	}
}

func TestClient_Logout(t *testing.T) {
	c := newTestClient(t, newFakeAPI())
	_, err := c.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	c.Logout()

	assert.Empty(t, c.Session().Token())
	assert.Nil(t, c.Session().User())
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, NewSession())

	_, err := c.Login(context.Background(), adminEmail, adminPassword)

	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()
	c := New(srv.URL, NewSession())

	_, err := c.Login(context.Background(), adminEmail, adminPassword)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set("token-"+strconv.Itoa(i), &models.User{ID: int64(i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.User()
		}()
	}
	wg.Wait()

	assert.NotEmpty(t, s.Token())
	require.NotNil(t, s.User())
}

func TestSession_UserIsCopied(t *testing.T) {
	s := NewSession()
	s.Set("t", &models.User{ID: 1, FirstName: "Marie"})

	u := s.User()
	u.FirstName = "Changed"

	assert.Equal(t, "Marie", s.User().FirstName)
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Status: http.StatusConflict, Message: "event is full"}

	assert.Equal(t, "api error 409: event is full", err.Error())
	assert.False(t, errors.Is(err, ErrUnreachable))
}
