// Package apitest runs an in-process CareerNavigator API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/go-chi/chi/v5"

	"github.com/kalambet/careernav/internal/api"
)

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

// Server is a fake API backed by Fixtures. It records every request and can be
// told to fail individual routes.
type Server struct {
	URL string

	srv *httptest.Server

	mu       sync.Mutex
	fixtures Fixtures
	failures map[string]int
	requests []Request
	chatHold chan struct{}
	chatSeen chan struct{}
}

// New starts a Server and registers its shutdown with t.Cleanup.
func New(t testing.TB, f Fixtures) *Server {
	t.Helper()
	s := &Server{
		fixtures: f,
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/login", s.handleLogin)
	r.Post("/register", s.handleRegister)
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/assessment/questions", s.handleQuestions)
		r.Post("/assessment/submit", s.handleSubmit)
		r.Post("/chat", s.handleChat)
		r.Get("/user/profile", s.handleProfile)
		r.Get("/courses", s.handleCourses)
		r.Get("/jobs/recommendations", s.handleJobs)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Post("/progress/update", s.handleProgress)
	})

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Client returns an api.Client pointed at the server.
func (s *Server) Client() *api.Client {
	token := s.fixtures.Token
	if token == "" {
		token = "test-token"
	}
	return api.New(s.URL, token, api.WithHTTPClient(s.srv.Client()))
}

// Fail makes method+path answer with status until cleared with status 0.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns recorded requests for one route.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// HoldChat blocks chat replies until release is called. arrived fires once
// per chat request that reaches the handler.
func (s *Server) HoldChat() (arrived <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold := make(chan struct{})
	seen := make(chan struct{}, 16)
	s.chatHold = hold
	s.chatSeen = seen
	var once sync.Once
	return seen, func() { once.Do(func() { close(hold) }) }
}

// Token mints an HS256 JWT in the shape the API issues.
func Token(t testing.TB, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("apitest"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Auth:   r.Header.Get("Authorization"),
		})
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := s.fixtures.Token; want != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != want {
				writeError(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email != s.fixtures.User.Email || req.Password != s.fixtures.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, api.AuthResponse{Token: s.issuedToken(), User: s.fixtures.User})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == s.fixtures.User.Email {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, api.AuthResponse{
		Token: s.issuedToken(),
		User:  api.User{ID: s.fixtures.User.ID + 1, Email: req.Email, FullName: req.FullName},
	})
}

func (s *Server) issuedToken() string {
	if s.fixtures.Token != "" {
		return s.fixtures.Token
	}
	return "test-token"
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"questions": s.fixtures.Questions})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []api.Answer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]any{"results": s.fixtures.Results})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	hold, seen := s.chatHold, s.chatSeen
	s.mu.Unlock()
	if seen != nil {
		seen <- struct{}{}
	}
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	reply := req.Message
	if s.fixtures.ChatReply != nil {
		reply = s.fixtures.ChatReply(req.Message)
	}
	writeJSON(w, map[string]string{"response": reply})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"user": s.fixtures.User})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"courses": s.fixtures.Courses})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"jobs": s.fixtures.Jobs})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"leaderboard": s.fixtures.Leaderboard})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID           int     `json:"course_id"`
		ProgressPercentage float64 `json:"progress_percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]any{"success": true, "progress": req.ProgressPercentage})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
