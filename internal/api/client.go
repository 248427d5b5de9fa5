package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	pathLogin            = "/login"
	pathRegister         = "/register"
	pathQuestions        = "/assessment/questions"
	pathSubmitAssessment = "/assessment/submit"
	pathChat             = "/chat"
	pathProfile          = "/user/profile"
	pathCourses          = "/courses"
	pathJobs             = "/jobs/recommendations"
	pathLeaderboard      = "/leaderboard"
	pathProgress         = "/progress/update"
)

// Error is returned for any non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to the CareerNavigator API. It holds no cache; every call is a
// fresh request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default 30s-timeout HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables the limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a Client for baseURL (e.g. http://localhost:5000/api).
// token may be empty for the login and register calls.
func New(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API not reachable at %s (%w)", c.baseURL, err)
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
		}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return &Error{Status: resp.StatusCode, Message: payload.Error}
		}
		return &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, pathLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, pathRegister, map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}, &out)
	return out, err
}

func (c *Client) Questions(ctx context.Context) ([]Question, error) {
	var out struct {
		Questions []Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodGet, pathQuestions, nil, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) SubmitAssessment(ctx context.Context, answers []Answer) (Results, error) {
	var out struct {
		Results Results `json:"results"`
	}
	body := struct {
		Answers []Answer `json:"answers"`
	}{Answers: answers}
	if err := c.do(ctx, http.MethodPost, pathSubmitAssessment, body, &out); err != nil {
		return Results{}, err
	}
	return out.Results, nil
}

// Chat sends one user message to the assistant and returns its reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, pathChat, map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) Profile(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, pathProfile, nil, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out struct {
		Courses []Course `json:"courses"`
	}
	if err := c.do(ctx, http.MethodGet, pathCourses, nil, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// JobRecommendations returns jobs ordered by match score, best first.
func (c *Client) JobRecommendations(ctx context.Context) ([]Job, error) {
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, pathJobs, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var out struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.do(ctx, http.MethodGet, pathLeaderboard, nil, &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}

// UpdateProgress records course progress. The server awards completion points
// once percentage reaches 100.
func (c *Client) UpdateProgress(ctx context.Context, courseID int, percentage float64) (float64, error) {
	if percentage < 0 || percentage > 100 {
		return 0, fmt.Errorf("progress must be between 0 and 100, got %v", percentage)
	}
	var out struct {
		Success  bool    `json:"success"`
		Progress float64 `json:"progress"`
	}
	body := map[string]any{
		"course_id":           courseID,
		"progress_percentage": percentage,
	}
	if err := c.do(ctx, http.MethodPost, pathProgress, body, &out); err != nil {
		return 0, err
	}
	return out.Progress, nil
}
