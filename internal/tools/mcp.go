// Package tools exposes the CareerNavigator read operations as MCP tools so
// that desktop assistants can query a user's career data over stdio.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/chat"
	"github.com/kalambet/careernav/internal/dashboard"
	"github.com/kalambet/careernav/internal/resume"
)

// API is the subset of the HTTP client the tools call.
type API interface {
	dashboard.Source
	chat.Sender
}

// Deps holds dependencies for the MCP server.
type Deps struct {
	API     API
	Version string
	// ExtractResume reads a PDF resume; defaults to resume.ExtractText.
	ExtractResume func(path string) (string, error)
}

type handlers struct {
	api       API
	dashboard *dashboard.Aggregator
	chat      *chat.Session
	extract   func(path string) (string, error)
}

func newHandlers(deps Deps) *handlers {
	extract := deps.ExtractResume
	if extract == nil {
		extract = resume.ExtractText
	}
	return &handlers{
		api:       deps.API,
		dashboard: dashboard.New(deps.API),
		chat:      chat.NewSession(deps.API),
		extract:   extract,
	}
}

// NewServer creates an MCP server with all careernav tools and resources registered.
func NewServer(deps Deps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	h := newHandlers(deps)

	s := server.NewMCPServer(
		"careernav",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("careernav: learning progress, course and job recommendations for the signed-in CareerNavigator user."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("dashboard",
			mcp.WithDescription("Summary of the user's progress: completed courses, points, streak, leaderboard rank, recent courses and top job matches."),
		),
		h.dashboardTool,
	)

	s.AddTool(
		mcp.NewTool("list_courses",
			mcp.WithDescription("List available courses with difficulty, duration and the user's progress."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of courses (default 20)")),
		),
		h.listCourses,
	)

	s.AddTool(
		mcp.NewTool("job_matches",
			mcp.WithDescription("Job recommendations ranked by match score against the user's skills."),
			mcp.WithNumber("min_score", mcp.Description("Only return jobs with at least this match percentage")),
		),
		h.jobMatches,
	)

	s.AddTool(
		mcp.NewTool("leaderboard",
			mcp.WithDescription("Top learners by points."),
			mcp.WithNumber("limit", mcp.Description("Number of entries (default 5)")),
		),
		h.leaderboard,
	)

	s.AddTool(
		mcp.NewTool("ask_assistant",
			mcp.WithDescription("Ask the CareerNavigator assistant a career or learning question."),
			mcp.WithString("message", mcp.Description("The question to ask"), mcp.Required()),
			mcp.WithString("resume_path", mcp.Description("Optional path to a PDF resume to include")),
		),
		h.askAssistant,
	)

	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Current CareerNavigator profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		h.profileResource,
	)

	return s
}

func (h *handlers) dashboardTool(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := h.dashboard.Load(ctx)
	if err != nil {
		return mcpError(fmt.Sprintf("loading dashboard failed: %v", err)), nil
	}

	type stats struct {
		CompletedCourses int    `json:"completed_courses"`
		TotalPoints      int    `json:"total_points"`
		CurrentStreak    int    `json:"current_streak"`
		Rank             string `json:"rank"`
	}
	out := struct {
		Name          string                 `json:"name"`
		Stats         stats                  `json:"stats"`
		RecentCourses []api.Course           `json:"recent_courses"`
		JobMatches    []api.Job              `json:"job_matches"`
		Leaderboard   []api.LeaderboardEntry `json:"leaderboard"`
	}{
		Name: sum.User.FullName,
		Stats: stats{
			CompletedCourses: sum.Stats.CompletedCourses,
			TotalPoints:      sum.Stats.TotalPoints,
			CurrentStreak:    sum.Stats.CurrentStreak,
			Rank:             dashboard.FormatRank(sum.Stats.Rank),
		},
		RecentCourses: sum.RecentCourses,
		JobMatches:    sum.JobMatches,
		Leaderboard:   sum.Leaderboard,
	}
	return mcpJSON(out)
}

func (h *handlers) listCourses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	courses, err := h.api.Courses(ctx)
	if err != nil {
		return mcpError(fmt.Sprintf("listing courses failed: %v", err)), nil
	}
	if len(courses) > limit {
		courses = courses[:limit]
	}
	return mcpJSON(courses)
}

func (h *handlers) jobMatches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minScore := req.GetFloat("min_score", 0)

	jobs, err := h.api.JobRecommendations(ctx)
	if err != nil {
		return mcpError(fmt.Sprintf("fetching job matches failed: %v", err)), nil
	}

	matched := make([]api.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.MatchScore >= minScore {
			matched = append(matched, j)
		}
	}
	return mcpJSON(matched)
}

func (h *handlers) leaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	entries, err := h.api.Leaderboard(ctx)
	if err != nil {
		return mcpError(fmt.Sprintf("fetching leaderboard failed: %v", err)), nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return mcpJSON(entries)
}

func (h *handlers) askAssistant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcpError("message is required"), nil
	}

	if path := req.GetString("resume_path", ""); path != "" {
		text, err := h.extract(path)
		if err != nil {
			return mcpError(fmt.Sprintf("reading resume failed: %v", err)), nil
		}
		message = resume.ComposeMessage(message, text)
	}

	reply, err := h.chat.Send(ctx, message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return mcpError("message is required"), nil
	case errors.Is(err, chat.ErrBusy):
		return mcpError("the assistant is still answering a previous question"), nil
	case err != nil:
		return mcpError(fmt.Sprintf("asking assistant failed: %v", err)), nil
	}
	return mcpText(reply.Content), nil
}

func (h *handlers) profileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	u, err := h.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	b, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
