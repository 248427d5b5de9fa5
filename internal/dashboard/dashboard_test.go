package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kalambet/careernav/internal/api"
)

type mockSource struct {
	user        api.User
	courses     []api.Course
	jobs        []api.Job
	leaderboard []api.LeaderboardEntry

	failCourses bool
	delay       time.Duration
	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (m *mockSource) enter() func() {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(m.delay)
	return func() { m.inFlight.Add(-1) }
}

func (m *mockSource) Profile(context.Context) (api.User, error) {
	defer m.enter()()
	return m.user, nil
}

func (m *mockSource) Courses(context.Context) ([]api.Course, error) {
	defer m.enter()()
	if m.failCourses {
		return nil, errors.New("courses unavailable")
	}
	return m.courses, nil
}

func (m *mockSource) JobRecommendations(context.Context) ([]api.Job, error) {
	defer m.enter()()
	return m.jobs, nil
}

func (m *mockSource) Leaderboard(context.Context) ([]api.LeaderboardEntry, error) {
	defer m.enter()()
	return m.leaderboard, nil
}

func leaderboardOf(names ...string) []api.LeaderboardEntry {
	out := make([]api.LeaderboardEntry, len(names))
	for i, n := range names {
		out[i] = api.LeaderboardEntry{Rank: i + 1, Name: n, Points: 100 * (len(names) - i)}
	}
	return out
}

func TestRank(t *testing.T) {
	board := leaderboardOf("a", "b", "c")
	tests := []struct {
		name string
		want int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 3},
		{"zed", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Rank(board, tt.name); got != tt.want {
			t.Errorf("Rank(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
	if got := Rank(nil, "a"); got != 0 {
		t.Errorf("Rank(nil) = %d, want 0", got)
	}
}

func TestFormatRank_AbsentUser(t *testing.T) {
	board := leaderboardOf("a", "b", "c", "d", "e")
	rank := Rank(board, "Ada Lovelace")
	if got := FormatRank(rank); got != "N/A" {
		t.Errorf("FormatRank = %q, want N/A", got)
	}
	if got := FormatRank(4); got != "4" {
		t.Errorf("FormatRank(4) = %q, want 4", got)
	}
}

func TestLoad_Summary(t *testing.T) {
	src := &mockSource{
		user: api.User{FullName: "c", Points: 420, CompletedCourses: 2, CurrentStreak: 5},
		courses: []api.Course{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4},
		},
		jobs:        []api.Job{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
		leaderboard: leaderboardOf("a", "b", "c", "d", "e", "f", "g"),
	}

	sum, err := New(src).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.Stats.Rank != 3 {
		t.Errorf("rank = %d, want 3", sum.Stats.Rank)
	}
	if sum.Stats.TotalPoints != 420 || sum.Stats.CompletedCourses != 2 || sum.Stats.CurrentStreak != 5 {
		t.Errorf("stats = %+v", sum.Stats)
	}
	if len(sum.RecentCourses) != 3 {
		t.Errorf("recent courses = %d, want 3", len(sum.RecentCourses))
	}
	if len(sum.JobMatches) != 3 {
		t.Errorf("job matches = %d, want 3", len(sum.JobMatches))
	}
	if len(sum.Leaderboard) != 5 {
		t.Errorf("leaderboard = %d, want 5", len(sum.Leaderboard))
	}
	if src.calls.Load() != 4 {
		t.Errorf("calls = %d, want 4", src.calls.Load())
	}
}

func TestLoad_RankUsesFullLeaderboard(t *testing.T) {
	src := &mockSource{
		user:        api.User{FullName: "g"},
		leaderboard: leaderboardOf("a", "b", "c", "d", "e", "f", "g"),
	}
	sum, err := New(src).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Stats.Rank != 7 {
		t.Errorf("rank = %d, want 7", sum.Stats.Rank)
	}
}

func TestLoad_FetchesConcurrently(t *testing.T) {
	src := &mockSource{delay: 50 * time.Millisecond}
	if _, err := New(src).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := src.maxInFlight.Load(); got < 2 {
		t.Errorf("max in-flight = %d, want concurrent fetches", got)
	}
}

func TestLoad_AnyFailureAbortsAll(t *testing.T) {
	src := &mockSource{
		user:        api.User{FullName: "a", Points: 10},
		jobs:        []api.Job{{ID: 1}},
		leaderboard: leaderboardOf("a"),
		failCourses: true,
	}

	sum, err := New(src).Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if sum.Stats.Rank != 0 || len(sum.JobMatches) != 0 || sum.User.FullName != "" {
		t.Errorf("expected empty summary on failure, got %+v", sum)
	}
	if want := "fetching courses"; !strings.Contains(err.Error(), want) {
		t.Errorf("err = %q, want it to mention %q", err, want)
	}
}

func TestHead_CopiesShortSlices(t *testing.T) {
	in := []int{1, 2}
	out := head(in, 3)
	out[0] = 9
	if in[0] != 1 {
		t.Error("head must not alias its input")
	}
	if got := fmt.Sprint(head([]int{1, 2, 3, 4}, 3)); got != "[1 2 3]" {
		t.Errorf("head = %s", got)
	}
}
