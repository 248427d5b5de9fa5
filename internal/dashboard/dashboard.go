// Package dashboard assembles the home view from four independent API reads.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/careernav/internal/api"
)

const (
	recentCourses   = 3
	jobMatches      = 3
	leaderboardSize = 5
)

// Source is the subset of the API client the dashboard reads from.
type Source interface {
	Profile(ctx context.Context) (api.User, error)
	Courses(ctx context.Context) ([]api.Course, error)
	JobRecommendations(ctx context.Context) ([]api.Job, error)
	Leaderboard(ctx context.Context) ([]api.LeaderboardEntry, error)
}

type Stats struct {
	CompletedCourses int
	TotalPoints      int
	CurrentStreak    int
	// Rank is the 1-based leaderboard position, 0 when the user is not listed.
	Rank int
}

type Summary struct {
	User          api.User
	Stats         Stats
	RecentCourses []api.Course
	JobMatches    []api.Job
	Leaderboard   []api.LeaderboardEntry
}

type Aggregator struct {
	src    Source
	logger *slog.Logger
}

func New(src Source) *Aggregator {
	return &Aggregator{src: src, logger: slog.Default()}
}

// Load fetches profile, courses, jobs and leaderboard concurrently and waits
// for all of them. Any failure discards the whole cycle: the error is logged
// and returned with an empty Summary.
func (a *Aggregator) Load(ctx context.Context) (Summary, error) {
	var (
		profile     api.User
		courses     []api.Course
		jobs        []api.Job
		leaderboard []api.LeaderboardEntry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if profile, err = a.src.Profile(gCtx); err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if courses, err = a.src.Courses(gCtx); err != nil {
			return fmt.Errorf("fetching courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobs, err = a.src.JobRecommendations(gCtx); err != nil {
			return fmt.Errorf("fetching job recommendations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if leaderboard, err = a.src.Leaderboard(gCtx); err != nil {
			return fmt.Errorf("fetching leaderboard: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("loading dashboard", "error", err)
		return Summary{}, err
	}

	return Summary{
		User: profile,
		Stats: Stats{
			CompletedCourses: profile.CompletedCourses,
			TotalPoints:      profile.Points,
			CurrentStreak:    profile.CurrentStreak,
			Rank:             Rank(leaderboard, profile.FullName),
		},
		RecentCourses: head(courses, recentCourses),
		JobMatches:    head(jobs, jobMatches),
		Leaderboard:   head(leaderboard, leaderboardSize),
	}, nil
}

// Rank returns the 1-based position of name in entries, or 0 if absent.
func Rank(entries []api.LeaderboardEntry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i + 1
		}
	}
	return 0
}

// FormatRank renders a rank for display; the 0 sentinel becomes "N/A".
func FormatRank(rank int) string {
	if rank <= 0 {
		return "N/A"
	}
	return strconv.Itoa(rank)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
