package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/dashboard"
	"github.com/kalambet/careernav/internal/nav"
)

func highlight(label string) string {
	if noColor {
		return "[" + label + "]"
	}
	return colorize(colorCyan+colorBold, label)
}

func renderHeader(w io.Writer, route string, u api.User) {
	fmt.Fprintln(w, nav.Render(route, u.Points, u.FullName, highlight))
}

// --- dashboard ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show progress, recent courses, job matches and the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		sum, err := dashboard.New(client).Load(cmd.Context())
		if err != nil {
			printWarning("Could not load dashboard: %v", err)
		}
		renderDashboard(cmd.OutOrStdout(), sum)
		return nil
	},
}

func renderDashboard(w io.Writer, sum dashboard.Summary) {
	renderHeader(w, "/dashboard", sum.User)

	name := sum.User.FullName
	if name == "" {
		name = "learner"
	}
	fmt.Fprintf(w, "\nWelcome back, %s!\n", colorize(colorBold, name))
	printStatus(w, "Completed courses", "%d", sum.Stats.CompletedCourses)
	printStatus(w, "Total points", "%d", sum.Stats.TotalPoints)
	printStatus(w, "Current streak", "%d days", sum.Stats.CurrentStreak)
	printStatus(w, "Rank", "%s", dashboard.FormatRank(sum.Stats.Rank))

	printHeading(w, "Recent courses")
	if len(sum.RecentCourses) == 0 {
		fmt.Fprintln(w, "  No courses yet.")
	}
	for _, c := range sum.RecentCourses {
		fmt.Fprintf(w, "  %-32s %-12s %3.0f%%\n", truncate(c.Title, 32), c.Difficulty, c.Progress)
	}

	printHeading(w, "Job matches")
	if len(sum.JobMatches) == 0 {
		fmt.Fprintln(w, "  No job matches yet.")
	}
	for _, j := range sum.JobMatches {
		fmt.Fprintf(w, "  %-32s %-20s %3.0f%% match\n", truncate(j.Title, 32), truncate(j.Company, 20), j.MatchScore)
	}

	printHeading(w, "Leaderboard")
	if len(sum.Leaderboard) == 0 {
		fmt.Fprintln(w, "  Leaderboard is empty.")
	}
	for i, e := range sum.Leaderboard {
		line := fmt.Sprintf("  %d. %-24s %6d pts", i+1, truncate(e.Name, 24), e.Points)
		if e.Name == sum.User.FullName && e.Name != "" {
			line = colorize(colorGreen, line)
		}
		fmt.Fprintln(w, line)
	}
}

// --- courses ---

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List available courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		courses, err := client.Courses(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		shown := 0
		for _, c := range courses {
			if difficulty != "" && !strings.EqualFold(c.Difficulty, difficulty) {
				continue
			}
			shown++
			fmt.Fprintf(w, "\n%s %s\n", colorize(colorCyan, fmt.Sprintf("#%d", c.ID)), colorize(colorBold, c.Title))
			fmt.Fprintf(w, "  %s · %s · %s · %.0f%% complete\n", c.Category, c.Difficulty, c.Duration, c.Progress)
			if c.Description != "" {
				fmt.Fprintf(w, "  %s\n", truncate(c.Description, 200))
			}
			if len(c.SkillsTaught) > 0 {
				fmt.Fprintf(w, "  Skills: %s\n", strings.Join(c.SkillsTaught, ", "))
			}
		}
		if shown == 0 {
			fmt.Fprintln(w, "No courses found.")
		}
		return nil
	},
}

func init() {
	coursesCmd.Flags().String("difficulty", "", "only show courses of this difficulty")
}

// --- jobs ---

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List job recommendations by match score",
	RunE: func(cmd *cobra.Command, args []string) error {
		minScore, _ := cmd.Flags().GetFloat64("min-score")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		jobs, err := client.JobRecommendations(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		shown := 0
		for _, j := range jobs {
			if j.MatchScore < minScore {
				continue
			}
			shown++
			fmt.Fprintf(w, "\n%s  %s\n", colorize(colorBold, j.Title), colorize(colorGreen, fmt.Sprintf("%.0f%% match", j.MatchScore)))
			fmt.Fprintf(w, "  %s · %s · %s\n", j.Company, j.Location, j.JobType)
			if j.SalaryRange != "" {
				fmt.Fprintf(w, "  Salary: %s\n", j.SalaryRange)
			}
			if j.Requirements != "" {
				fmt.Fprintf(w, "  Requirements: %s\n", truncate(j.Requirements, 200))
			}
		}
		if shown == 0 {
			fmt.Fprintln(w, "No job matches found.")
		}
		return nil
	},
}

func init() {
	jobsCmd.Flags().Float64("min-score", 0, "hide jobs below this match percentage")
}

// --- leaderboard ---

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show top learners by points",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		entries, err := client.Leaderboard(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(w, "Leaderboard is empty.")
			return nil
		}
		for i, e := range entries {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Fprintf(w, "%3d. %-24s %6d pts  %s\n", i+1, truncate(e.Name, 24), e.Points, e.LearningStyle)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Int("limit", 10, "number of entries to show (0 for all)")
}

// --- progress ---

var progressCmd = &cobra.Command{
	Use:   "progress <course-id> <percent>",
	Short: "Record progress on a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid course id %q", args[0])
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[1])
		}

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		got, err := client.UpdateProgress(cmd.Context(), courseID, pct)
		if err != nil {
			return err
		}

		printSuccess("Course %d progress: %.0f%%", courseID, got)
		return nil
	},
}

// --- nav ---

// routeCommands maps each view to the command that shows it.
var routeCommands = map[string]string{
	"/dashboard":  "careernav dashboard",
	"/assessment": "careernav assessment take",
	"/courses":    "careernav courses",
	"/jobs":       "careernav jobs",
	"/chat":       "careernav chat",
	"/profile":    "careernav profile show",
}

var navCmd = &cobra.Command{
	Use:   "nav [route]",
	Short: "Show the navigation bar and the command behind each view",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current := "/dashboard"
		if len(args) == 1 {
			current = "/" + strings.TrimPrefix(args[0], "/")
		}

		var u api.User
		if client, err := newAPIClient(true); err == nil {
			if u, err = client.Profile(cmd.Context()); err != nil {
				printWarning("Could not load profile: %v", err)
			}
		}

		w := cmd.OutOrStdout()
		renderHeader(w, current, u)
		fmt.Fprintln(w)
		routes := append(append([]nav.Route{}, nav.Routes...), nav.ProfileRoute)
		for _, r := range routes {
			marker := " "
			if nav.IsActive(current, r.Path) {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %-12s %-14s %s\n", marker, r.Path, r.Label, routeCommands[r.Path])
		}
		return nil
	},
}
