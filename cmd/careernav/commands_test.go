package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/apitest"
	"github.com/kalambet/careernav/internal/auth"
	"github.com/kalambet/careernav/internal/config"
)

type cliEnv struct {
	srv     *apitest.Server
	out     *bytes.Buffer
	dataDir string
	token   string
	saved   []string
}

// newCLIEnv points the root command at a fake API and a temporary data dir.
func newCLIEnv(t *testing.T, f apitest.Fixtures) *cliEnv {
	t.Helper()
	env := &cliEnv{
		srv:     apitest.New(t, f),
		out:     &bytes.Buffer{},
		dataDir: t.TempDir(),
		token:   "test-token",
	}

	origLoad, origSave, origClear := loadConfig, saveToken, clearToken
	loadConfig = func() (config.Config, error) {
		return config.Config{
			API: config.APIConfig{
				BaseURL: env.srv.URL,
				Timeout: "5s",
				Token:   env.token,
			},
			Storage: config.StorageConfig{DataDir: env.dataDir},
			Log:     config.LogConfig{Level: "error"},
		}, nil
	}
	saveToken = func(tok string) error {
		env.saved = append(env.saved, tok)
		return nil
	}
	clearToken = func() error {
		env.saved = append(env.saved, "")
		return nil
	}
	t.Cleanup(func() {
		loadConfig, saveToken, clearToken = origLoad, origSave, origClear
		noColor = false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

func (env *cliEnv) run(t *testing.T, stdin string, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	noColor = true
	env.out.Reset()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(env.out)
	rootCmd.SetErr(io.Discard)
	return rootCmd.ExecuteContext(context.Background())
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestLogin_StoresToken(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "login", "--email", "ada@example.com", "--password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(env.saved) != 1 || env.saved[0] != "test-token" {
		t.Fatalf("saved tokens = %v", env.saved)
	}

	reqs := env.srv.RequestsTo(http.MethodPost, "/login")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 login request, got %d", len(reqs))
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["email"] != "ada@example.com" {
		t.Errorf("body.email = %q", body["email"])
	}
}

func TestLogin_PromptsForMissingFields(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "ada@example.com\nsecret\n", "login"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(env.saved) != 1 {
		t.Fatalf("expected token to be stored, got %v", env.saved)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	err := env.run(t, "", "login", "--email", "ada@example.com", "--password", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("error = %q", err)
	}
	if len(env.saved) != 0 {
		t.Errorf("no token should be stored, got %v", env.saved)
	}
}

func TestLogout_ClearsToken(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(env.saved) != 1 || env.saved[0] != "" {
		t.Fatalf("expected token to be cleared, got %v", env.saved)
	}
}

func TestCommands_RequireToken(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())
	env.token = ""

	err := env.run(t, "", "dashboard")
	if !errors.Is(err, auth.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if n := len(env.srv.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestCommands_ExpiredToken(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())
	env.token = apitest.Token(t, "1", time.Now().Add(-time.Hour))

	err := env.run(t, "", "courses")
	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestWhoami(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "whoami"); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "350", "opaque"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDashboard_RendersSummary(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"[Dashboard]", "Welcome back, Ada Lovelace!", "Rank: 2", "Python Fundamentals"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "SQL for Analysts") {
		t.Error("only the first 3 courses should be shown")
	}
}

func TestDashboard_RankNotListed(t *testing.T) {
	f := apitest.DefaultFixtures()
	f.Leaderboard = []api.LeaderboardEntry{
		{Rank: 1, Name: "Grace", Points: 900},
		{Rank: 2, Name: "Alan", Points: 800},
		{Rank: 3, Name: "Edsger", Points: 700},
		{Rank: 4, Name: "Barbara", Points: 600},
		{Rank: 5, Name: "Ken", Points: 500},
	}
	env := newCLIEnv(t, f)

	if err := env.run(t, "", "dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(env.out.String(), "Rank: N/A") {
		t.Errorf("expected N/A rank:\n%s", env.out.String())
	}
}

func TestDashboard_FailureShowsEmptyPanels(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())
	env.srv.Fail(http.MethodGet, "/leaderboard", http.StatusInternalServerError)

	if err := env.run(t, "", "dashboard"); err != nil {
		t.Fatalf("dashboard should degrade, got %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "No courses yet.") || !strings.Contains(out, "Rank: N/A") {
		t.Errorf("expected empty panels:\n%s", out)
	}
}

func TestAssessmentTake_PresetAnswers(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "assessment", "take", "--answers", "1,0,2"); err != nil {
		t.Fatalf("assessment take: %v", err)
	}

	reqs := env.srv.RequestsTo(http.MethodPost, "/assessment/submit")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 submit, got %d", len(reqs))
	}
	var body struct {
		Answers []struct {
			QuestionID     int `json:"question_id"`
			SelectedOption int `json:"selected_option"`
		} `json:"answers"`
	}
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	want := []int{1, 0, 2}
	if len(body.Answers) != len(want) {
		t.Fatalf("answers = %+v", body.Answers)
	}
	for i, a := range body.Answers {
		if a.QuestionID != i+1 || a.SelectedOption != want[i] {
			t.Errorf("answer %d = %+v", i, a)
		}
	}
	if !strings.Contains(env.out.String(), "Auditory") {
		t.Errorf("results not rendered:\n%s", env.out.String())
	}

	// The result is kept in the local history.
	if err := env.run(t, "", "assessment", "history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(env.out.String(), "Auditory") {
		t.Errorf("history missing result:\n%s", env.out.String())
	}
}

func TestAssessmentTake_IncompleteIsRejected(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	err := env.run(t, "", "assessment", "take", "--answers", "1,0")
	if err == nil || !strings.Contains(err.Error(), "answer all questions") {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if n := len(env.srv.RequestsTo(http.MethodPost, "/assessment/submit")); n != 0 {
		t.Errorf("expected no submit, got %d", n)
	}
}

func TestAssessmentTake_TooManyAnswers(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	err := env.run(t, "", "assessment", "take", "--answers", "1,0,2,1")
	if err == nil || !strings.Contains(err.Error(), "got 4 answers for 3 questions") {
		t.Fatalf("expected answer count error, got %v", err)
	}
	if n := len(env.srv.RequestsTo(http.MethodPost, "/assessment/submit")); n != 0 {
		t.Errorf("expected no submit, got %d", n)
	}
}

func TestAssessmentHistory_LimitZeroListsAll(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	for range 2 {
		if err := env.run(t, "", "assessment", "take", "--answers", "1,0,2"); err != nil {
			t.Fatalf("assessment take: %v", err)
		}
	}
	if err := env.run(t, "", "assessment", "history", "--limit", "0"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if n := strings.Count(env.out.String(), "Auditory"); n != 2 {
		t.Errorf("listed %d results, want 2:\n%s", n, env.out.String())
	}
}

func TestAssessmentTake_Interactive(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	// Try to submit early, then answer 2, go back and change it, finish.
	input := "s\n2\np\n1\n1\n3\n"
	if err := env.run(t, input, "assessment", "take"); err != nil {
		t.Fatalf("assessment take: %v", err)
	}

	reqs := env.srv.RequestsTo(http.MethodPost, "/assessment/submit")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 submit, got %d", len(reqs))
	}
	if !strings.Contains(reqs[0].Body, `{"question_id":1,"selected_option":0}`) ||
		!strings.Contains(reqs[0].Body, `{"question_id":3,"selected_option":2}`) {
		t.Errorf("unexpected body %s", reqs[0].Body)
	}
}

func TestAssessmentTake_AbandonOnEOF(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "1\n", "assessment", "take"); err == nil {
		t.Fatal("expected abandoned error")
	}
	if n := len(env.srv.RequestsTo(http.MethodPost, "/assessment/submit")); n != 0 {
		t.Errorf("expected no submit, got %d", n)
	}
}

func TestChat_OneShot(t *testing.T) {
	f := apitest.DefaultFixtures()
	f.ChatReply = func(msg string) string { return "Focus on " + msg }
	env := newCLIEnv(t, f)

	if err := env.run(t, "", "chat", "Go"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got := strings.TrimSpace(env.out.String()); got != "Focus on Go" {
		t.Errorf("output = %q", got)
	}
}

func TestChat_FallbackOnFailure(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())
	env.srv.Fail(http.MethodPost, "/chat", http.StatusInternalServerError)

	if err := env.run(t, "", "chat", "hello"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(env.out.String(), "I apologize") {
		t.Errorf("expected fallback reply, got %q", env.out.String())
	}
}

func TestChat_InteractiveQuickQuestion(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "1\n\nthanks\n/quit\n", "chat"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	reqs := env.srv.RequestsTo(http.MethodPost, "/chat")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 chat requests, got %d", len(reqs))
	}
	if !strings.Contains(reqs[0].Body, "What learning path should I follow?") {
		t.Errorf("quick question not sent: %s", reqs[0].Body)
	}
	if strings.Count(env.out.String(), "Quick questions:") != 1 {
		t.Errorf("quick questions should only be offered before the first exchange:\n%s", env.out.String())
	}
}

func TestChat_AttachMissingFile(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "chat", "--attach", "/nonexistent/resume.pdf", "hi"); err == nil {
		t.Fatal("expected error for missing attachment")
	}
	if n := len(env.srv.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestProgress(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "progress", "2", "75%"); err != nil {
		t.Fatalf("progress: %v", err)
	}
	reqs := env.srv.RequestsTo(http.MethodPost, "/progress/update")
	if len(reqs) != 1 || !strings.Contains(reqs[0].Body, `"progress_percentage":75`) {
		t.Fatalf("unexpected requests %+v", reqs)
	}

	if err := env.run(t, "", "progress", "2", "140"); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestProfileEdit_KeepsLocalDraft(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "profile", "edit", "--goals", "Lead a platform team"); err != nil {
		t.Fatalf("profile edit: %v", err)
	}
	if err := env.run(t, "", "profile", "show"); err != nil {
		t.Fatalf("profile show: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "Lead a platform team") || !strings.Contains(out, "not yet synced") {
		t.Errorf("draft not shown:\n%s", out)
	}

	if err := env.run(t, "", "profile", "edit", "--discard"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := env.run(t, "", "profile", "show"); err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(env.out.String(), "Become a backend engineer") {
		t.Errorf("expected server value after discard:\n%s", env.out.String())
	}
}

// A second account on the same data directory must not see the first
// account's drafts or history.
func TestLocalData_NotSharedAcrossAccounts(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "profile", "edit", "--goals", "Ada private goal"); err != nil {
		t.Fatalf("profile edit: %v", err)
	}
	if err := env.run(t, "", "assessment", "take", "--answers", "1,0,2"); err != nil {
		t.Fatalf("assessment take: %v", err)
	}
	if err := env.run(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	bob := apitest.DefaultFixtures()
	bob.User = api.User{ID: 2, Email: "bob@example.com", FullName: "Bob Builder", CareerGoals: "Bob server goal"}
	env.srv = apitest.New(t, bob)

	if err := env.run(t, "", "profile", "show"); err != nil {
		t.Fatalf("profile show: %v", err)
	}
	out := env.out.String()
	if strings.Contains(out, "Ada private goal") || strings.Contains(out, "not yet synced") {
		t.Errorf("previous account's draft leaked:\n%s", out)
	}
	if !strings.Contains(out, "Bob server goal") {
		t.Errorf("expected Bob's own goals:\n%s", out)
	}

	if err := env.run(t, "", "assessment", "history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(env.out.String(), "No assessments taken yet.") {
		t.Errorf("previous account's history leaked:\n%s", env.out.String())
	}
}

func TestProfileEdit_EmptyInputCancels(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "\n", "profile", "edit"); err != nil {
		t.Fatalf("profile edit: %v", err)
	}
	if err := env.run(t, "", "profile", "show", "--json"); err != nil {
		t.Fatalf("profile show: %v", err)
	}
	var u struct {
		CareerGoals string `json:"career_goals"`
	}
	if err := json.Unmarshal(env.out.Bytes(), &u); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if u.CareerGoals != "Become a backend engineer" {
		t.Errorf("career goals = %q", u.CareerGoals)
	}
}

func TestProfileEdit_ClosedInputCancels(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "profile", "edit"); err != nil {
		t.Fatalf("profile edit on closed stdin: %v", err)
	}
	if err := env.run(t, "", "profile", "show"); err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if strings.Contains(env.out.String(), "not yet synced") {
		t.Errorf("no draft expected:\n%s", env.out.String())
	}
}

func TestNav_HighlightsRoute(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "nav", "jobs"); err != nil {
		t.Fatalf("nav: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "[Jobs]") || !strings.Contains(out, "* /jobs") {
		t.Errorf("jobs not active:\n%s", out)
	}
	if !strings.Contains(out, "350 points") {
		t.Errorf("points missing:\n%s", out)
	}
}

func TestConfigSet(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())
	var gotKey, gotValue string
	orig := setConfigKey
	setConfigKey = func(k, v string) error { gotKey, gotValue = k, v; return nil }
	t.Cleanup(func() { setConfigKey = orig })

	if err := env.run(t, "", "config", "set", "api.base_url", "http://x/api"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if gotKey != "api.base_url" || gotValue != "http://x/api" {
		t.Errorf("set %q=%q", gotKey, gotValue)
	}
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(env.out.String(), "careernav version") {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestListings_Filters(t *testing.T) {
	env := newCLIEnv(t, apitest.DefaultFixtures())

	if err := env.run(t, "", "courses", "--difficulty", "beginner"); err != nil {
		t.Fatalf("courses: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "Python Fundamentals") || !strings.Contains(out, "SQL for Analysts") {
		t.Errorf("beginner courses missing:\n%s", out)
	}
	if strings.Contains(out, "Machine Learning Basics") {
		t.Errorf("advanced course should be filtered:\n%s", out)
	}

	if err := env.run(t, "", "jobs", "--min-score", "60"); err != nil {
		t.Fatalf("jobs: %v", err)
	}
	out = env.out.String()
	if strings.Count(out, "% match") != 2 || strings.Contains(out, "Backend Engineer") {
		t.Errorf("expected the two 100%% matches only:\n%s", out)
	}

	if err := env.run(t, "", "leaderboard", "--limit", "3"); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	out = env.out.String()
	if !strings.Contains(out, "Alan Turing") || strings.Contains(out, "Edsger Dijkstra") {
		t.Errorf("expected top 3 only:\n%s", out)
	}
}
