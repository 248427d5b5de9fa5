package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/assessment"
	"github.com/kalambet/careernav/internal/storage"
)

var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Take the learning-style assessment or review past results",
}

var assessmentTakeCmd = &cobra.Command{
	Use:   "take",
	Short: "Answer the assessment questions and get recommendations",
	Long: `Answer the assessment questions and get recommendations.

Interactive controls: enter an option number to answer and move on,
"p" for the previous question, "n" to skip ahead, "s" to submit, "q" to quit.

Examples:
  careernav assessment take
  careernav assessment take --answers 1,0,2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, _ := cmd.Flags().GetString("answers")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		flow := assessment.New(client)
		if err := flow.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading questions: %w", err)
		}
		if len(flow.Questions()) == 0 {
			return assessment.ErrNoQuestions
		}

		w := cmd.OutOrStdout()
		var results api.Results
		if preset != "" {
			results, err = answerPreset(cmd.Context(), flow, preset)
		} else {
			results, err = answerInteractive(cmd.Context(), flow, newPrompter(cmd.InOrStdin(), w))
		}
		if err != nil {
			return err
		}

		renderResults(w, results)
		recordResult(cmd.Context(), client, flow.Answers(), results)
		return nil
	},
}

func answerPreset(ctx context.Context, flow *assessment.Flow, preset string) (api.Results, error) {
	parts := strings.Split(preset, ",")
	if total := len(flow.Questions()); len(parts) > total {
		return api.Results{}, fmt.Errorf("got %d answers for %d questions", len(parts), total)
	}
	for i, p := range parts {
		opt, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return api.Results{}, fmt.Errorf("answer %d: invalid option %q", i+1, p)
		}
		if err := flow.Answer(opt); err != nil {
			return api.Results{}, fmt.Errorf("answer %d: %w", i+1, err)
		}
		if !flow.Next() {
			break
		}
	}
	results, err := flow.Submit(ctx)
	if errors.Is(err, assessment.ErrIncomplete) {
		return api.Results{}, errors.New(assessment.IncompleteWarning)
	}
	return results, err
}

func answerInteractive(ctx context.Context, flow *assessment.Flow, p *prompter) (api.Results, error) {
	total := len(flow.Questions())
	for {
		idx, q, _ := flow.Current()
		fmt.Fprintf(p.out, "\n%s  (%d/%d answered)\n", colorize(colorBold, fmt.Sprintf("Question %d of %d", idx+1, total)), flow.Answered(), total)
		fmt.Fprintf(p.out, "%s\n", q.Question)
		selected := flow.Selected(idx)
		for i, o := range q.Options {
			marker := " "
			if i == selected {
				marker = colorize(colorGreen, "●")
			}
			fmt.Fprintf(p.out, "  %s %d) %s\n", marker, i+1, o.Text)
		}

		input, err := p.ask(fmt.Sprintf("Choose 1-%d, p/n/s/q: ", len(q.Options)))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return api.Results{}, errors.New("assessment abandoned")
			}
			return api.Results{}, err
		}

		switch strings.ToLower(input) {
		case "q":
			return api.Results{}, errors.New("assessment abandoned")
		case "p":
			flow.Previous()
			continue
		case "n":
			flow.Next()
			continue
		case "s":
			results, err := flow.Submit(ctx)
			if errors.Is(err, assessment.ErrIncomplete) {
				printWarning(assessment.IncompleteWarning)
				continue
			}
			if err != nil {
				printError("Submitting assessment failed: %v", err)
				continue
			}
			return results, nil
		}

		n, err := strconv.Atoi(input)
		if err != nil {
			printWarning("Unrecognized input %q", input)
			continue
		}
		if err := flow.Answer(n - 1); err != nil {
			printWarning("%v", err)
			continue
		}
		if flow.Next() {
			continue
		}

		if flow.Answered() == total {
			results, err := flow.Submit(ctx)
			if err != nil {
				printError("Submitting assessment failed: %v", err)
				continue
			}
			return results, nil
		}
		printWarning(assessment.IncompleteWarning)
	}
}

func renderResults(w io.Writer, r api.Results) {
	printHeading(w, "Your assessment results")
	printStatus(w, "Learning style", "%s", orDash(r.LearningStyle))
	printStatus(w, "Skill level", "%s", orDash(r.SkillLevel))
	printStatus(w, "Recommended approach", "%s", orDash(r.Approach()))

	if len(r.Recommendations.Courses) == 0 {
		return
	}
	title := "Recommended courses"
	if r.Recommendations.AIGenerated {
		title += " (AI generated)"
	}
	printHeading(w, title)
	for _, c := range r.Recommendations.Courses {
		fmt.Fprintf(w, "  • %s  %s\n", colorize(colorBold, c.Title), strings.Join(nonEmpty(c.Difficulty, c.Duration), " · "))
		if c.Description != "" {
			fmt.Fprintf(w, "    %s\n", truncate(c.Description, 160))
		}
		if len(c.Skills) > 0 {
			fmt.Fprintf(w, "    Skills: %s\n", strings.Join(c.Skills, ", "))
		}
	}
}

func nonEmpty(ss ...string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// recordResult keeps a local history entry. Failures only warn; the results
// were already shown.
func recordResult(ctx context.Context, client *api.Client, answers []api.Answer, results api.Results) {
	userID, err := currentUserID(ctx, client)
	if err != nil {
		printWarning("Could not record result: %v", err)
		return
	}
	rec, err := storage.NewAssessmentResult(userID, answers, results, now())
	if err != nil {
		printWarning("Could not record result: %v", err)
		return
	}
	store, err := openStore()
	if err != nil {
		printWarning("Could not record result: %v", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveAssessmentResult(rec); err != nil {
		printWarning("Could not record result: %v", err)
	}
}

var assessmentHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List past assessment results, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		userID, err := currentUserID(cmd.Context(), client)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if len(args) == 1 {
			rec, err := store.GetAssessmentResult(userID, args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no assessment result %q", args[0])
			}
			if err != nil {
				return err
			}
			results, err := rec.Results()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Taken %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
			renderResults(w, results)
			return nil
		}

		records, err := store.ListAssessmentResults(userID, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(w, "No assessments taken yet.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(w, "%s  %s  %-12s %-12s %s\n",
				colorize(colorCyan, r.ID),
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.LearningStyle,
				r.SkillLevel,
				truncate(r.RecommendedApproach, 60),
			)
		}
		return nil
	},
}

var assessmentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a result from the local history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		userID, err := currentUserID(cmd.Context(), client)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteAssessmentResult(userID, args[0]); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no assessment result %q", args[0])
			}
			return err
		}
		printSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	assessmentTakeCmd.Flags().String("answers", "", "comma-separated option indexes (0-based) to submit without prompting")
	assessmentHistoryCmd.Flags().Int("limit", 20, "maximum number of results to list (0 for all)")
	assessmentCmd.AddCommand(assessmentTakeCmd)
	assessmentCmd.AddCommand(assessmentHistoryCmd)
	assessmentCmd.AddCommand(assessmentDeleteCmd)
}
