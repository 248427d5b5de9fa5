package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/api"
	"github.com/kalambet/careernav/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile, skills and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		u, err := client.Profile(cmd.Context())
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		drafts, err := store.GetProfileDrafts(u.ID)
		if err != nil {
			return err
		}
		u = profile.ApplyDrafts(u, drafts)

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(u)
		}
		_, pending := drafts[profile.FieldCareerGoals]
		renderProfile(w, u, pending)
		return nil
	},
}

func renderProfile(w io.Writer, u api.User, pendingGoals bool) {
	renderHeader(w, "/profile", u)
	printHeading(w, u.FullName)
	printStatus(w, "Email", "%s", u.Email)
	printStatus(w, "Learning style", "%s", orDash(u.LearningStyle))
	printStatus(w, "Skill level", "%s", orDash(u.SkillLevel))
	printStatus(w, "Points", "%d", u.Points)
	printStatus(w, "Completed courses", "%d", u.CompletedCourses)

	goals := orDash(u.CareerGoals)
	if pendingGoals {
		goals += colorize(colorYellow, " (local edit, not yet synced)")
	}
	printStatus(w, "Career goals", "%s", goals)

	if len(u.Skills) > 0 {
		printHeading(w, "Skills")
		for _, s := range u.Skills {
			level := min(max(s.Level, 0), 5)
			fmt.Fprintf(w, "  %-24s %s%s\n", s.Name, strings.Repeat("■", level), strings.Repeat("□", 5-level))
		}
	}
	if len(u.Badges) > 0 {
		printHeading(w, "Badges")
		fmt.Fprintf(w, "  %s\n", strings.Join(u.Badges, ", "))
	}
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your career goals",
	Long: `Edit your career goals.

The API has no profile write endpoint yet, so edits are kept in the local
store and shown by "careernav profile show" until discarded.

Examples:
  careernav profile edit --goals "Become a backend engineer"
  careernav profile edit --discard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, _ := cmd.Flags().GetString("goals")
		discard, _ := cmd.Flags().GetBool("discard")

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		u, err := client.Profile(cmd.Context())
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if discard {
			if err := store.ClearProfileDraft(u.ID, profile.FieldCareerGoals); err != nil {
				return err
			}
			printSuccess("Discarded local career goal edit")
			return nil
		}

		drafts, err := store.GetProfileDrafts(u.ID)
		if err != nil {
			return err
		}

		editor := profile.NewEditor(profile.ApplyDrafts(u, drafts), profile.DraftSaver{Store: store, UserID: u.ID})
		current := editor.BeginEdit()

		if !cmd.Flags().Changed("goals") {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			fmt.Fprintf(p.out, "Current career goals: %s\n", orDash(current))
			goals, err = p.ask("New career goals (empty to cancel): ")
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if goals == "" {
				editor.Cancel()
				printWarning("Edit cancelled")
				return nil
			}
		}

		if err := editor.SetDraft(goals); err != nil {
			return err
		}
		if err := editor.Save(cmd.Context()); err != nil {
			return err
		}
		printSuccess("Career goals updated: %s", editor.Profile().CareerGoals)
		return nil
	},
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "print the profile as JSON")
	profileEditCmd.Flags().String("goals", "", "new career goals")
	profileEditCmd.Flags().Bool("discard", false, "drop the local career goal edit")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
}
