package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/auth"
)

// --- login ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the API token",
	Long: `Log in to CareerNavigator and keep the issued token in the platform
secret store. Missing flags are prompted for on stdin.

Examples:
  careernav login --email ada@example.com
  careernav login --email ada@example.com --password "$PASSWORD"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err := askMissing(p, &email, "Email: "); err != nil {
			return err
		}
		if err := askMissing(p, &password, "Password: "); err != nil {
			return err
		}

		client, err := newAPIClient(false)
		if err != nil {
			return err
		}
		resp, err := auth.NewSession(client).Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if err := saveToken(resp.Token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}

		printSuccess("Logged in as %s", resp.User.FullName)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
}

// --- register ---

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err := askMissing(p, &name, "Full name: "); err != nil {
			return err
		}
		if err := askMissing(p, &email, "Email: "); err != nil {
			return err
		}
		if err := askMissing(p, &password, "Password: "); err != nil {
			return err
		}

		client, err := newAPIClient(false)
		if err != nil {
			return err
		}
		resp, err := auth.NewSession(client).Register(cmd.Context(), email, password, name)
		if err != nil {
			return err
		}
		if err := saveToken(resp.Token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}

		printSuccess("Welcome, %s! Run `careernav assessment take` to discover your learning style.", resp.User.FullName)
		return nil
	},
}

func init() {
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("name", "", "full name")
}

func askMissing(p *prompter, v *string, label string) error {
	if *v != "" {
		return nil
	}
	answer, err := p.ask(label)
	if err != nil {
		return fmt.Errorf("reading %s: %w", label, err)
	}
	if answer == "" {
		return fmt.Errorf("%s is required", label[:len(label)-2])
	}
	*v = answer
	return nil
}

// --- logout ---

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearToken(); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		printSuccess("Logged out")
		return nil
	},
}

// --- whoami ---

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		u, err := auth.NewSession(client).Refresh(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		printStatus(w, "Name", "%s", u.FullName)
		printStatus(w, "Email", "%s", u.Email)
		printStatus(w, "Learning style", "%s", orDash(u.LearningStyle))
		printStatus(w, "Skill level", "%s", orDash(u.SkillLevel))
		printStatus(w, "Points", "%d", u.Points)

		c, err := auth.ParseClaims(appConfig.API.Token)
		switch {
		case err == nil && !c.ExpiresAt.IsZero():
			printStatus(w, "Token expires", "%s", c.ExpiresAt.Local().Format(time.RFC1123))
		case err != nil:
			printStatus(w, "Token", "opaque")
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
