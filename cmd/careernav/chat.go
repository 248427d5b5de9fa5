package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/chat"
	"github.com/kalambet/careernav/internal/resume"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the CareerNavigator AI assistant",
	Long: `Talk to the CareerNavigator AI assistant.

With a message argument a single question is sent and the reply printed.
Without one an interactive session starts; type /quit or press Ctrl-D to leave.

Examples:
  careernav chat "What jobs match my current skills?"
  careernav chat --attach ./resume.pdf "How can I improve my resume?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attach, _ := cmd.Flags().GetString("attach")

		var resumeText string
		if attach != "" {
			printStep("Reading %s", attach)
			text, err := resume.ExtractText(attach)
			if err != nil {
				return err
			}
			resumeText = text
		}

		client, err := newAPIClient(true)
		if err != nil {
			return err
		}
		session := chat.NewSession(client)
		w := cmd.OutOrStdout()

		if len(args) > 0 {
			msg := resume.ComposeMessage(strings.Join(args, " "), resumeText)
			reply, err := session.Send(cmd.Context(), msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, reply.Content)
			return nil
		}

		p := newPrompter(cmd.InOrStdin(), w)
		printBotMessage(w, session.Messages()[0])
		for {
			if session.ShowQuickQuestions() {
				fmt.Fprintln(w, "\nQuick questions:")
				for i, q := range chat.QuickQuestions {
					fmt.Fprintf(w, "  %d) %s\n", i+1, q)
				}
			}

			input, err := p.ask(colorize(colorBold, "\nyou> "))
			if errors.Is(err, io.EOF) || input == "/quit" || input == "/exit" {
				fmt.Fprintln(w)
				return nil
			}
			if err != nil {
				return err
			}

			if input == "" {
				continue
			}
			if session.ShowQuickQuestions() {
				if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(chat.QuickQuestions) {
					input = chat.QuickQuestions[n-1]
					fmt.Fprintf(w, "you> %s\n", input)
				}
			}
			if resumeText != "" {
				input = resume.ComposeMessage(input, resumeText)
				resumeText = ""
			}

			printStep("Assistant is typing...")
			reply, err := session.Send(cmd.Context(), input)
			switch {
			case errors.Is(err, chat.ErrEmptyMessage):
				continue
			case err != nil:
				return err
			}
			printBotMessage(w, reply)

			if cmd.Context().Err() != nil {
				return nil
			}
		}
	},
}

func printBotMessage(w io.Writer, m chat.Message) {
	fmt.Fprintf(w, "\n%s %s\n", colorize(colorCyan, "assistant>"), m.Content)
}

func init() {
	chatCmd.Flags().String("attach", "", "PDF resume to include with the first message")
}
