package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unlockgrowth/intake/internal/chat"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [question...]",
		Short: "Ask the intake assistant a question; with no question it prints the greeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant := chat.NewAssistant()

			reply := assistant.Greeting()
			if question := strings.TrimSpace(strings.Join(args, " ")); question != "" {
				reply = assistant.Reply(question)
			}

			w := cmd.OutOrStdout()

			if _, err := fmt.Fprintln(w, reply.Content); err != nil {
				return err
			}

			for _, s := range reply.Suggestions {
				if _, err := fmt.Fprintf(w, "  - %s\n", s); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
