package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wellnest/companion/internal/session"
)

func (c *cli) chatCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message, or start an interactive conversation",
		Long: `Send one message and print the reply. Without arguments, read
messages from stdin line by line until EOF or /quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			if len(args) > 0 {
				turns, err := c.app.Dispatcher.Send(cmd.Context(), strings.Join(args, " "), language)
				if err != nil {
					return err
				}
				// The user turn is echoed by the shell already.
				printTurns(cmd.OutOrStdout(), turns[1:])
				return nil
			}
			return c.repl(cmd, language)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "reply language (default from DEFAULT_LANGUAGE)")
	return cmd
}

func (c *cli) repl(cmd *cobra.Command, language string) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}

		turns, err := c.app.Dispatcher.Send(cmd.Context(), line, language)
		if errors.Is(err, session.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		printTurns(out, turns[1:])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
