package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) moodCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "mood <mood>",
		Short: "Log how you are feeling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			msg, err := c.app.Wellness.LogMood(cmd.Context(), args[0], note)
			if msg != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

func (c *cli) meditationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meditation",
		Short: "Show meditation guidance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.app.Wellness.Meditation(cmd.Context()))
			return nil
		},
	}
}

func (c *cli) planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show your wellness plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.app.Wellness.WellnessPlan(cmd.Context()))
			return nil
		},
	}
}

func (c *cli) digestCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Show meditation guidance and the wellness plan together",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := c.app.Wellness.Digest(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(d)
			}
			fmt.Fprintf(out, "Meditation:\n%s\n\nWellness plan:\n%s\n", d.Meditation, d.Plan)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
