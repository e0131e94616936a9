package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wellnest/companion/internal/domain"
	"gopkg.in/yaml.v3"
)

type statusReport struct {
	Mode            domain.AuthMode `json:"mode" yaml:"mode"`
	AwaitingReply   bool            `json:"awaiting_reply" yaml:"awaiting_reply"`
	Turns           int             `json:"turns" yaml:"turns"`
	CredentialStore string          `json:"credential_store" yaml:"credential_store"`
	Backend         string          `json:"backend" yaml:"backend"`
}

func (c *cli) statusCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := c.app.Session.View()
			report := statusReport{
				Mode:            view.Mode,
				AwaitingReply:   view.AwaitingReply,
				Turns:           len(view.Turns),
				CredentialStore: c.app.Config.CredentialStore,
				Backend:         c.app.Config.BackendURL,
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(report)
			case "text", "":
				fmt.Fprintf(out, "mode:             %s\n", report.Mode)
				fmt.Fprintf(out, "credential store: %s\n", report.CredentialStore)
				fmt.Fprintf(out, "backend:          %s\n", report.Backend)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}
