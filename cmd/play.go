package cmd

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/rumble-cli/internal/agent"
	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// playResult is the --json form of one handled input.
type playResult struct {
	agent.Outcome
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func newPlayCmd() *cobra.Command {
	var from string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "play <words...>",
		Short: "Perform one action on the client, e.g. `rumble play find match`",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if from != "" {
				cfg.SetNavigatorStartScreen(from)
				nav := cfg.Navigator()
				if err := nav.Validate(); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}

			components, err := initializeAgent(ctx, cfg, observability.GetLogger())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			out := components.Agent.Handle(ctx, strings.Join(args, " "))
			if asJSON {
				data, err := json.MarshalIndent(playResult{Outcome: out, Message: out.Message(), Error: out.ErrorText()}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode outcome: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "screen the client is on (default from config, usually main)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full outcome as JSON")
	return cmd
}
