package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read actions line by line, keeping track of the current screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			components, err := initializeAgent(ctx, cfg, observability.GetLogger())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			out := cmd.OutOrStdout()
			ag := components.Agent
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprintf(out, "rumble [%s] > ", ag.Current())
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					fmt.Fprintln(out, "Bye.")
					return nil
				}

				fmt.Fprintln(out, ag.Play(ctx, line))
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
}
