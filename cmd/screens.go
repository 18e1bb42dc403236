package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

type controlView struct {
	Keyword  string              `json:"keyword"`
	Template string              `json:"template"`
	Target   navigation.ScreenID `json:"target"`
}

type screenView struct {
	Screen   navigation.ScreenID `json:"screen"`
	Name     string              `json:"name"`
	Controls []controlView       `json:"controls"`
}

func newScreensCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "screens",
		Short: "List every screen and the controls available in the configured language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := cfg.Navigator().Options()
			if err != nil {
				return err
			}
			views, err := describeScreens(opts.Language)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(views, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			case "text", "":
				writeScreensText(cmd.OutOrStdout(), views)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func describeScreens(lang navigation.Language) ([]screenView, error) {
	registry, err := navigation.NewRegistry()
	if err != nil {
		return nil, err
	}
	var views []screenView
	for _, id := range registry.Screens() {
		screen, err := registry.Create(id)
		if err != nil {
			return nil, err
		}
		view := screenView{Screen: id, Name: id.String()}
		for _, c := range screen.ControlsFor(lang) {
			view.Controls = append(view.Controls, controlView{
				Keyword:  c.Keyword(),
				Template: string(c.Template()),
				Target:   c.Target(),
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func writeScreensText(w io.Writer, views []screenView) {
	for _, v := range views {
		fmt.Fprintf(w, "%s (%s)\n", v.Name, v.Screen.Key())
		for _, c := range v.Controls {
			fmt.Fprintf(w, "  %-16s -> %s\n", strings.TrimSpace(c.Keyword), c.Target)
		}
	}
}
