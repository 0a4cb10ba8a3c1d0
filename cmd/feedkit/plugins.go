package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feedkit/feedkit/internal/i18n"
	"github.com/feedkit/feedkit/internal/plugin"
)

type pluginsOptions struct {
	jsonOutput bool
}

func newPluginsCmd(flags *rootFlags) *cobra.Command {
	opts := &pluginsOptions{}

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Show the load state of every plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugins(cmd, flags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type pluginsJSONPayload struct {
	Version string                `json:"version"`
	Count   int                   `json:"count"`
	Loaded  int                   `json:"loaded"`
	Plugins []plugin.PluginStatus `json:"plugins"`
}

func runPlugins(cmd *cobra.Command, flags *rootFlags, opts *pluginsOptions) error {
	rt, err := bootstrap(cmd, flags, nil, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	statuses := rt.Loader.Status()
	loaded := len(rt.Loader.Loaded())
	out := cmd.OutOrStdout()

	if opts.jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(pluginsJSONPayload{
			Version: "1.0",
			Count:   len(statuses),
			Loaded:  loaded,
			Plugins: statuses,
		})
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tTITLE\tVERSION\tSTATE\tEXTENSIONS\tOVERRIDES\tERROR")
	for _, s := range statuses {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.Name,
			i18n.Humanize(s.Name),
			valueOrFallback(s.Version, "-"),
			s.State,
			s.Extensions,
			s.Overrides,
			valueOrFallback(firstLine(s.Error), "-"),
		)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, rt.Printer.Sprintf(i18n.KeyPluginSummary, loaded, len(statuses)))
	return nil
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
