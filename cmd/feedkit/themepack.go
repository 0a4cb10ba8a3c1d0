package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feedkit/feedkit/internal/config"
	"github.com/feedkit/feedkit/internal/themepack"
)

func newThemePackCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "themepack",
		Short:   "Manage installed theme packs",
		Aliases: []string{"packs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newThemePackInstallCmd(flags))
	cmd.AddCommand(newThemePackListCmd(flags))
	cmd.AddCommand(newThemePackRemoveCmd(flags))

	return cmd
}

func openIndex(flags *rootFlags) (*config.Config, *themepack.Index, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	idx, err := themepack.OpenIndex(cfg.PackIndexPath())
	if err != nil {
		return nil, nil, newCommandError("open theme pack index", cfg.PackIndexPath(), err, "Check pack_dir permissions and try again.")
	}
	return cfg, idx, nil
}

func newThemePackInstallCmd(flags *rootFlags) *cobra.Command {
	opts := themepack.FetchOptions{}

	cmd := &cobra.Command{
		Use:   "install <git-url>",
		Short: "Clone a repository of theme packs and install them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, idx, err := openIndex(flags)
			if err != nil {
				return err
			}

			installed, err := themepack.Install(cmd.Context(), idx, cfg.PackDir, args[0], opts)
			if err != nil {
				return newCommandError("install theme packs", args[0], err, "Check the URL and that the repository contains .yaml or .toml packs.")
			}
			for _, pack := range installed {
				fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s\n", pack.Name, pack.Version)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Branch to check out")
	cmd.Flags().IntVar(&opts.Depth, "depth", 1, "Clone depth (0 for full history)")

	return cmd
}

func newThemePackListCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed theme packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := openIndex(flags)
			if err != nil {
				return err
			}

			packs := idx.List()
			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(packs)
			}
			if len(packs) == 0 {
				fmt.Fprintln(out, "No theme packs installed.")
				fmt.Fprintln(out, "\nRun 'feedkit themepack install <git-url>' to add one.")
				return nil
			}

			writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "NAME\tVERSION\tCOMMIT\tURL")
			for _, pack := range packs {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", pack.Name, pack.Version, shortCommit(pack.Commit), pack.URL)
			}
			return writer.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newThemePackRemoveCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Short:   "Remove an installed theme pack",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx, err := openIndex(flags)
			if err != nil {
				return err
			}
			if err := themepack.Uninstall(idx, args[0]); err != nil {
				return newCommandError("remove theme pack", args[0], err, "Run 'feedkit themepack list' to see installed packs.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	return cmd
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return valueOrFallback(commit, "-")
}
