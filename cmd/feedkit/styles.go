package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/pkg/diff"
)

type stylesOptions struct {
	variant []string
	diff    bool
}

func newStylesCmd(flags *rootFlags) *cobra.Command {
	opts := &stylesOptions{}

	cmd := &cobra.Command{
		Use:   "styles <component>",
		Short: "Print the resolved style slots of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStyles(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.variant, "variant", nil, "Variant prop as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show overrides as a diff against the factory output")

	return cmd
}

func runStyles(cmd *cobra.Command, flags *rootFlags, opts *stylesOptions, name string) error {
	component, err := style.ParseComponentName(name)
	if err != nil {
		return newCommandError("resolve styles", name, err, "Component names start with a letter and use letters, digits, '.', '_' or '-'.")
	}
	variant, err := parseVariant(opts.variant)
	if err != nil {
		return newCommandError("resolve styles", "parsing --variant", err, "Pass variants as --variant density=compact.")
	}

	rt, err := bootstrap(cmd, flags, nil, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	th := rt.Themes.Current()
	resolved, err := rt.Styles.Resolve(component, variant, th)
	if err != nil {
		return newCommandError("resolve styles", name, err, fmt.Sprintf("Bound components: %s.", joinComponents(rt.Factories.Components())))
	}

	out := cmd.OutOrStdout()
	if !opts.diff {
		fmt.Fprint(out, resolved.String())
		return nil
	}

	base, err := rt.Factories.ResolveBase(component, th, variant)
	if err != nil {
		return err
	}
	patch := diff.Unified(base.String(), resolved.String(), string(component)+" (factory)", string(component)+" (resolved)")
	if patch == "" {
		fmt.Fprintf(out, "No overrides apply to %s.\n", component)
		return nil
	}
	fmt.Fprint(out, patch)
	return nil
}

func parseVariant(pairs []string) (style.Variant, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	variant := make(style.Variant, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid variant %q", pair)
		}
		variant[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return variant, nil
}

func joinComponents(names []style.ComponentName) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}
	return strings.Join(parts, ", ")
}
