package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feedkit/feedkit/internal/extension"
)

func newPointsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points [name]",
		Short: "List extension points and their contributions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoints(cmd, flags, args)
		},
	}

	return cmd
}

func runPoints(cmd *cobra.Command, flags *rootFlags, args []string) error {
	rt, err := bootstrap(cmd, flags, nil, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	points := rt.Extensions.Points()
	if len(args) == 1 {
		name, err := extension.ParsePointName(args[0])
		if err != nil {
			return newCommandError("list contributions", args[0], err, "Run 'feedkit points' to see the available points.")
		}
		points = []extension.PointName{name}
	}

	out := cmd.OutOrStdout()
	if len(points) == 0 {
		fmt.Fprintln(out, "No contributions registered.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "POINT\tPRIORITY\tPLUGIN\tNAME")
	for _, point := range points {
		for _, c := range rt.Extensions.Contributions(point) {
			fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n", point, c.Priority, valueOrFallback(c.Plugin, "-"), valueOrFallback(c.Name, "(unnamed)"))
		}
	}
	return writer.Flush()
}
