package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/layout"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		out      string
		engine   string
		relayout bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Assign node positions with Graphviz",
		Long: `Layout reads a node-link graph file, assigns positions to nodes that
don't have one, and writes the laid-out graph back out.

Supported engines: ` + strings.Join(layout.Engines(), ", ") + `.`,
		Example: `  marquee layout graph.json -o laid-out.json
  marquee layout graph.json -o laid-out.json --engine neato
  marquee layout graph.json -o graph.json --relayout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			lc, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer lc.Close()

			prog := newProgress(logger)
			spin := newSpinner("Computing layout...")
			spin.Start()
			err = layout.ComputeCached(cmd.Context(), g, layout.Options{
				Engine:    engine,
				Overwrite: relayout,
			}, lc, nil)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d nodes", g.Len()))

			if out == "" {
				out = args[0]
			}
			if err := graph.WriteFile(g, out); err != nil {
				return err
			}

			printSuccess("Layout complete")
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVar(&engine, "engine", "", "graphviz layout engine (default fdp)")
	cmd.Flags().BoolVar(&relayout, "relayout", false, "recompute positions even when present")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
