package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/store"
)

// graphsCommand creates the graph store management command.
func (c *CLI) graphsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage the local graph store",
	}

	cmd.AddCommand(c.graphsAddCommand())
	cmd.AddCommand(c.graphsListCommand())
	cmd.AddCommand(c.graphsShowCommand())
	cmd.AddCommand(c.graphsDeleteCommand())

	return cmd
}

// localStore opens the file-backed store under the user config directory.
func localStore() (*store.FileStore, error) {
	return store.NewFileStore("")
}

// graphsAddCommand creates the "graphs add" subcommand.
func (c *CLI) graphsAddCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <graph.json>",
		Short: "Store a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}

			st, err := localStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if name == "" {
				name = args[0]
			}
			rec := store.NewRecord(name, g)
			if err := st.Put(cmd.Context(), rec); err != nil {
				return err
			}

			printSuccess("Stored %q", name)
			printKeyValue("id", rec.ID)
			printStats(len(g.Nodes), len(g.Edges), false)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default: file path)")
	return cmd
}

// graphsListCommand creates the "graphs list" subcommand.
func (c *CLI) graphsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := localStore()
			if err != nil {
				return err
			}
			defer st.Close()

			metas, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				printInfo("No stored graphs")
				return nil
			}

			for _, m := range metas {
				fmt.Println(StyleHighlight.Render(m.ID) + "  " + StyleValue.Render(m.Name))
				printDetail("%d nodes, %d edges, updated %s", m.NodeCount, m.EdgeCount,
					m.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// graphsShowCommand creates the "graphs show" subcommand.
func (c *CLI) graphsShowCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print or export a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := localStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("graph %s not found", args[0])
			}

			if out != "" {
				if err := graph.WriteFile(rec.Graph, out); err != nil {
					return err
				}
				printSuccess("Exported %q", rec.Name)
				printFile(out)
				return nil
			}

			data, err := graph.Marshal(rec.Graph)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the graph to a file instead of stdout")
	return cmd
}

// graphsDeleteCommand creates the "graphs delete" subcommand.
func (c *CLI) graphsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := localStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
