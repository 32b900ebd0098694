package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/graphkit/marquee/pkg/geom"
	"github.com/graphkit/marquee/pkg/graph"
	"github.com/graphkit/marquee/pkg/layout"
	"github.com/graphkit/marquee/pkg/selection"
)

// Demo canvas styles.
var (
	styleNode         = lipgloss.NewStyle().Foreground(colorCyan)
	styleNodeSelected = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleMarquee      = lipgloss.NewStyle().Background(lipgloss.Color("60"))
)

const statusLines = 2

// demoCommand creates the interactive selection demo command.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		optionsFile string
		modifier    string
		live        bool
		complete    bool
		engine      string
	)

	cmd := &cobra.Command{
		Use:   "demo [graph.json]",
		Short: "Interactive terminal demo of drag selection",
		Long: `Demo renders a graph on a terminal canvas and attaches the selection
tool to it. Hold the modifier key (shift by default) and drag with the
left mouse button to select nodes.

Without a graph file a small built-in ring graph is used.`,
		Example: `  marquee demo
  marquee demo graph.json --live
  marquee demo graph.json --modifier ctrl --complete`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := demoGraph(args)
			if err != nil {
				return err
			}
			if err := layout.Compute(cmd.Context(), g, layout.Options{Engine: engine}); err != nil {
				return err
			}

			opts := selection.Options{}
			if optionsFile != "" {
				opts, err = selection.OptionsFromTOML(optionsFile)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("modifier") {
				opts.Modifier = selection.ModifierKey(modifier)
			}
			if cmd.Flags().Changed("live") {
				opts.LiveSelection = live
			}
			if cmd.Flags().Changed("complete") {
				opts.SelectOnlyComplete = complete
			}
			opts.Logger = c.Logger

			model := newDemoModel(g, opts)
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = prog.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&optionsFile, "options", "", "TOML options file")
	cmd.Flags().StringVar(&modifier, "modifier", "shift", "drag modifier: shift, ctrl, alt, or none")
	cmd.Flags().BoolVar(&live, "live", false, "hit-test on every move instead of on release")
	cmd.Flags().BoolVar(&complete, "complete", false, "require full containment instead of intersection")
	cmd.Flags().StringVar(&engine, "engine", "", "graphviz layout engine for unpositioned graphs")

	return cmd
}

// demoGraph loads the graph file or builds the built-in ring.
func demoGraph(args []string) (*graph.Graph, error) {
	if len(args) == 1 {
		return graph.ReadFile(args[0])
	}

	g := graph.New()
	const n = 12
	for i := 0; i < n; i++ {
		node := graph.Node{ID: fmt.Sprintf("n%d", i), Size: 5}
		angle := 2 * math.Pi * float64(i) / n
		node.SetPosition(geom.Point{
			X: 100 + 80*math.Cos(angle),
			Y: 100 + 80*math.Sin(angle),
		})
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if err := g.AddEdge(graph.Edge{
			Source: fmt.Sprintf("n%d", i),
			Target: fmt.Sprintf("n%d", (i+1)%n),
		}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// demoModel is the bubbletea model hosting the selection tool.
type demoModel struct {
	g        *graph.Graph
	surface  *teaSurface
	tool     *selection.Tool
	selected map[string]bool

	width  int
	height int
}

func newDemoModel(g *graph.Graph, opts selection.Options) *demoModel {
	m := &demoModel{
		g:        g,
		surface:  newTeaSurface(g),
		selected: make(map[string]bool),
	}
	m.surface.onSelect = func(ids []string) {
		clear(m.selected)
		for _, id := range ids {
			m.selected[id] = true
		}
	}
	m.tool = selection.New(m.surface, opts)
	return m
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.tool.Teardown()
			return m, tea.Quit
		case "c":
			clear(m.selected)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bounds, _ := m.g.Bounds()
		m.surface.proj.fit(bounds, m.width, m.canvasHeight())

	case tea.MouseMsg:
		ev := selection.PointerEvent{
			Pos: geom.Point{X: float64(msg.X), Y: float64(msg.Y)},
			Mods: selection.Modifiers{
				Shift: msg.Shift,
				Ctrl:  msg.Ctrl,
				Alt:   msg.Alt,
			},
		}
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.surface.firePress(ev)
		case msg.Action == tea.MouseActionMotion:
			m.surface.fireMove(ev)
		case msg.Action == tea.MouseActionRelease:
			m.surface.fireRelease(ev)
		}
	}
	return m, nil
}

func (m *demoModel) canvasHeight() int {
	h := m.height - statusLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m *demoModel) View() string {
	if m.width == 0 {
		return ""
	}

	canvasH := m.canvasHeight()
	nodes := m.nodeCells()
	overlay := m.surface.overlay

	var b strings.Builder
	for y := 0; y < canvasH; y++ {
		for x := 0; x < m.width; x++ {
			inOverlay := overlay.visible && overlay.rect.ContainsPoint(geom.Point{X: float64(x), Y: float64(y)})

			if id, ok := nodes[cell{x, y}]; ok {
				style := styleNode
				if m.selected[id] {
					style = styleNodeSelected
				}
				if inOverlay {
					style = style.Background(styleMarquee.GetBackground())
				}
				b.WriteString(style.Render("●"))
				continue
			}

			if inOverlay {
				b.WriteString(styleMarquee.Render(" "))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine())
	return b.String()
}

type cell struct{ x, y int }

// nodeCells projects every positioned node onto the canvas grid.
func (m *demoModel) nodeCells() map[cell]string {
	cells := make(map[cell]string, m.g.Len())
	for i := range m.g.Nodes {
		n := &m.g.Nodes[i]
		p, ok := n.Position()
		if !ok {
			continue
		}
		v := m.surface.proj.GraphToViewport(p)
		x, y := int(math.Round(v.X)), int(math.Round(v.Y))
		if x < 0 || x >= m.width || y < 0 || y >= m.canvasHeight() {
			continue
		}
		cells[cell{x, y}] = n.ID
	}
	return cells
}

func (m *demoModel) statusLine() string {
	mods := string(m.tool.Options().Modifier)
	help := fmt.Sprintf("%s+drag select · c clear · q quit", mods)
	if mods == string(selection.ModifierNone) {
		help = "drag select · c clear · q quit"
	}

	status := fmt.Sprintf("%d/%d selected", len(m.selected), m.g.Len())
	if m.surface.camera.disabled {
		status += " · pan off"
	}

	return StyleTitle.Render("marquee") + "  " +
		StyleDim.Render(help) + "\n" +
		StyleValue.Render(status)
}
