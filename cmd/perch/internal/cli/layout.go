package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/perch/pkg/inspect"
)

type layoutOptions struct {
	ticks int
	json  bool
}

func newLayoutCmd() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout <scene>",
		Short: "Lay out a scene and print the resulting tree",
		Long: `Runs a scene file (YAML, TOML, or HCL) through reconciliation and layout and
prints every node with its paint order and absolute box.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			s, err := openSession(configFromContext(ctx), args[0], logger)
			if err != nil {
				return err
			}
			frame := s.run(opts.ticks)
			tree := inspect.Snapshot(s.rt)
			prog.done("layout complete", "nodes", tree.Nodes, "ticks", s.frames, "root", frame.Layout.RootSize)

			if opts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			}
			printTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 2, "number of ticks to run before printing")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the snapshot as JSON")
	return cmd
}

// printTree writes one line per node, indented by depth.
func printTree(w io.Writer, tree inspect.Tree) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("tick %d, %d nodes", tree.Tick, tree.Nodes)))
	tree.Walk(func(n *inspect.Node) {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", n.Depth))
		b.WriteString(styleType.Render(n.Type))
		if n.Key != "" {
			b.WriteString(styleKey.Render("#" + n.Key))
		}
		if n.Laid {
			fmt.Fprintf(&b, " %s (%g, %g) %gx%g",
				styleNumber.Render(fmt.Sprintf("[%d]", n.Order)),
				float64(n.Location.X), float64(n.Location.Y),
				float64(n.Size.Width), float64(n.Size.Height))
		} else {
			b.WriteString(styleDim.Render(" (not laid out)"))
		}
		var tags []string
		if n.Content != "" {
			tags = append(tags, n.Content)
		}
		if n.Fixed {
			tags = append(tags, "fixed")
		}
		if n.Filtered {
			tags = append(tags, "filtered")
		}
		if len(tags) > 0 {
			b.WriteString(styleDim.Render(" " + strings.Join(tags, ",")))
		}
		if n.Created {
			b.WriteString(styleCreated.Render(" new"))
		}
		fmt.Fprintln(w, b.String())
	})
}
