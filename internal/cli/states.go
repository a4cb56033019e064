package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/overlay"
)

type statesOptions struct {
	svg    bool
	output string
	table  bool
}

// statesCommand creates the states command, which prints the overlay state
// machine as DOT, SVG or a transition table.
func (c *CLI) statesCommand() *cobra.Command {
	opts := &statesOptions{}

	cmd := &cobra.Command{
		Use:   "states",
		Short: "Show the overlay state machine",
		Long: `Print the overlay state machine: Graphviz DOT by default, an SVG
rendering with --svg, or a table of legal transitions with --table.`,
		Example: `  dropkit states | dot -Tpng > states.png
  dropkit states --svg -o states.svg
  dropkit states --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStates(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render to SVG")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print the transition table")
	return cmd
}

func (c *CLI) runStates(ctx context.Context, opts *statesOptions) error {
	if opts.table {
		t := newTable("from", "to", "event")
		for _, e := range overlay.Edges {
			t.Row(renderState(e.From.String()), renderState(e.To.String()), e.Event)
		}
		fmt.Println(t.Render())
		return nil
	}

	data := []byte(overlay.StateGraphDOT())
	if opts.svg {
		sw := startStopwatch(c.Logger)
		spin := startSpinner(ctx, os.Stderr, "Rendering state graph...")
		svg, err := overlay.RenderStateGraphSVG(ctx)
		spin.stop()
		if err != nil {
			return fmt.Errorf("render state graph: %w", err)
		}
		sw.done("Rendered state graph", "bytes", len(svg))
		data = svg
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote state graph")
	printFile(opts.output)
	return nil
}
