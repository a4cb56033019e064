package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/placement"
)

type placeOptions struct {
	geometryFlags
	resize string
	asJSON bool
}

// placeCommand creates the place command for computing a placement.
func (c *CLI) placeCommand() *cobra.Command {
	opts := &placeOptions{}

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Compute where an overlay opens for an anchor",
		Long: `Compute the initial placement of an overlay below or above its anchor.

With --resize, the placement is also recomputed for a second viewport size,
keeping its direction, as happens when the window changes while open.`,
		Example: `  # Ten 30px rows for an anchor near the bottom of a 800x540 page
  dropkit place --top 500 --anchor-width 100 --viewport 800x540

  # Use the legacy row-threshold flip policy
  dropkit place --top 400 --viewport 800x540 --policy rows

  # Terminal cells: one row per line, sized to the current terminal
  dropkit place --top 20 --item-height 1 --anchor-width 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.resize, "resize", "", "also recompute for viewport WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) runPlace(opts *placeOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	eng, anchor, viewport, content, err := opts.resolve(cfg)
	if err != nil {
		return err
	}

	initial, err := eng.ComputeInitial(anchor, viewport, content)
	if err != nil {
		return fmt.Errorf("compute placement: %w", err)
	}
	c.Logger.Debug("placed", "placement", initial.String(), "policy", eng.Policy.Name())

	result := []placement.Placement{initial}
	if opts.resize != "" {
		resized, err := parseSize(opts.resize)
		if err != nil {
			return err
		}
		result = append(result, eng.Recompute(anchor, resized, initial))
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(result) == 1 {
			return enc.Encode(result[0])
		}
		return enc.Encode(map[string]placement.Placement{"initial": result[0], "resized": result[1]})
	}

	printPlacements(content.ItemCount, result...)
	return nil
}

func printPlacements(count int, ps ...placement.Placement) {
	headers := []string{"", "initial"}
	if len(ps) > 1 {
		headers = append(headers, "resized")
	}
	t := newTable(headers...)
	field := func(name string, f func(placement.Placement) string) {
		row := []string{name}
		for _, p := range ps {
			row = append(row, f(p))
		}
		t.Row(row...)
	}
	field("direction", func(p placement.Placement) string { return StyleHighlight.Render(p.Direction()) })
	field("top", func(p placement.Placement) string { return fmt.Sprintf("%g", p.Top) })
	field("left", func(p placement.Placement) string { return fmt.Sprintf("%g", p.Left) })
	field("width", func(p placement.Placement) string { return fmt.Sprintf("%g", p.Width) })
	field("view height", func(p placement.Placement) string {
		return fmt.Sprintf("%g / %g", p.ViewHeight, p.RequestedHeight)
	})
	field("visible rows", func(p placement.Placement) string {
		return fmt.Sprintf("%d / %d", p.VisibleRows(count), count)
	})
	field("scrolls", func(p placement.Placement) string {
		if p.Scrolls {
			return StyleWarning.Render("yes")
		}
		return StyleSuccess.Render("no")
	})
	fmt.Println(t.Render())
}
