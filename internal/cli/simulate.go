package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/overlay"
)

type simulateOptions struct {
	geometryFlags
	duration time.Duration
	fade     float64
	frame    time.Duration
	hideAt   time.Duration
	resizeAt time.Duration
	resizeTo string
	asJSON   bool
}

// simulateCommand creates the simulate command, which runs one open/close
// cycle on a virtual clock and prints every frame.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the frames of an open/close cycle",
		Long: `Run one overlay cycle on a virtual clock and print what the surface
receives each frame: state, progress, box, shadow, preview fade and per-row
progress.

--hide-at reverses the transition at that time; hiding during the opening
animation continues backward from wherever it got to. --resize-at swaps the
viewport for --resize-to, forcing an opening overlay open first.`,
		Example: `  # Open, then close after half a second
  dropkit simulate --top 500 --viewport 800x540 --hide-at 500ms

  # Hide mid-animation
  dropkit simulate --top 100 --viewport 800x600 --hide-at 80ms

  # Resize while opening
  dropkit simulate --top 100 --viewport 800x600 --resize-at 50ms --resize-to 800x250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd, opts)
		},
	}

	opts.register(cmd)
	fl := cmd.Flags()
	fl.DurationVar(&opts.duration, "duration", 0, "transition duration (default from config)")
	fl.Float64Var(&opts.fade, "fade", 0, "preview fade fraction (default from config)")
	fl.DurationVar(&opts.frame, "frame", 0, "frame interval (default from config)")
	fl.DurationVar(&opts.hideAt, "hide-at", 0, "hide the overlay at this time")
	fl.DurationVar(&opts.resizeAt, "resize-at", 0, "resize the viewport at this time")
	fl.StringVar(&opts.resizeTo, "resize-to", "", "viewport size WIDTHxHEIGHT after --resize-at")
	fl.BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	eng, anchor, viewport, content, err := opts.resolve(cfg)
	if err != nil {
		return err
	}

	script := overlay.Script{
		Engine:        eng,
		Anchor:        anchor,
		Viewport:      viewport,
		Content:       content,
		Duration:      cfg.Duration(),
		FadeFraction:  cfg.Transition.FadeFraction,
		FrameInterval: cfg.FrameInterval(),
		Logger:        loggerFrom(cmd.Context()),
	}
	if opts.duration > 0 {
		script.Duration = opts.duration
	}
	if opts.fade > 0 {
		script.FadeFraction = opts.fade
	}
	if opts.frame > 0 {
		script.FrameInterval = opts.frame
	}
	if cmd.Flags().Changed("hide-at") {
		script.HideAt = &opts.hideAt
	}
	if cmd.Flags().Changed("resize-at") {
		if opts.resizeTo == "" {
			return fmt.Errorf("--resize-at requires --resize-to")
		}
		to, err := parseSize(opts.resizeTo)
		if err != nil {
			return err
		}
		script.ResizeAt = &opts.resizeAt
		script.ResizeTo = to
	}

	trace, err := overlay.Simulate(script)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trace)
	}
	printTrace(trace)
	return nil
}

func printTrace(tr overlay.Trace) {
	if len(tr.Samples) == 0 {
		printInfo("nothing to show")
		return
	}
	t := newTable("t", "event", "state", "progress", "box", "shadow", "preview", "rows")
	for _, s := range tr.Samples {
		t.Row(
			fmt.Sprintf("%.0fms", s.AtMS),
			s.Event,
			renderState(s.State),
			progressBar(s.Progress, 10)+fmt.Sprintf(" %.2f", s.Progress),
			fmt.Sprintf("%.0f,%.0f %.0fx%.0f", s.Box.Left, s.Box.Top, s.Box.Width, s.Box.Height),
			fmt.Sprintf("%.2f", s.Shadow),
			fmt.Sprintf("%.2f", s.PreviewFade),
			rowBars(s.Rows),
		)
	}
	fmt.Println(t.Render())

	printInfo("cycle %s", StyleDim.Render(tr.CycleID))
	printDetail("initial: %s", tr.Initial.String())
	if tr.Final != tr.Initial {
		printDetail("final:   %s", tr.Final.String())
	}
	printSuccess("%s after %d frames (opened %d, closed %d)",
		renderState(tr.FinalState), len(tr.Samples), tr.Opens, tr.Closes)
}
