package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/placement"
)

// geometryFlags are shared by commands that place an overlay.
type geometryFlags struct {
	anchorLeft   float64
	anchorTop    float64
	anchorWidth  float64
	anchorHeight float64
	viewport     string
	rows         int
	itemHeight   float64
	width        float64
	scrollWidth  float64
	margin       float64
	policy       string
}

func (f *geometryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.anchorLeft, "left", 0, "anchor left edge")
	fl.Float64Var(&f.anchorTop, "top", 0, "anchor top edge")
	fl.Float64Var(&f.anchorWidth, "anchor-width", 100, "anchor width")
	fl.Float64Var(&f.anchorHeight, "anchor-height", 0, "anchor height (default: item height)")
	fl.StringVar(&f.viewport, "viewport", "", "viewport size WIDTHxHEIGHT (default: terminal size)")
	fl.IntVarP(&f.rows, "rows", "n", 10, "number of rows")
	fl.Float64Var(&f.itemHeight, "item-height", 0, "row height (default from config)")
	fl.Float64Var(&f.width, "width", 0, "natural overlay width (default: anchor width)")
	fl.Float64Var(&f.scrollWidth, "scroll-width", 0, "width reserved for a scrollbar")
	fl.Float64Var(&f.margin, "margin", -1, "page margin (default from config)")
	fl.StringVar(&f.policy, "policy", "", "flip policy: space or rows (default from config)")
	registerPolicyCompletion(cmd)
}

// resolve fills unset flags from cfg and builds the inputs for the engine.
func (f *geometryFlags) resolve(cfg *config.Config) (*placement.Engine, geom.Anchor, geom.Viewport, geom.Content, error) {
	var (
		anchor   geom.Anchor
		viewport geom.Viewport
		content  geom.Content
	)

	itemHeight := f.itemHeight
	if itemHeight == 0 {
		itemHeight = cfg.Dropdown.ItemHeight
	}
	anchorHeight := f.anchorHeight
	if anchorHeight == 0 {
		anchorHeight = itemHeight
	}
	anchor = geom.Anchor{Left: f.anchorLeft, Top: f.anchorTop, Width: f.anchorWidth, Height: anchorHeight}
	content = geom.Content{ItemHeight: itemHeight, ItemCount: f.rows, NaturalWidth: f.width}
	if f.rows <= 0 {
		return nil, anchor, viewport, content, errors.New(errors.ErrCodeInvalidInput, "--rows must be at least 1")
	}

	var err error
	if f.viewport != "" {
		viewport, err = parseSize(f.viewport)
	} else {
		viewport, err = geom.TerminalViewport(os.Stdout)
		if err != nil {
			err = fmt.Errorf("%w (pass --viewport)", err)
		}
	}
	if err != nil {
		return nil, anchor, viewport, content, err
	}

	margin := cfg.Placement.Margin
	if f.margin >= 0 {
		margin = f.margin
	}
	policyName := cfg.Placement.FlipPolicy
	if f.policy != "" {
		policyName = f.policy
	}
	policy, err := placement.PolicyByName(policyName, cfg.Placement.ThresholdRows)
	if err != nil {
		return nil, anchor, viewport, content, err
	}
	eng := placement.NewEngine(margin, placement.FixedProbe(f.scrollWidth), policy)
	return eng, anchor, viewport, content, nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (geom.Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Viewport{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return geom.Viewport{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid width in %q", s)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return geom.Viewport{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid height in %q", s)
	}
	v := geom.Viewport{Width: width, Height: height}
	if err := v.Validate(); err != nil {
		return geom.Viewport{}, err
	}
	return v, nil
}
