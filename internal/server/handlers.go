package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/dropkit/pkg/buildinfo"
	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/geom"
	"github.com/matzehuels/dropkit/pkg/overlay"
	"github.com/matzehuels/dropkit/pkg/placement"
)

const maxBodyBytes = 1 << 20

// engineParams overrides the configured engine per request.
type engineParams struct {
	Margin        *float64 `json:"margin,omitempty"`
	FlipPolicy    string   `json:"flip_policy,omitempty"`
	ThresholdRows int      `json:"threshold_rows,omitempty"`
	ScrollWidth   float64  `json:"scroll_width,omitempty"`
}

type placementRequest struct {
	engineParams
	Anchor   geom.Anchor   `json:"anchor"`
	Viewport geom.Viewport `json:"viewport"`
	Content  geom.Content  `json:"content"`
}

type recomputeRequest struct {
	engineParams
	Anchor   geom.Anchor         `json:"anchor"`
	Viewport geom.Viewport       `json:"viewport"`
	Prior    placement.Placement `json:"prior"`
}

type simulateRequest struct {
	engineParams
	Anchor   geom.Anchor   `json:"anchor"`
	Viewport geom.Viewport `json:"viewport"`
	Content  geom.Content  `json:"content"`

	DurationMS      *int           `json:"duration_ms,omitempty"`
	FadeFraction    *float64       `json:"fade_fraction,omitempty"`
	FrameIntervalMS *int           `json:"frame_interval_ms,omitempty"`
	HideAtMS        *int           `json:"hide_at_ms,omitempty"`
	ResizeAtMS      *int           `json:"resize_at_ms,omitempty"`
	ResizeTo        *geom.Viewport `json:"resize_to,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handlePlacement(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if !s.decode(w, r, &req) {
		return
	}
	eng, err := s.engine(req.engineParams)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := eng.ComputeInitial(req.Anchor, req.Viewport, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validatePrior(req.Prior); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Anchor.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Viewport.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	eng, err := s.engine(req.engineParams)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eng.Recompute(req.Anchor, req.Viewport, req.Prior))
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	eng, err := s.engine(req.engineParams)
	if err != nil {
		s.writeError(w, err)
		return
	}

	script := overlay.Script{
		Engine:        eng,
		Anchor:        req.Anchor,
		Viewport:      req.Viewport,
		Content:       req.Content,
		Duration:      s.cfg.Duration(),
		FadeFraction:  s.cfg.Transition.FadeFraction,
		FrameInterval: s.cfg.FrameInterval(),
		Logger:        s.logger,
	}
	if req.DurationMS != nil {
		script.Duration = millis(*req.DurationMS)
	}
	if req.FadeFraction != nil {
		script.FadeFraction = *req.FadeFraction
	}
	if req.FrameIntervalMS != nil {
		if *req.FrameIntervalMS < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "frame_interval_ms must be at least 1"))
			return
		}
		script.FrameInterval = millis(*req.FrameIntervalMS)
	}
	if req.HideAtMS != nil {
		d := millis(*req.HideAtMS)
		script.HideAt = &d
	}
	if req.ResizeAtMS != nil {
		if req.ResizeTo == nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "resize_at_ms requires resize_to"))
			return
		}
		if err := req.ResizeTo.Validate(); err != nil {
			s.writeError(w, err)
			return
		}
		d := millis(*req.ResizeAtMS)
		script.ResizeAt = &d
		script.ResizeTo = *req.ResizeTo
	}

	key, err := cache.Key("simulate", simulateKey{req, s.cfg.Placement, s.cfg.Transition})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		writeRaw(w, "hit", data)
		return
	}

	trace, err := overlay.Simulate(script)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := json.Marshal(trace)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.cfg.CacheTTL()); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	writeRaw(w, "miss", data)
}

// simulateKey identifies a simulation: the request plus the configured
// defaults it falls back on.
type simulateKey struct {
	Request    simulateRequest   `json:"request"`
	Placement  config.Placement  `json:"placement"`
	Transition config.Transition `json:"transition"`
}

// engine builds a placement engine from the configured defaults and the
// request's overrides.
func (s *Server) engine(p engineParams) (*placement.Engine, error) {
	margin := s.cfg.Placement.Margin
	if p.Margin != nil {
		if err := errors.ValidateNonNegative("margin", *p.Margin); err != nil {
			return nil, err
		}
		margin = *p.Margin
	}
	name := s.cfg.Placement.FlipPolicy
	if p.FlipPolicy != "" {
		name = p.FlipPolicy
	}
	rows := s.cfg.Placement.ThresholdRows
	if p.ThresholdRows > 0 {
		rows = p.ThresholdRows
	}
	policy, err := placement.PolicyByName(name, rows)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("scroll_width", p.ScrollWidth); err != nil {
		return nil, err
	}
	return placement.NewEngine(margin, placement.FixedProbe(p.ScrollWidth), policy), nil
}

func validatePrior(p placement.Placement) error {
	if err := errors.ValidatePositive("prior.item_height", p.ItemHeight); err != nil {
		return err
	}
	if err := errors.ValidatePositive("prior.requested_height", p.RequestedHeight); err != nil {
		return err
	}
	return errors.ValidateNonNegative("prior.width", p.Width)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code == errors.ErrCodeMisuse:
		return http.StatusConflict
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"code":%q}`, errors.ErrCodeInternal)
	}
}

func writeRaw(w http.ResponseWriter, cacheStatus string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(data, '\n'))
}

func millis(n int) time.Duration { return time.Duration(n) * time.Millisecond }
