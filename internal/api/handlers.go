package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/crashviz/pkg/chart"
	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/pipeline"
	"github.com/matzehuels/crashviz/pkg/records"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// SelectionResponse answers selection changes.
type SelectionResponse struct {
	Event *interact.Event `json:"event,omitempty"`
	Chart *chart.Chart    `json:"chart"`
}

// ClickRequest is a pointer click reported by the host page.
type ClickRequest struct {
	Button string `json:"button"` // primary, secondary, middle
	Target string `json:"target"` // none, category, tooltip, back
	Cause  string `json:"cause,omitempty"`
}

// ClickResponse tells the host what the click did.
type ClickResponse struct {
	Handled   bool            `json:"handled"`
	Propagate bool            `json:"propagate"`
	Event     *interact.Event `json:"event,omitempty"`
	Chart     *chart.Chart    `json:"chart,omitempty"`
}

// HoverResponse carries a placed tooltip, or none when nothing is under
// the pointer.
type HoverResponse struct {
	Tooltip *interact.Tooltip `json:"tooltip"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.recs)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": n})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.chart)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	counts := records.CountCategories(s.recs)
	s.mu.Unlock()
	if counts == nil {
		counts = []records.CategoryCount{}
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body interact.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, badRequest("invalid selection body: %v", err))
		return
	}
	var action interact.Action = interact.Reset{}
	if body.Cause != nil {
		if err := apperrors.ValidateCategoryName(*body.Cause); err != nil {
			writeError(w, err)
			return
		}
		action = interact.SelectCategory{Cause: *body.Cause}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ev := s.ctrl.Dispatch(action)
	s.respondSelection(w, ev)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ev := s.ctrl.Dispatch(interact.Reset{})
	s.respondSelection(w, ev)
}

// respondSelection writes the event and the new chart. Callers hold s.mu.
func (s *Server) respondSelection(w http.ResponseWriter, ev *interact.Event) {
	st, err := s.current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{Event: ev, Chart: st.chart})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, badRequest("invalid click body: %v", err))
		return
	}
	click, err := req.click()
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.ctrl.HandleClick(click)
	resp := ClickResponse{Handled: res.Handled, Propagate: res.Propagate, Event: res.Event}
	if res.Event != nil {
		st, err := s.current()
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Chart = st.chart
	}
	writeJSON(w, http.StatusOK, resp)
}

func (req ClickRequest) click() (interact.Click, error) {
	var c interact.Click
	switch req.Button {
	case "", "primary":
		c.Button = interact.ButtonPrimary
	case "secondary":
		c.Button = interact.ButtonSecondary
	case "middle":
		c.Button = interact.ButtonMiddle
	default:
		return c, badRequest("unknown button %q", req.Button)
	}
	switch req.Target {
	case "", "none":
		c.Target = interact.TargetNone
	case "category":
		if req.Cause != "" {
			if err := apperrors.ValidateCategoryName(req.Cause); err != nil {
				return c, err
			}
		}
		c.Target = interact.TargetCategory
		c.Cause = req.Cause
	case "tooltip":
		c.Target = interact.TargetTooltip
	case "back":
		c.Target = interact.TargetBack
	default:
		return c, badRequest("unknown target %q", req.Target)
	}
	return c, nil
}

func (s *Server) handleHoverTreemap(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		writeError(w, err)
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current()
	if err != nil {
		writeError(w, err)
		return
	}
	p := interact.Point{X: x, Y: y}
	leaf, ok := st.treemap.Resolve(p)
	if !ok {
		writeJSON(w, http.StatusOK, HoverResponse{})
		return
	}
	group := ""
	if g := leaf.Ancestor(1); g != nil {
		group = g.Name
	}
	tip := interact.TreemapTooltip(leaf, group).Place(p, st.viewport(), s.opts.Tooltip)
	writeJSON(w, http.StatusOK, HoverResponse{Tooltip: &tip})
}

func (s *Server) handleHoverSeries(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		writeError(w, err)
		return
	}
	y := 0.0
	if r.URL.Query().Has("y") {
		if y, err = floatParam(r, "y"); err != nil {
			writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current()
	if err != nil {
		writeError(w, err)
		return
	}
	iv, ok := st.series.ResolvePixel(x, st.xscale)
	if !ok {
		writeJSON(w, http.StatusOK, HoverResponse{})
		return
	}
	tip := interact.SeriesTooltip(iv, interact.Summary(st.out.Series, iv)).
		Place(interact.Point{X: x, Y: y}, st.viewport(), s.opts.Tooltip)
	writeJSON(w, http.StatusOK, HoverResponse{Tooltip: &tip})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var format string
	switch kind := chi.URLParam(r, "kind"); kind {
	case "series":
		format = pipeline.FormatSeriesSVG
	case "treemap":
		format = pipeline.FormatTreemapSVG
	default:
		writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "unknown chart kind %q", kind))
		return
	}

	s.mu.Lock()
	st, err := s.current()
	opts := s.pipelineOptions()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}
	opts.Formats = []string{format}

	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), st.chart, st.hash, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[format])
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("missing query parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest("query parameter %q is not a number: %q", name, raw)
	}
	return v, nil
}
