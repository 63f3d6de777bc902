package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tabstat/adapters/stats/plotdata"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
	"tabstat/internal/compute"
	"tabstat/internal/errors"
	"tabstat/internal/present"
)

type statusResponse struct {
	Status   string            `json:"status"`
	Loaded   bool              `json:"loaded"`
	Metadata *dataset.Metadata `json:"metadata,omitempty"`
	Numeric  []string          `json:"numeric,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: s.session.Status()}
	if snap, ok := s.session.Current(); ok {
		meta := snap.Meta
		resp.Loaded = true
		resp.Metadata = &meta
		resp.Numeric = snap.Set.Names()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type loadRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleLoadTable(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		s.writeError(w, errors.InvalidInput("source is required"))
		return
	}

	snap, err := s.session.Load(r.Context(), req.Source)
	if err != nil {
		s.writeError(w, err)
		return
	}
	meta := snap.Meta
	s.writeJSON(w, http.StatusCreated, statusResponse{
		Status:   s.session.Status(),
		Loaded:   true,
		Metadata: &meta,
		Numeric:  snap.Set.Names(),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	page, err := intParam(r, "page", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	size, err := intParam(r, "size", dataset.DefaultPageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap.Table.Page(page, size))
}

func (s *Server) handleAllStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	results, err := s.runner.RunSync(r.Context(), snap.Set, domainstats.All())
	if err != nil {
		s.writeError(w, err)
		return
	}
	views, err := snap.Views(results)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStat(w http.ResponseWriter, r *http.Request) {
	statistic, err := domainstats.ParseStatistic(chi.URLParam(r, "statistic"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	results, err := s.runner.RunSync(r.Context(), snap.Set, []domainstats.Statistic{statistic})
	if err != nil {
		s.writeError(w, err)
		return
	}
	views, err := snap.Views(results)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view := views[0]

	column := r.URL.Query().Get("column")
	if column == "" {
		s.writeJSON(w, http.StatusOK, view)
		return
	}
	if !snap.Set.Has(column) {
		s.writeError(w, errors.UnsupportedColumn(column))
		return
	}
	if view.Columns == nil {
		s.writeError(w, errors.InvalidInput("column filter applies to per-column statistics"))
		return
	}
	entry, _ := view.Columns.Get(column)
	s.writeJSON(w, http.StatusOK, entry)
}

type submitRequest struct {
	Statistics []string `json:"statistics"`
	Channel    string   `json:"channel"`
}

type submitResponse struct {
	RequestID string `json:"request_id"`
	Channel   string `json:"channel"`
}

// handleSubmitStats starts an asynchronous computation and streams the
// outcome to /api/events. A newer submission supersedes older ones.
func (s *Server) handleSubmitStats(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid request body"))
		return
	}
	statistics := domainstats.All()
	if len(req.Statistics) > 0 {
		statistics = make([]domainstats.Statistic, 0, len(req.Statistics))
		for _, name := range req.Statistics {
			st, err := domainstats.ParseStatistic(name)
			if err != nil {
				s.writeError(w, err)
				return
			}
			statistics = append(statistics, st)
		}
	}
	if req.Channel == "" {
		req.Channel = DefaultChannel
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	// The request context ends with this handler; the computation must not.
	id := s.runner.Submit(context.WithoutCancel(r.Context()), snap.Set, statistics, func(out compute.Outcome) {
		ev := OutcomeEvent{
			Channel:    req.Channel,
			RequestID:  out.RequestID,
			Superseded: out.Superseded,
			ElapsedMS:  out.Elapsed.Milliseconds(),
			Timestamp:  time.Now(),
		}
		if out.Err != nil {
			ev.Error = out.Err.Error()
		} else if views, err := snap.Views(out.Results); err != nil {
			ev.Error = err.Error()
		} else {
			ev.Views = views
		}
		s.events.Broadcast(ev)
	})
	s.writeJSON(w, http.StatusAccepted, submitResponse{RequestID: id, Channel: req.Channel})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	kind, err := plotdata.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	bins, err := intParam(r, "bins", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req := plotdata.Request{
		Kind:    kind,
		Columns: listParam(r, "columns"),
		Bins:    bins,
		Exclude: snap.MatrixExclude(),
	}
	if r.URL.Query().Has("exclude") {
		req.Exclude = listParam(r, "exclude")
	}

	series, err := snap.Preparer.Series(req, snap.Table)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if m, isMatrix := series.(domainstats.PairResult); isMatrix {
		statistic, _ := kind.Statistic()
		series = present.ShapeMatrix(statistic, m)
	}
	s.writeJSON(w, http.StatusOK, plotResponse{Request: req, Series: series})
}

type plotResponse struct {
	Request plotdata.Request `json:"request"`
	Series  interface{}      `json:"series"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	results, err := s.runner.RunSync(r.Context(), snap.Set, domainstats.All())
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := snap.Report(results)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(report.HTML())
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(name + " must be an integer")
	}
	return v, nil
}

func listParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
