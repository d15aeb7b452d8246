package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/seenimoa/quantsignal/internal/metrics"
	"github.com/seenimoa/quantsignal/internal/report"
	"github.com/seenimoa/quantsignal/internal/signals"
)

// errInvalidControls marks malformed dashboard input.
var errInvalidControls = errors.New("invalid controls")

// controls are the user inputs of one render cycle.
type controls struct {
	Sensitivity float64 // 0 selects the engine default
	Stock       string  // empty selects the first entity
}

func parseControls(v url.Values) (controls, error) {
	c := controls{Stock: strings.TrimSpace(v.Get("stock"))}
	raw := strings.TrimSpace(v.Get("sensitivity"))
	if raw == "" {
		return c, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return c, fmt.Errorf("%w: sensitivity %q is not a number", errInvalidControls, raw)
	}
	if err := signals.ValidateSensitivity(f); err != nil {
		return c, err
	}
	c.Sensitivity = f
	return c, nil
}

func (c controls) values() url.Values {
	v := url.Values{}
	if c.Sensitivity != 0 {
		v.Set("sensitivity", strconv.FormatFloat(c.Sensitivity, 'f', -1, 64))
	}
	if c.Stock != "" {
		v.Set("stock", c.Stock)
	}
	return v
}

func isBadInput(err error) bool {
	return errors.Is(err, errInvalidControls) || errors.Is(err, signals.ErrSensitivityOutOfRange)
}

// runCycle regenerates the whole table and builds the view for it.
func (s *Server) runCycle(ctx context.Context, trigger metrics.Trigger, c controls) (report.DashboardData, error) {
	table, err := s.engine.Generate(ctx, signals.GenerateOptions{Sensitivity: c.Sensitivity})
	if err != nil {
		return report.DashboardData{}, err
	}
	s.metrics.ObserveCycle(trigger, table)
	return report.BuildDashboard(table, c.Stock, s.chartCfg), nil
}

// handleDashboard runs one render cycle per request.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := parseControls(q)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	trigger := metrics.TriggerPage
	if q.Get("from") == "regenerate" {
		trigger = metrics.TriggerRegenerate
	}

	data, err := s.runCycle(r.Context(), trigger, c)
	if err != nil {
		status := http.StatusInternalServerError
		if isBadInput(err) {
			status = http.StatusBadRequest
		}
		s.renderError(w, r, status, err)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderDashboard(&buf, data); err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck
}

// handleRegenerate accepts the controls form and redirects to a fresh
// cycle, keeping the slider and selection.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", errInvalidControls, err))
		return
	}
	c, err := parseControls(r.Form)
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	v := c.values()
	v.Set("from", "regenerate")
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	evt := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		evt = hlog.FromRequest(r).Error()
	}
	evt.Err(err).Int("status", status).Msg("dashboard request failed")

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	report.RenderError(w, status, msg) //nolint:errcheck
}

// staticHandler serves embedded assets with short-lived caching.
func staticHandler(assets fs.FS) http.Handler {
	fileServer := http.FileServerFS(assets)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		fileServer.ServeHTTP(w, r)
	})
}
