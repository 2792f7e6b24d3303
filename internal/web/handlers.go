package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/report"
)

// handleHealth reports liveness only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleReady reports whether the exports can currently be loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, map[string]any{
		"status":    "ready",
		"orders":    sum.Total,
		"movements": sum.Movements,
	})
}

// handleListOrders returns analyzed orders, optionally narrowed by
// ?filter=unfinished|error, ?plant=, ?from= and ?to=.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	orders, err := s.service.FindOrders(r.Context(), f)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if orders == nil {
		orders = []core.AnalyzedOrder{}
	}
	writeJSON(w, r, orders)
}

// handleExportOrders downloads the filtered order list as CSV.
func (s *Server) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	orders, err := s.service.FindOrders(r.Context(), f)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	name := "orders"
	if f.Kind != core.FilterAll {
		name += "_" + string(f.Kind)
	}
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := report.WriteOrders(w, report.FormatCSV, orders); err != nil {
		// Headers are already sent.
		logging.FromContext(r.Context()).Error("csv export failed", "error", err, "orders", len(orders))
	}
}

// handleGetOrder returns one analyzed order with its movements.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	order, ok, err := s.service.GetAnalyzedOrder(r.Context(), orderNumber)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %q", core.ErrOrderNotFound, orderNumber), http.StatusNotFound)
		return
	}
	writeJSON(w, r, order)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, sum)
}

func (s *Server) handleListHeaders(w http.ResponseWriter, r *http.Request) {
	headers, err := s.service.ListRawHeaders(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if headers == nil {
		headers = []core.OrderHeader{}
	}
	writeJSON(w, r, headers)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.service.ListRawMovements(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if movements == nil {
		movements = []core.MaterialMovement{}
	}
	writeJSON(w, r, movements)
}

// parseFilter reads the list query parameters.
func parseFilter(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()

	kind, err := core.ParseFilterKind(q.Get("filter"))
	if err != nil {
		return core.Filter{}, err
	}
	f := core.Filter{
		Kind:  kind,
		Plant: strings.TrimSpace(q.Get("plant")),
	}

	if f.StartFrom, err = parseDateParam(q.Get("from")); err != nil {
		return core.Filter{}, err
	}
	if f.StartTo, err = parseDateParam(q.Get("to")); err != nil {
		return core.Filter{}, err
	}
	return f, nil
}

func parseDateParam(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	t, ok := core.ParseDate(v)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	return t, nil
}
