package httpserver

import (
	"net/http"
	"time"

	"github.com/better-analytics/dashboard/internal/analytics"
)

// parseRange reads start/end query parameters as RFC 3339 timestamps.
// Missing or inverted bounds are rejected later by TimeRange.Normalize,
// so an absent parameter maps to the zero time here.
func parseRange(r *http.Request) (analytics.TimeRange, error) {
	var tr analytics.TimeRange
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, analytics.ErrInvalidTimeRange
		}
		tr.Start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tr, analytics.ErrInvalidTimeRange
		}
		tr.End = t
	}
	return tr, nil
}

func (s *Server) handleEventsOverview(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.eventsOverview(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleEventsCount(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	total, err := s.eventsCount(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"total": total})
}

func (s *Server) handleDailyPageViews(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.dailyPageViews(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleDailyVisitors(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.dailyVisitors(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSummaryStats(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	stats, err := s.summaryStats(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePageAnalytics(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.pageAnalytics(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGeoDistribution(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.geoDistribution(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleReferrerSources(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.referrerSources(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleReferrerTrend(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := s.referrerTrend(r.Context(), r.PathValue("id"), tr)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleVerifyTracking(w http.ResponseWriter, r *http.Request) {
	installed, err := s.verifyTracking(r.Context(), r.PathValue("id"), struct{}{})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"installed": installed})
}

func (s *Server) handleCreateFunnel(w http.ResponseWriter, r *http.Request) {
	var args createFunnelArgs
	if err := decodeJSON(r, &args); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	f, err := s.createFunnel(r.Context(), r.PathValue("id"), args)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleListFunnels(w http.ResponseWriter, r *http.Request) {
	list, err := s.listFunnels(r.Context(), r.PathValue("id"), struct{}{})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleFunnelDetails(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	f, err := s.funnelDetails(r.Context(), r.PathValue("id"), funnelDetailsArgs{
		FunnelID: r.PathValue("funnelId"),
		Range:    tr,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}
