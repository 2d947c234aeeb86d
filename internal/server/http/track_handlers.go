package httpserver

import (
	"net/http"
	"time"

	"github.com/better-analytics/dashboard/internal/analytics/mq"
)

// handleTrack accepts telemetry from tracking snippets. It is the one
// unauthenticated write path; the only gate is payload shape, and the
// response never distinguishes known from unknown site ids.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var evt mq.TrackedEvent
	if err := decodeJSON(r, &evt); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if evt.SiteID == "" || evt.EventName == "" {
		writeErr(w, http.StatusBadRequest, "site_id and event_name required")
		return
	}
	if evt.EventTime.IsZero() {
		evt.EventTime = time.Now().UTC()
	}
	if err := s.queue.PublishEvent(evt); err != nil {
		s.log.Error("publish tracked event", "err", err, "site_id", evt.SiteID)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
