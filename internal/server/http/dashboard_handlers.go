package httpserver

import (
	"net/http"

	"github.com/better-analytics/dashboard/internal/auth/gate"
)

type createDashboardRequest struct {
	Domain string `json:"domain"`
}

// handleCreateDashboard is not gated: creation is the one action that
// happens before any grant exists. It still requires a principal.
func (s *Server) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := gate.PrincipalFrom(r.Context())
	if !ok {
		writeFailure(w, gate.ErrUnauthenticated)
		return
	}
	var req createDashboardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Domain == "" {
		writeErr(w, http.StatusBadRequest, "domain required")
		return
	}
	d, err := s.dash.CreateNewDashboard(r.Context(), req.Domain, p.ID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      d.ID,
		"domain":  d.Domain,
		"site_id": d.SiteID,
	})
}

func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	p, ok := gate.PrincipalFrom(r.Context())
	if !ok {
		writeFailure(w, gate.ErrUnauthenticated)
		return
	}
	list, err := s.dash.ListForUser(r.Context(), p.ID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, d := range list {
		out = append(out, map[string]any{
			"id":      d.ID,
			"domain":  d.Domain,
			"site_id": d.SiteID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSiteID(w http.ResponseWriter, r *http.Request) {
	siteID, err := s.siteID(r.Context(), r.PathValue("id"), struct{}{})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"site_id": siteID})
}
