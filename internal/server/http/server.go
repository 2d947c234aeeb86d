// Package httpserver is the caller-facing action surface. Handlers parse
// and respond; every tenant-scoped operation goes through the auth gate,
// so no handler ever touches a site id directly.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/better-analytics/dashboard/internal/analytics"
	"github.com/better-analytics/dashboard/internal/analytics/mq"
	"github.com/better-analytics/dashboard/internal/auth/gate"
	"github.com/better-analytics/dashboard/internal/auth/rbac"
	"github.com/better-analytics/dashboard/internal/auth/session"
	"github.com/better-analytics/dashboard/internal/dashboards"
	"github.com/better-analytics/dashboard/internal/entity"
	"github.com/better-analytics/dashboard/internal/users"
)

// SessionTTL bounds how long an issued sign-in cookie stays valid.
const SessionTTL = 7 * 24 * time.Hour

type Server struct {
	sessions *session.Manager
	gate     *gate.Gate
	users    *users.Service
	dash     *dashboards.Service
	queue    mq.Queue
	log      *slog.Logger

	// gated operations, built once in New; handlers only know dashboard ids
	siteID          func(context.Context, string, struct{}) (string, error)
	eventsOverview  func(context.Context, string, analytics.TimeRange) ([]entity.EventTypeRow, error)
	eventsCount     func(context.Context, string, analytics.TimeRange) (uint64, error)
	dailyPageViews  func(context.Context, string, analytics.TimeRange) ([]entity.PageviewsCountRow, error)
	dailyVisitors   func(context.Context, string, analytics.TimeRange) ([]entity.UniqueVisitorsRow, error)
	summaryStats    func(context.Context, string, analytics.TimeRange) (entity.SummaryStats, error)
	pageAnalytics   func(context.Context, string, analytics.TimeRange) ([]entity.PageAnalytics, error)
	geoDistribution func(context.Context, string, analytics.TimeRange) ([]entity.GeoVisitor, error)
	referrerSources func(context.Context, string, analytics.TimeRange) ([]entity.ReferrerSourceAggregation, error)
	referrerTrend   func(context.Context, string, analytics.TimeRange) ([]entity.ReferrerTrafficBySourceRow, error)
	verifyTracking  func(context.Context, string, struct{}) (bool, error)
	createFunnel    func(context.Context, string, createFunnelArgs) (entity.Funnel, error)
	listFunnels     func(context.Context, string, struct{}) ([]entity.Funnel, error)
	funnelDetails   func(context.Context, string, funnelDetailsArgs) (entity.Funnel, error)

	httpSrv *http.Server
}

type createFunnelArgs struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

type funnelDetailsArgs struct {
	FunnelID string
	Range    analytics.TimeRange
}

type Deps struct {
	Sessions  *session.Manager
	Gate      *gate.Gate
	Users     *users.Service
	Dash      *dashboards.Service
	Analytics *analytics.Service
	Funnels   *analytics.FunnelService
	Queue     mq.Queue
	Log       *slog.Logger
}

func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	s := &Server{
		sessions: d.Sessions,
		gate:     d.Gate,
		users:    d.Users,
		dash:     d.Dash,
		queue:    d.Queue,
		log:      d.Log,
	}
	g, svc, fun := d.Gate, d.Analytics, d.Funnels

	s.siteID = gate.Wrap(g, rbac.PermAnalyticsRead, d.Dash.SiteID)
	s.eventsOverview = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.EventTypeRow, error) {
			return svc.CustomEventsOverview(ctx, ac.SiteID, tr)
		})
	s.eventsCount = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) (uint64, error) {
			return svc.TotalEventCount(ctx, ac.SiteID, tr)
		})
	s.dailyPageViews = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.PageviewsCountRow, error) {
			return svc.DailyPageViews(ctx, ac.SiteID, tr)
		})
	s.dailyVisitors = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.UniqueVisitorsRow, error) {
			return svc.DailyUniqueVisitors(ctx, ac.SiteID, tr)
		})
	s.summaryStats = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) (entity.SummaryStats, error) {
			return svc.SummaryStats(ctx, ac.SiteID, tr)
		})
	s.pageAnalytics = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.PageAnalytics, error) {
			return svc.PageAnalytics(ctx, ac.SiteID, tr)
		})
	s.geoDistribution = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.GeoVisitor, error) {
			return svc.GeoDistribution(ctx, ac.SiteID, tr)
		})
	s.referrerSources = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.ReferrerSourceAggregation, error) {
			return svc.ReferrerSourceAggregation(ctx, ac.SiteID, tr)
		})
	s.referrerTrend = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, tr analytics.TimeRange) ([]entity.ReferrerTrafficBySourceRow, error) {
			return svc.ReferrerTrafficBySource(ctx, ac.SiteID, tr)
		})
	s.verifyTracking = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, _ struct{}) (bool, error) {
			return svc.VerifyTrackingInstallation(ctx, ac.SiteID), nil
		})
	s.createFunnel = gate.Wrap(g, rbac.PermDashboardManage,
		func(ctx context.Context, ac entity.AuthContext, args createFunnelArgs) (entity.Funnel, error) {
			return fun.CreateFunnel(ctx, ac, args.Name, args.Steps)
		})
	s.listFunnels = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, _ struct{}) ([]entity.Funnel, error) {
			return fun.ListFunnels(ctx, ac)
		})
	s.funnelDetails = gate.Wrap(g, rbac.PermAnalyticsRead,
		func(ctx context.Context, ac entity.AuthContext, args funnelDetailsArgs) (entity.Funnel, error) {
			return fun.FunnelDetails(ctx, ac, args.FunnelID, args.Range)
		})
	return s
}

// Handler assembles the route table wrapped in session resolution,
// request metrics and tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /track", s.handleTrack)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignin)
	mux.HandleFunc("POST /api/auth/signout", s.handleSignout)

	mux.HandleFunc("POST /api/dashboards", s.handleCreateDashboard)
	mux.HandleFunc("GET /api/dashboards", s.handleListDashboards)
	mux.HandleFunc("GET /api/dashboards/{id}/site-id", s.handleSiteID)
	mux.HandleFunc("GET /api/dashboards/{id}/events/overview", s.handleEventsOverview)
	mux.HandleFunc("GET /api/dashboards/{id}/events/count", s.handleEventsCount)
	mux.HandleFunc("GET /api/dashboards/{id}/pageviews", s.handleDailyPageViews)
	mux.HandleFunc("GET /api/dashboards/{id}/visitors", s.handleDailyVisitors)
	mux.HandleFunc("GET /api/dashboards/{id}/summary", s.handleSummaryStats)
	mux.HandleFunc("GET /api/dashboards/{id}/pages", s.handlePageAnalytics)
	mux.HandleFunc("GET /api/dashboards/{id}/geography", s.handleGeoDistribution)
	mux.HandleFunc("GET /api/dashboards/{id}/referrers/sources", s.handleReferrerSources)
	mux.HandleFunc("GET /api/dashboards/{id}/referrers/trend", s.handleReferrerTrend)
	mux.HandleFunc("GET /api/dashboards/{id}/tracking/verify", s.handleVerifyTracking)
	mux.HandleFunc("POST /api/dashboards/{id}/funnels", s.handleCreateFunnel)
	mux.HandleFunc("GET /api/dashboards/{id}/funnels", s.handleListFunnels)
	mux.HandleFunc("GET /api/dashboards/{id}/funnels/{funnelId}", s.handleFunnelDetails)

	var h http.Handler = mux
	h = s.withPrincipal(h)
	h = withMetrics(h)
	return otelhttp.NewHandler(h, "dashboard")
}

// Start runs the server until ctx is canceled, then drains.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.httpSrv.ListenAndServe() }()
	s.log.Info("http server listening", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}
