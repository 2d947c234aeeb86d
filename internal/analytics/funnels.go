package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/better-analytics/dashboard/internal/entity"
	funnelsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/funnels"
)

// FunnelStore is the relational capability holding funnel definitions.
type FunnelStore interface {
	Create(ctx context.Context, f *funnelsgorm.FunnelRecord) error
	FindByID(ctx context.Context, dashboardID, id string) (*funnelsgorm.FunnelRecord, error)
	ListByDashboard(ctx context.Context, dashboardID string) ([]*funnelsgorm.FunnelRecord, error)
}

// FunnelService combines relational definitions with columnar evaluation.
// Operations take the full AuthContext because a funnel is bound to a
// dashboard for storage and to a site for evaluation; both ids come from
// the same verified context.
type FunnelService struct {
	store FunnelStore
	repo  Repository
}

func NewFunnelService(store FunnelStore, repo Repository) *FunnelService {
	return &FunnelService{store: store, repo: repo}
}

// CreateFunnel validates and persists a funnel definition.
func (s *FunnelService) CreateFunnel(ctx context.Context, ac entity.AuthContext, name string, steps []string) (entity.Funnel, error) {
	f := entity.Funnel{
		ID:          uuid.NewString(),
		DashboardID: ac.DashboardID,
		Name:        name,
		Steps:       steps,
	}
	if err := entity.FunnelSchema.Validate(f); err != nil {
		return entity.Funnel{}, err
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return entity.Funnel{}, err
	}
	rec := &funnelsgorm.FunnelRecord{
		ID:          f.ID,
		DashboardID: f.DashboardID,
		Name:        f.Name,
		StepsJSON:   string(stepsJSON),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return entity.Funnel{}, fmt.Errorf("create funnel: %w", err)
	}
	f.CreatedAt = rec.CreatedAt
	return f, nil
}

// ListFunnels returns the dashboard's funnel definitions, unevaluated.
func (s *FunnelService) ListFunnels(ctx context.Context, ac entity.AuthContext) ([]entity.Funnel, error) {
	recs, err := s.store.ListByDashboard(ctx, ac.DashboardID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Funnel, 0, len(recs))
	for _, rec := range recs {
		f, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// FunnelDetails evaluates one funnel's per-step visitor counts over the
// window, against the context's site only.
func (s *FunnelService) FunnelDetails(ctx context.Context, ac entity.AuthContext, funnelID string, tr TimeRange) (entity.Funnel, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return entity.Funnel{}, err
	}
	rec, err := s.store.FindByID(ctx, ac.DashboardID, funnelID)
	if err != nil {
		return entity.Funnel{}, err
	}
	f, err := fromRecord(rec)
	if err != nil {
		return entity.Funnel{}, err
	}
	counts, err := s.repo.EvaluateFunnel(ctx, ac.SiteID, f.Steps, tr.Start, tr.End)
	if err != nil {
		return entity.Funnel{}, err
	}
	f.StepCounts = counts
	if err := entity.FunnelSchema.Validate(f); err != nil {
		return entity.Funnel{}, &DataIntegrityError{Entity: "Funnel", Err: err}
	}
	return f, nil
}

func fromRecord(rec *funnelsgorm.FunnelRecord) (entity.Funnel, error) {
	var steps []string
	if err := json.Unmarshal([]byte(rec.StepsJSON), &steps); err != nil {
		return entity.Funnel{}, &DataIntegrityError{Entity: "Funnel", Err: fmt.Errorf("steps: %w", err)}
	}
	return entity.Funnel{
		ID:          rec.ID,
		DashboardID: rec.DashboardID,
		Name:        rec.Name,
		Steps:       steps,
		CreatedAt:   rec.CreatedAt,
	}, nil
}
