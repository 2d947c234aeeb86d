package funnelsgorm

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Migrate() error { return r.db.AutoMigrate(&FunnelRecord{}) }

func (r *Repo) Create(ctx context.Context, f *FunnelRecord) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *Repo) FindByID(ctx context.Context, dashboardID, id string) (*FunnelRecord, error) {
	var f FunnelRecord
	err := r.db.WithContext(ctx).
		Where("dashboard_id = ? AND id = ?", dashboardID, id).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) ListByDashboard(ctx context.Context, dashboardID string) ([]*FunnelRecord, error) {
	var out []*FunnelRecord
	err := r.db.WithContext(ctx).
		Where("dashboard_id = ?", dashboardID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
