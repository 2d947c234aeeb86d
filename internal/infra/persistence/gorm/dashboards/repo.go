package dashboardsgorm

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Migrate() error {
	return r.db.AutoMigrate(&DashboardRecord{}, &UserDashboardRecord{})
}

// Create persists the dashboard together with the owner's access relation.
// One transaction: there is no valid state with a dashboard nobody can open.
func (r *Repo) Create(ctx context.Context, d *DashboardRecord, ownerUserID, role string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		rel := &UserDashboardRecord{UserID: ownerUserID, DashboardID: d.ID, Role: role}
		return tx.Create(rel).Error
	})
}

func (r *Repo) FindByID(ctx context.Context, id string) (*DashboardRecord, error) {
	var d DashboardRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindUserDashboard returns the access relation for (userID, dashboardID).
func (r *Repo) FindUserDashboard(ctx context.Context, userID, dashboardID string) (*UserDashboardRecord, error) {
	var rel UserDashboardRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND dashboard_id = ?", userID, dashboardID).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *Repo) FindAllForUser(ctx context.Context, userID string) ([]*DashboardRecord, error) {
	var out []*DashboardRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN user_dashboards ON user_dashboards.dashboard_id = dashboards.id").
		Where("user_dashboards.user_id = ?", userID).
		Order("dashboards.created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
