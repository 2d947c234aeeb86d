package dashboardsgorm

import "time"

// DashboardRecord is one tenant. SiteID partitions all columnar data and is
// immutable after creation.
type DashboardRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Domain    string    `gorm:"size:255;not null"`
	SiteID    string    `gorm:"column:site_id;size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DashboardRecord) TableName() string { return "dashboards" }

// UserDashboardRecord is the access relation consulted on every gated call.
type UserDashboardRecord struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      string    `gorm:"column:user_id;size:36;uniqueIndex:idx_user_dashboard;not null"`
	DashboardID string    `gorm:"column:dashboard_id;size:36;uniqueIndex:idx_user_dashboard;not null"`
	Role        string    `gorm:"size:32;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (UserDashboardRecord) TableName() string { return "user_dashboards" }
