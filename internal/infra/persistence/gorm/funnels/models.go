package funnelsgorm

import "time"

// FunnelRecord stores a funnel definition. Steps are kept as a JSON array of
// event names; evaluation happens against the columnar store, not here.
type FunnelRecord struct {
	ID          string    `gorm:"primaryKey;size:36"`
	DashboardID string    `gorm:"column:dashboard_id;size:36;index;not null"`
	Name        string    `gorm:"size:255;not null"`
	StepsJSON   string    `gorm:"column:steps_json;type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FunnelRecord) TableName() string { return "funnels" }
