package usersgorm

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Migrate() error { return r.db.AutoMigrate(&UserRecord{}) }

func (r *Repo) Create(ctx context.Context, u *UserRecord) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var u UserRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*UserRecord, error) {
	var u UserRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
