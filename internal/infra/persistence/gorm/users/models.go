package usersgorm

import "time"

type UserRecord struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	Name         string    `gorm:"size:255"`
	PasswordHash string    `gorm:"column:password_hash;size:128;not null"` // bcrypt hash
	Role         string    `gorm:"size:32;default:user"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (UserRecord) TableName() string { return "users" }
