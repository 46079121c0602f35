package model

import "time"

// Phone login code. Sending a new code deletes any prior codes for the
// same phone.
type Otp struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"type:varchar(30);not null;index" json:"phone"`
	Code      string    `gorm:"type:varchar(10);not null" json:"-"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
