package model

import "time"

// Shipping address.
// At most one address per user has IsDefault = true; the first address a
// user creates is defaulted automatically.
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//"Home", "Office" etc.
	Label string `gorm:"type:varchar(100);not null" json:"label"`

	Street  string `gorm:"type:varchar(255);not null" json:"street"`
	City    string `gorm:"type:varchar(100);not null" json:"city"`
	State   string `gorm:"type:varchar(100);not null" json:"state"`
	Pincode string `gorm:"type:varchar(20);not null" json:"pincode"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`

	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
