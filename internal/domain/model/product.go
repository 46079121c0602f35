package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Price is in paise. Stock never goes below zero; the only writer that
// decrements it is the checkout transaction.
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Stock       int64  `gorm:"not null" json:"stock"`

	//image URLs stored as a JSON array
	ImagesJSON string `gorm:"column:images;type:text" json:"-"`

	CategoryID *int64         `gorm:"index" json:"category_id,omitempty"`
	IsActive   bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) Images() []string {
	if p.ImagesJSON == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(p.ImagesJSON), &out); err != nil {
		return []string{}
	}
	return out
}

func (p *Product) SetImages(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	b, _ := json.Marshal(urls)
	p.ImagesJSON = string(b)
}
