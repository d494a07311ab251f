package models

import "time"

// Cart is a per-customer container for pending lines. There is at most one
// cart per customer; it is created lazily on first use and survives checkout
// (only its lines are cleared).
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"uniqueIndex;not null" json:"customer_id"`
	Customer   *User      `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}
