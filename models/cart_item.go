package models

import "github.com/shopspring/decimal"

// CartItem is one line in a customer's cart. A cart holds at most one line
// per menu item, enforced by the composite unique index.
type CartItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CartID     uint            `gorm:"not null;uniqueIndex:idx_cart_menuitem" json:"-"`
	Cart       *Cart           `gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint            `gorm:"not null;uniqueIndex:idx_cart_menuitem" json:"menuitem"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnDelete:CASCADE" json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Reprice snapshots the given unit price onto the line and recomputes the
// line total. Called on every upsert, so a menu price change only reaches a
// line when it is written again.
func (ci *CartItem) Reprice(unitPrice decimal.Decimal) {
	ci.UnitPrice = unitPrice
	ci.Price = unitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
