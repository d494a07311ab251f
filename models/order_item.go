package models

import "github.com/shopspring/decimal"

// OrderItem is a line on a placed order. Price is snapshotted from the menu
// item at order placement and never changes afterward, even if the catalog
// price does.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"-"`
	Order      *Order          `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint            `gorm:"not null" json:"menuitem"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnDelete:RESTRICT" json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_cost"`
}

// NewOrderItem builds a line for orderID from a menu item's current price.
func NewOrderItem(orderID uint, item *MenuItem, quantity int) OrderItem {
	return OrderItem{
		OrderID:    orderID,
		MenuItemID: item.ID,
		Quantity:   quantity,
		Price:      item.Price,
		TotalCost:  item.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
