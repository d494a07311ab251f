package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	CustomerID     uint        `gorm:"not null;index" json:"customer_id"`
	Customer       *User       `gorm:"foreignKey:CustomerID;references:ID" json:"-"`
	DeliveryCrewID *uint       `gorm:"index" json:"delivery_crew_id,omitempty"`
	DeliveryCrew   *User       `gorm:"foreignKey:DeliveryCrewID;references:ID" json:"-"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Paid           bool        `gorm:"not null;default:false" json:"paid"`
	Discount       int         `gorm:"not null;default:0" json:"discount"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether s admits no further transitions.
func TerminalOrderStatus(s string) bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// Total sums the total cost of every line on the order.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalCost)
	}
	return total
}

// DiscountAmount is Total scaled by the discount percentage, rounded to cents.
func (o *Order) DiscountAmount() decimal.Decimal {
	if o.Discount == 0 {
		return decimal.Zero
	}
	return o.Total().
		Mul(decimal.NewFromInt(int64(o.Discount))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// Subtotal is the amount due after the discount.
func (o *Order) Subtotal() decimal.Decimal {
	return o.Total().Sub(o.DiscountAmount())
}
