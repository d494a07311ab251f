package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

func TestOrderTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 2, Price: dec(t, "1.99"), TotalCost: dec(t, "3.98")},
			{Quantity: 1, Price: dec(t, "10.00"), TotalCost: dec(t, "10.00")},
		},
	}

	assert.True(t, dec(t, "13.98").Equal(order.Total()))
	assert.True(t, dec(t, "13.98").Equal(order.Subtotal()), "no discount means subtotal equals total")

	order.Discount = 50
	assert.True(t, dec(t, "6.99").Equal(order.DiscountAmount()))
	assert.True(t, dec(t, "6.99").Equal(order.Subtotal()))
}

func TestOrderDiscountRounding(t *testing.T) {
	order := Order{
		Discount: 10,
		Items: []OrderItem{
			{Quantity: 1, Price: dec(t, "3.98"), TotalCost: dec(t, "3.98")},
		},
	}

	// 10% of 3.98 is 0.398; the discount is charged in whole cents.
	assert.True(t, dec(t, "0.40").Equal(order.DiscountAmount()))
	assert.True(t, dec(t, "3.58").Equal(order.Subtotal()))
}

func TestOrderStatusPredicates(t *testing.T) {
	for _, status := range []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled} {
		assert.True(t, ValidOrderStatus(status), status)
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))

	assert.False(t, TerminalOrderStatus(OrderStatusPending))
	assert.True(t, TerminalOrderStatus(OrderStatusCompleted))
	assert.True(t, TerminalOrderStatus(OrderStatusCanceled))
}

func TestNewOrderItemSnapshotsPrice(t *testing.T) {
	item := MenuItem{ID: 7, Price: dec(t, "1.99")}

	line := NewOrderItem(42, &item, 2)

	assert.Equal(t, uint(42), line.OrderID)
	assert.Equal(t, uint(7), line.MenuItemID)
	assert.True(t, dec(t, "1.99").Equal(line.Price))
	assert.True(t, dec(t, "3.98").Equal(line.TotalCost))

	// A later catalog change does not touch the captured line.
	item.Price = dec(t, "9.99")
	assert.True(t, dec(t, "1.99").Equal(line.Price))
}
