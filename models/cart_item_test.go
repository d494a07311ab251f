package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartItemReprice(t *testing.T) {
	line := CartItem{Quantity: 3}

	line.Reprice(dec(t, "2.50"))
	assert.True(t, dec(t, "2.50").Equal(line.UnitPrice))
	assert.True(t, dec(t, "7.50").Equal(line.Price))

	// Quantity changes take effect on the next reprice.
	line.Quantity = 1
	line.Reprice(dec(t, "2.50"))
	assert.True(t, dec(t, "2.50").Equal(line.Price))
}
