package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
)

func line(price, deliveryPrice, threshold string, qty int) models.CartItem {
	product := &models.Product{
		ID:                    uuid.New(),
		NameUz:                "Mahsulot",
		Price:                 decimal.RequireFromString(price),
		DeliveryPrice:         decimal.RequireFromString(deliveryPrice),
		FreeDeliveryThreshold: decimal.RequireFromString(threshold),
		IsAvailable:           true,
		Unit:                  "dona",
	}
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  qty,
		Product:   product,
	}
}

func TestPerLineDeliveryThreshold(t *testing.T) {
	// price=10000, threshold=50000, delivery_price=5000
	below := line("10000", "5000", "50000", 4) // subtotal 40000 < 50000
	atThreshold := line("10000", "5000", "50000", 5) // subtotal 50000 >= 50000

	quote := PriceCart([]models.CartItem{below}, true)
	assert.True(t, quote.DeliveryTotal.Equal(decimal.RequireFromString("5000")),
		"subtotal below threshold pays the product's delivery price")

	quote = PriceCart([]models.CartItem{atThreshold}, true)
	assert.True(t, quote.DeliveryTotal.IsZero(),
		"subtotal at threshold ships free")
}

func TestThresholdIsPerLineNotCartWide(t *testing.T) {
	// Two lines each below their own threshold; together they would clear
	// it. Each must still be charged independently.
	a := line("10000", "5000", "50000", 3) // 30000 < 50000
	b := line("10000", "7000", "50000", 3) // 30000 < 50000

	quote := PriceCart([]models.CartItem{a, b}, true)
	assert.True(t, quote.DeliveryTotal.Equal(decimal.RequireFromString("12000")),
		"fees are evaluated per line against each line's own subtotal")
}

func TestPickupZeroesAllFees(t *testing.T) {
	a := line("10000", "5000", "50000", 1)
	b := line("99999", "9000", "1", 1)

	quote := PriceCart([]models.CartItem{a, b}, false)
	assert.True(t, quote.DeliveryTotal.IsZero())
	assert.True(t, quote.GrandTotal.Equal(quote.ItemsTotal))
}

func TestZeroThresholdMeansAlwaysFree(t *testing.T) {
	// Defaults: delivery_price=0, free_delivery_threshold=0. Any subtotal
	// satisfies subtotal >= 0, so the fee is waived.
	a := line("45000", "0", "0", 2)

	quote := PriceCart([]models.CartItem{a}, true)
	assert.True(t, quote.DeliveryTotal.IsZero())
}

func TestMixedCartScenario(t *testing.T) {
	// A: price 45000 x2, default delivery fields.
	// B: price 120000 x1, delivery_price 10000, threshold 100000.
	a := line("45000", "0", "0", 2)
	b := line("120000", "10000", "100000", 1)

	quote := PriceCart([]models.CartItem{a, b}, true)

	assert.True(t, quote.ItemsTotal.Equal(decimal.RequireFromString("210000")))
	// B's subtotal 120000 >= 100000 ships free; A's defaults waive the fee.
	assert.True(t, quote.DeliveryTotal.IsZero())
	assert.True(t, quote.GrandTotal.Equal(decimal.RequireFromString("210000")))
}

func TestLinesWithoutProductAreSkipped(t *testing.T) {
	orphan := models.CartItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2}
	kept := line("10000", "0", "0", 1)

	quote := PriceCart([]models.CartItem{orphan, kept}, true)
	assert.Len(t, quote.Lines, 1)
	assert.True(t, quote.ItemsTotal.Equal(decimal.RequireFromString("10000")))
}
