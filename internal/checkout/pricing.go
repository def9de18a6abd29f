package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
)

// PricedLine is one cart line priced for materialization. UnitPrice is the
// live catalog price captured at quote time; it becomes the frozen
// price_per_unit on the order item.
type PricedLine struct {
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
}

// Quote is the full server-side pricing of a cart. GrandTotal is always
// ItemsTotal plus DeliveryTotal.
type Quote struct {
	Lines         []PricedLine
	ItemsTotal    decimal.Decimal
	DeliveryTotal decimal.Decimal
	GrandTotal    decimal.Decimal
}

// PriceCart computes the quote for the given cart lines. Lines without a
// joined product are skipped.
//
// The delivery fee is decided per line: no fee when delivery is off, no fee
// when the line subtotal reaches the product's free-delivery threshold, the
// product's flat delivery price otherwise. A zero threshold means delivery is
// always free for that product.
func PriceCart(items []models.CartItem, isDelivery bool) Quote {
	quote := Quote{
		Lines:         make([]PricedLine, 0, len(items)),
		ItemsTotal:    decimal.Zero,
		DeliveryTotal: decimal.Zero,
	}

	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}

		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		line := PricedLine{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			Subtotal:    subtotal,
			DeliveryFee: lineDeliveryFee(item.Product, subtotal, isDelivery),
		}

		quote.Lines = append(quote.Lines, line)
		quote.ItemsTotal = quote.ItemsTotal.Add(line.Subtotal)
		quote.DeliveryTotal = quote.DeliveryTotal.Add(line.DeliveryFee)
	}

	quote.GrandTotal = quote.ItemsTotal.Add(quote.DeliveryTotal)
	return quote
}

func lineDeliveryFee(product *models.Product, subtotal decimal.Decimal, isDelivery bool) decimal.Decimal {
	if !isDelivery {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(product.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return product.DeliveryPrice
}
