package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/internal/catalog"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
)

// AddItemInput carries the add-to-cart payload.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemInput sets an absolute quantity on an existing line.
type UpdateItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// LineView is one cart line joined with live catalog data. Subtotal is always
// live price times quantity; nothing here is frozen.
type LineView struct {
	ID        uuid.UUID           `json:"id"`
	Product   catalog.ProductView `json:"product"`
	Quantity  int                 `json:"quantity"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
}

// View is the full cart as rendered for the storefront.
type View struct {
	Items      []LineView      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// ViewFromItems assembles the cart view from joined rows. Lines whose product
// has been deleted from the catalog are skipped.
func ViewFromItems(items []models.CartItem, lang string) View {
	view := View{
		Items:    make([]LineView, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, LineView{
			ID:       item.ID,
			Product:  catalog.ProductViewFromModel(item.Product, lang),
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		view.TotalItems += item.Quantity
		view.Subtotal = view.Subtotal.Add(subtotal)
	}
	return view
}
