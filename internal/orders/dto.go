package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/internal/catalog"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// ItemView is one frozen order line. PricePerUnit is the price at
// materialization time and never tracks later catalog changes.
type ItemView struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// View is the API shape of a materialized order.
type View struct {
	ID              uuid.UUID         `json:"id"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	DeliveryAmount  decimal.Decimal   `json:"delivery_amount"`
	IsDelivery      bool              `json:"is_delivery"`
	DeliveryAddress *string           `json:"delivery_address,omitempty"`
	DeliveryDate    *time.Time        `json:"delivery_date,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	Items           []ItemView        `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// List wraps paginated orders plus the next page cursor.
type List struct {
	Orders     []View `json:"orders"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// UpdateStatusInput carries the admin status change payload.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ViewFromModel maps the persistence model to the API shape.
func ViewFromModel(order *models.Order, lang string) View {
	view := View{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		DeliveryAmount:  order.DeliveryAmount,
		IsDelivery:      order.IsDelivery,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryDate:    order.DeliveryDate,
		Notes:           order.Notes,
		Status:          order.Status,
		Items:           make([]ItemView, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		itemView := ItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			TotalPrice:   item.TotalPrice,
		}
		if item.Product != nil {
			itemView.ProductName = catalog.Localize(lang, item.Product.NameUz, item.Product.NameRu)
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}
