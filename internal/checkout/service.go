package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/cart"
	"github.com/metalbaza/metalbaza-backend/internal/notify"
	"github.com/metalbaza/metalbaza-backend/internal/orders"
	"github.com/metalbaza/metalbaza-backend/internal/settings"
	"github.com/metalbaza/metalbaza-backend/internal/users"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/metrics"
)

const defaultLockTTL = 30 * time.Second

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// locker serializes concurrent checkouts for the same user.
type locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(scope, id string) string
}

// PlaceOrderInput carries the checkout payload. All pricing is server-side;
// the client only supplies delivery details and notes.
type PlaceOrderInput struct {
	IsDelivery        bool       `json:"is_delivery"`
	DeliveryAddress   *string    `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
	DeliveryLatitude  *float64   `json:"delivery_latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	DeliveryLongitude *float64   `json:"delivery_longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	DeliveryDate      *time.Time `json:"delivery_date,omitempty"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Service materializes carts into orders.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput, lang string) (*orders.View, error)
}

type service struct {
	cartRepo     cart.Repository
	ordersRepo   orders.Repository
	settingsRepo settings.Repository
	usersRepo    users.Repository
	tx           txRunner
	locks        locker
	lockTTL      time.Duration
	metrics      *metrics.CheckoutMetrics
	notifier     *notify.Notifier
	logger       *logger.Logger
}

// Options bundles the checkout service dependencies. Locks, metrics, and
// notifier are optional; everything else is required.
type Options struct {
	CartRepo     cart.Repository
	OrdersRepo   orders.Repository
	SettingsRepo settings.Repository
	UsersRepo    users.Repository
	Tx           txRunner
	Locks        locker
	LockTTL      time.Duration
	Metrics      *metrics.CheckoutMetrics
	Notifier     *notify.Notifier
	Logger       *logger.Logger
}

// NewService builds the checkout service.
func NewService(opts Options) (Service, error) {
	if opts.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if opts.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if opts.SettingsRepo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if opts.UsersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if opts.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &service{
		cartRepo:     opts.CartRepo,
		ordersRepo:   opts.OrdersRepo,
		settingsRepo: opts.SettingsRepo,
		usersRepo:    opts.UsersRepo,
		tx:           opts.Tx,
		locks:        opts.Locks,
		lockTTL:      lockTTL,
		metrics:      opts.Metrics,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
	}, nil
}

// PlaceOrder turns the user's cart into an order in a single transaction:
// order row, frozen order items, cart clear. On any failure the cart is left
// untouched. Validation happens before any write.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput, lang string) (*orders.View, error) {
	started := time.Now()
	view, err := s.placeOrder(ctx, userID, input, lang)
	if err != nil {
		code := "INTERNAL_ERROR"
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncFailure(code)
		s.metrics.ObserveDuration("failure", time.Since(started))
		return nil, err
	}
	s.metrics.IncSuccess()
	s.metrics.ObserveDuration("success", time.Since(started))
	return view, nil
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput, lang string) (*orders.View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if s.locks != nil {
		key := s.locks.LockKey("checkout", userID.String())
		acquired, err := s.locks.SetNX(ctx, key, "1", s.lockTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
		}
		if !acquired {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
		}
		defer func() {
			if err := s.locks.Del(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Error(ctx, "release checkout lock", err)
			}
		}()
	}

	isDelivery := input.IsDelivery

	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	quote := PriceCart(items, isDelivery)
	if len(quote.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	if isDelivery {
		setting, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
		}
		if !setting.IsDelivery {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery is currently unavailable")
		}
		if input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeMissingAddress, "delivery address is required")
		}
	}

	order := &models.Order{
		UserID:         userID,
		TotalAmount:    quote.ItemsTotal,
		DeliveryAmount: quote.DeliveryTotal,
		IsDelivery:     isDelivery,
		DeliveryDate:   input.DeliveryDate,
		Notes:          input.Notes,
		Status:         enums.OrderStatusPending,
	}
	if isDelivery {
		order.DeliveryAddress = input.DeliveryAddress
		order.DeliveryLatitude = input.DeliveryLatitude
		order.DeliveryLongitude = input.DeliveryLongitude
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.ordersRepo.WithTx(tx)
		txCart := s.cartRepo.WithTx(tx)

		created, err := txOrders.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		orderItems := make([]models.OrderItem, 0, len(quote.Lines))
		for _, line := range quote.Lines {
			productID := line.ProductID
			orderItems = append(orderItems, models.OrderItem{
				OrderID:      created.ID,
				ProductID:    &productID,
				Quantity:     line.Quantity,
				PricePerUnit: line.UnitPrice,
				TotalPrice:   line.Subtotal,
			})
		}
		if err := txOrders.CreateItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := txCart.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logger.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"user_id":      userID.String(),
		"total_amount": order.TotalAmount.String(),
		"is_delivery":  isDelivery,
		"line_count":   len(quote.Lines),
	})
	s.logger.Info(ctx, "checkout.order_created")

	s.notifyOrderCreated(ctx, order, userID)

	full, err := s.ordersRepo.FindByID(ctx, order.ID)
	if err != nil {
		// The order committed; fall back to the in-memory copy.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error(ctx, "reload created order", err)
		}
		view := orders.ViewFromModel(order, lang)
		return &view, nil
	}
	view := orders.ViewFromModel(full, lang)
	return &view, nil
}

func (s *service) notifyOrderCreated(ctx context.Context, order *models.Order, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	user, err := s.usersRepo.FindByID(ctx, userID)
	if err != nil {
		user = nil
	}
	s.notifier.OrderCreated(ctx, order, user)
}
