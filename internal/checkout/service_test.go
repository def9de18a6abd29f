package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/cart"
	"github.com/metalbaza/metalbaza-backend/internal/orders"
	"github.com/metalbaza/metalbaza-backend/internal/settings"
	"github.com/metalbaza/metalbaza-backend/internal/users"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type stubLocker struct {
	acquired bool
	err      error
	deleted  []string
}

func (l *stubLocker) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return l.acquired, l.err
}

func (l *stubLocker) Del(_ context.Context, keys ...string) error {
	l.deleted = append(l.deleted, keys...)
	return nil
}

func (l *stubLocker) LockKey(scope, id string) string {
	return "lock:" + scope + ":" + id
}

// failingOrdersRepo fails item creation to exercise rollback.
type failingOrdersRepo struct {
	orders.Repository
}

func (f *failingOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return &failingOrdersRepo{Repository: f.Repository.WithTx(tx)}
}

func (f *failingOrdersRepo) CreateItems(context.Context, []models.OrderItem) error {
	return errors.New("simulated write failure")
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.CompanySetting{},
	))
	return conn
}

type checkoutFixture struct {
	conn   *gorm.DB
	svc    Service
	userID uuid.UUID
}

func newCheckoutFixture(t *testing.T, deliveryEnabled bool) *checkoutFixture {
	t.Helper()

	conn := setupCheckoutTestDB(t)
	return newCheckoutFixtureWithRepo(t, conn, orders.NewRepository(conn), deliveryEnabled)
}

func newCheckoutFixtureWithRepo(t *testing.T, conn *gorm.DB, ordersRepo orders.Repository, deliveryEnabled bool) *checkoutFixture {
	t.Helper()

	require.NoError(t, conn.Create(&models.CompanySetting{IsDelivery: deliveryEnabled}).Error)

	user := &models.User{Phone: "+998901234567", FirstName: "Test", LastName: "User"}
	require.NoError(t, conn.Create(user).Error)

	svc, err := NewService(Options{
		CartRepo:     cart.NewRepository(conn),
		OrdersRepo:   ordersRepo,
		SettingsRepo: settings.NewRepository(conn),
		UsersRepo:    users.NewRepository(conn),
		Tx:           &gormTxRunner{db: conn},
		Logger:       logger.NewNop(),
	})
	require.NoError(t, err)

	return &checkoutFixture{conn: conn, svc: svc, userID: user.ID}
}

func (f *checkoutFixture) seedProduct(t *testing.T, price, deliveryPrice, threshold string) *models.Product {
	t.Helper()

	product := &models.Product{
		NameUz:                "Tsement M400",
		Price:                 decimal.RequireFromString(price),
		DeliveryPrice:         decimal.RequireFromString(deliveryPrice),
		FreeDeliveryThreshold: decimal.RequireFromString(threshold),
		IsAvailable:           true,
		Unit:                  "dona",
	}
	require.NoError(t, f.conn.Create(product).Error)
	return product
}

func (f *checkoutFixture) addToCart(t *testing.T, productID uuid.UUID, qty int) {
	t.Helper()
	require.NoError(t, f.conn.Create(&models.CartItem{
		UserID:    f.userID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

func (f *checkoutFixture) cartCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.CartItem{}).Where("user_id = ?", f.userID).Count(&count).Error)
	return count
}

func strPtr(s string) *string { return &s }

func TestPlaceOrderMaterializesCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	a := f.seedProduct(t, "45000", "0", "0")
	b := f.seedProduct(t, "120000", "10000", "100000")
	f.addToCart(t, a.ID, 2)
	f.addToCart(t, b.ID, 1)

	view, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		IsDelivery:      true,
		DeliveryAddress: strPtr("Tashkent, st. X"),
	}, "uz")
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, view.Status)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("210000")))
	assert.True(t, view.DeliveryAmount.IsZero(), "both lines qualify for free delivery")
	require.Len(t, view.Items, 2)

	// Cart is cleared only after the order committed.
	assert.Equal(t, int64(0), f.cartCount(t))

	// Total equals the sum of the frozen item totals.
	itemSum := decimal.Zero
	for _, item := range view.Items {
		itemSum = itemSum.Add(item.TotalPrice)
	}
	assert.True(t, view.TotalAmount.Equal(itemSum))
}

func TestPlaceOrderChargesDeliveryBelowThreshold(t *testing.T) {
	f := newCheckoutFixture(t, true)
	p := f.seedProduct(t, "10000", "5000", "50000")
	f.addToCart(t, p.ID, 4) // subtotal 40000 < 50000

	view, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		IsDelivery:      true,
		DeliveryAddress: strPtr("Tashkent"),
	}, "uz")
	require.NoError(t, err)

	assert.True(t, view.DeliveryAmount.Equal(decimal.RequireFromString("5000")))
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("40000")),
		"total_amount excludes the delivery fee")
}

func TestPlaceOrderPickupIgnoresThresholds(t *testing.T) {
	f := newCheckoutFixture(t, true)
	p := f.seedProduct(t, "10000", "5000", "50000")
	f.addToCart(t, p.ID, 1)

	view, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.NoError(t, err)

	assert.False(t, view.IsDelivery)
	assert.True(t, view.DeliveryAmount.IsZero())
	assert.Nil(t, view.DeliveryAddress)
}

func TestPlaceOrderFreezesPrices(t *testing.T) {
	f := newCheckoutFixture(t, true)
	p := f.seedProduct(t, "50000", "0", "0")
	f.addToCart(t, p.ID, 2)

	view, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.NoError(t, err)

	require.NoError(t, f.conn.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("99000")).Error)

	var items []models.OrderItem
	require.NoError(t, f.conn.Where("order_id = ?", view.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.True(t, items[0].PricePerUnit.Equal(decimal.RequireFromString("50000")),
		"order item price must not track later catalog changes")
	assert.True(t, items[0].TotalPrice.Equal(decimal.RequireFromString("100000")))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code())

	var count int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no order rows on validation failure")
}

func TestPlaceOrderMissingDeliveryAddress(t *testing.T) {
	f := newCheckoutFixture(t, true)
	p := f.seedProduct(t, "50000", "0", "0")
	f.addToCart(t, p.ID, 1)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		IsDelivery:      true,
		DeliveryAddress: strPtr("   "),
	}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMissingAddress, typed.Code())

	assert.Equal(t, int64(1), f.cartCount(t), "cart is untouched on validation failure")
}

func TestPlaceOrderDeliveryDisabledGlobally(t *testing.T) {
	f := newCheckoutFixture(t, false)
	p := f.seedProduct(t, "50000", "0", "0")
	f.addToCart(t, p.ID, 1)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		IsDelivery:      true,
		DeliveryAddress: strPtr("Tashkent"),
	}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestPlaceOrderEmptyCartReportedBeforeDeliveryGate(t *testing.T) {
	f := newCheckoutFixture(t, false)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{
		IsDelivery:      true,
		DeliveryAddress: strPtr("Tashkent"),
	}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code(),
		"an empty cart is the first validation failure, even with delivery off")
}

func TestPlaceOrderRollsBackOnWriteFailure(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	f := newCheckoutFixtureWithRepo(t, conn, &failingOrdersRepo{Repository: orders.NewRepository(conn)}, true)
	p := f.seedProduct(t, "50000", "0", "0")
	f.addToCart(t, p.ID, 2)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount, "partial order must be rolled back")
	assert.Equal(t, int64(1), f.cartCount(t), "cart survives a failed materialization")
}

func TestPlaceOrderLockConflict(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	require.NoError(t, conn.Create(&models.CompanySetting{IsDelivery: true}).Error)
	user := &models.User{Phone: "+998900000000", FirstName: "A", LastName: "B"}
	require.NoError(t, conn.Create(user).Error)

	svc, err := NewService(Options{
		CartRepo:     cart.NewRepository(conn),
		OrdersRepo:   orders.NewRepository(conn),
		SettingsRepo: settings.NewRepository(conn),
		UsersRepo:    users.NewRepository(conn),
		Tx:           &gormTxRunner{db: conn},
		Locks:        &stubLocker{acquired: false},
		Logger:       logger.NewNop(),
	})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestPlaceOrderReleasesLock(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	require.NoError(t, conn.Create(&models.CompanySetting{IsDelivery: true}).Error)
	user := &models.User{Phone: "+998900000001", FirstName: "A", LastName: "B"}
	require.NoError(t, conn.Create(user).Error)
	product := &models.Product{
		NameUz: "Armatura", Price: decimal.RequireFromString("30000"),
		IsAvailable: true, Unit: "dona",
	}
	require.NoError(t, conn.Create(product).Error)
	require.NoError(t, conn.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}).Error)

	locks := &stubLocker{acquired: true}
	svc, err := NewService(Options{
		CartRepo:     cart.NewRepository(conn),
		OrdersRepo:   orders.NewRepository(conn),
		SettingsRepo: settings.NewRepository(conn),
		UsersRepo:    users.NewRepository(conn),
		Tx:           &gormTxRunner{db: conn},
		Locks:        locks,
		Logger:       logger.NewNop(),
	})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{IsDelivery: false}, "uz")
	require.NoError(t, err)
	assert.Len(t, locks.deleted, 1, "checkout lock is released after completion")
}
