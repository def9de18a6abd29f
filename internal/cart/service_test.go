package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/catalog"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	))
	return conn
}

func newCartService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn), logger.NewNop())
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, price string, available bool) *models.Product {
	t.Helper()

	product := &models.Product{
		NameUz:      "Tsement M400",
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
		Unit:        "dona",
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestAddItemCreatesLine(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	view, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3}, "uz")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Subtotal.Equal(decimal.RequireFromString("150000")))
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("150000")))
}

func TestAddItemMergesExistingLine(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2}, "uz")
	require.NoError(t, err)
	view, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 5}, "uz")
	require.NoError(t, err)

	require.Len(t, view.Items, 1, "adds for the same product must merge into one line")
	assert.Equal(t, 7, view.Items[0].Quantity)

	var count int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID, Quantity: 0}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInvalidQuantity, typed.Code())
}

func TestAddItemUnknownProduct(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: uuid.New(), Quantity: 1}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemUnavailableProduct(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	product := seedProduct(t, conn, "50000", false)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID, Quantity: 1}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 9}, "uz")
	require.NoError(t, err)

	view, err := svc.UpdateItem(context.Background(), userID, product.ID, UpdateItemInput{Quantity: 2}, "uz")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity, "update is absolute, not additive")
}

func TestUpdateItemMissingLine(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), product.ID, UpdateItemInput{Quantity: 2}, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 1}, "uz")
	require.NoError(t, err)

	view, err := svc.RemoveItem(context.Background(), userID, product.ID, "uz")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// Removing again is a no-op, not an error.
	view, err = svc.RemoveItem(context.Background(), userID, product.ID, "uz")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestClearIsIdempotent(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 4}, "uz")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), userID))
	require.NoError(t, svc.Clear(context.Background(), userID))

	view, err := svc.GetCart(context.Background(), userID, "uz")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartReflectsLivePrices(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	userID := uuid.New()
	product := seedProduct(t, conn, "50000", true)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2}, "uz")
	require.NoError(t, err)

	require.NoError(t, conn.Model(product).Update("price", decimal.RequireFromString("60000")).Error)

	view, err := svc.GetCart(context.Background(), userID, "uz")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("120000")), "cart totals must follow live catalog prices")
}
