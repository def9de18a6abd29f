package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return conn
}

func newOrdersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), logger.NewNop())
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:      userID,
		TotalAmount: decimal.RequireFromString("100000"),
		Status:      status,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusPending)

	view, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, view.Status)

	view, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, view.Status)

	view, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, view.Status)
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "completed"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusTerminalStatesAreFrozen(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusCancelled)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "pending"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusConfirmed)

	view, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, view.Status)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	order := seedOrder(t, conn, uuid.New(), enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusInput{Status: "shipped"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetMineScopesByOwner(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	owner := uuid.New()
	order := seedOrder(t, conn, owner, enums.OrderStatusPending)

	view, err := svc.GetMine(context.Background(), owner, order.ID, "uz")
	require.NoError(t, err)
	assert.Equal(t, order.ID, view.ID)

	_, err = svc.GetMine(context.Background(), uuid.New(), order.ID, "uz")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code(), "foreign orders look like they do not exist")
}

func TestListMinePaginates(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)
	owner := uuid.New()
	for i := 0; i < 5; i++ {
		seedOrder(t, conn, owner, enums.OrderStatusPending)
	}
	seedOrder(t, conn, uuid.New(), enums.OrderStatusPending)

	page, err := svc.ListMine(context.Background(), owner, pagination.Params{Limit: 3}, "uz")
	require.NoError(t, err)
	assert.Len(t, page.Orders, 3)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListMine(context.Background(), owner, pagination.Params{Limit: 3, Cursor: page.NextCursor}, "uz")
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 2)
	assert.Empty(t, rest.NextCursor)
}
