package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/metalbaza/metalbaza-backend/internal/checkout"
	ordersvc "github.com/metalbaza/metalbaza-backend/internal/orders"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/pagination"
)

func newTestRouter(pattern, method string, handler http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	return r
}

type stubCheckoutService struct {
	view *ordersvc.View
	err  error
}

func (s stubCheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceOrderInput, lang string) (*ordersvc.View, error) {
	return s.view, s.err
}

type stubOrdersService struct {
	list *ordersvc.List
	view *ordersvc.View
	err  error
}

func (s stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params, lang string) (*ordersvc.List, error) {
	return s.list, s.err
}

func (s stubOrdersService) GetMine(ctx context.Context, userID, orderID uuid.UUID, lang string) (*ordersvc.View, error) {
	return s.view, s.err
}

func (s stubOrdersService) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params, lang string) (*ordersvc.List, error) {
	return s.list, s.err
}

func (s stubOrdersService) Get(ctx context.Context, orderID uuid.UUID, lang string) (*ordersvc.View, error) {
	return s.view, s.err
}

func (s stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, input ordersvc.UpdateStatusInput) (*ordersvc.View, error) {
	return s.view, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	view := &ordersvc.View{
		ID:          uuid.New(),
		TotalAmount: decimal.NewFromInt(210000),
		Status:      enums.OrderStatusPending,
	}
	handler := Checkout(stubCheckoutService{view: view}, nil)

	body := `{"is_delivery":false}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data ordersvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != view.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
	if !envelope.Data.TotalAmount.Equal(view.TotalAmount) {
		t.Fatalf("unexpected total: %s", envelope.Data.TotalAmount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	handler := Checkout(stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodPost, "/api/v1/orders", `{"is_delivery":false}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeEmptyCart) {
		t.Fatalf("unexpected error code: %s", envelope.Error.Code)
	}
}

func TestCheckoutMissingUserContext(t *testing.T) {
	handler := Checkout(stubCheckoutService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMyOrdersSuccess(t *testing.T) {
	list := &ordersvc.List{Orders: []ordersvc.View{{ID: uuid.New()}}}
	handler := MyOrders(stubOrdersService{list: list}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodGet, "/api/v1/orders", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMyOrdersRejectsBadLimit(t *testing.T) {
	handler := MyOrders(stubOrdersService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodGet, "/api/v1/orders?limit=9999", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMyOrderDetailNotFound(t *testing.T) {
	handler := MyOrderDetail(stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}, nil)

	router := newTestRouter("/api/v1/orders/{orderId}", http.MethodGet, handler)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authenticatedRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), ""))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUpdateOrderStatusStateConflict(t *testing.T) {
	handler := AdminUpdateOrderStatus(stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition")}, nil)

	router := newTestRouter("/api/admin/v1/orders/{orderId}/status", http.MethodPatch, handler)
	body := `{"status":"completed"}`
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authenticatedRequest(http.MethodPatch, "/api/admin/v1/orders/"+uuid.NewString()+"/status", body))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	handler := AdminListOrders(stubOrdersService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodGet, "/api/admin/v1/orders?status=shipped", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
