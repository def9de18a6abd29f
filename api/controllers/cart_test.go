package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/metalbaza/metalbaza-backend/api/middleware"
	cartsvc "github.com/metalbaza/metalbaza-backend/internal/cart"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
)

type stubCartService struct {
	view *cartsvc.View
	err  error
}

func (s stubCartService) GetCart(ctx context.Context, userID uuid.UUID, lang string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput, lang string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input cartsvc.UpdateItemInput, lang string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, lang string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func authenticatedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
}

func TestCartFetchSuccess(t *testing.T) {
	view := &cartsvc.View{Items: []cartsvc.LineView{}, TotalItems: 0}
	handler := CartFetch(stubCartService{view: view}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalItems != 0 {
		t.Fatalf("unexpected total items: %d", envelope.Data.TotalItems)
	}
}

func TestCartFetchMissingUserContext(t *testing.T) {
	handler := CartFetch(stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	view := &cartsvc.View{Items: []cartsvc.LineView{}, TotalItems: 3}
	handler := CartAddItem(stubCartService{view: view}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":3}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsUnknownFields(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1,"price":"999"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authenticatedRequest(http.MethodPost, "/api/v1/cart", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemNotFound(t *testing.T) {
	handler := CartUpdateItem(stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}, nil)

	router := newTestRouter("/api/v1/cart/{productId}", http.MethodPut, handler)
	body := `{"quantity":2}`
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authenticatedRequest(http.MethodPut, "/api/v1/cart/"+uuid.NewString(), body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartRemoveItemInvalidID(t *testing.T) {
	handler := CartRemoveItem(stubCartService{}, nil)

	router := newTestRouter("/api/v1/cart/{productId}", http.MethodDelete, handler)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authenticatedRequest(http.MethodDelete, "/api/v1/cart/not-a-uuid", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
