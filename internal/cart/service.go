package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/catalog"
	"github.com/metalbaza/metalbaza-backend/pkg/db"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

// Service defines cart operations for the authenticated storefront user.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID, lang string) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput, lang string) (*View, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput, lang string) (*View, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID, lang string) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	logger  *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, catalogRepo catalog.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalog: catalogRepo, logger: logg}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID, lang string) (*View, error) {
	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	view := ViewFromItems(items, lang)
	return &view, nil
}

// AddItem merges into an existing line for the same product instead of
// creating a duplicate row.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput, lang string) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1")
	}

	product, err := s.catalog.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}

	line, err := s.repo.FindLine(ctx, userID, input.ProductID)
	switch {
	case err == nil:
		if err := s.repo.UpdateQuantity(ctx, line.ID, line.Quantity+input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    userID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		}
		if _, err := s.repo.Create(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				// Concurrent add for the same product; retry as a merge.
				existing, findErr := s.repo.FindLine(ctx, userID, input.ProductID)
				if findErr != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload cart line")
				}
				if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+input.Quantity); err != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
				}
			} else {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	return s.GetCart(ctx, userID, lang)
}

// UpdateItem sets the absolute quantity on an existing line. Unlike AddItem it
// never creates lines.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput, lang string) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1")
	}

	line, err := s.repo.FindLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if err := s.repo.UpdateQuantity(ctx, line.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}

	return s.GetCart(ctx, userID, lang)
}

// RemoveItem deletes the line for the product; removing an absent line is a
// no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID, lang string) (*View, error) {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.GetCart(ctx, userID, lang)
}

// Clear empties the cart; clearing an empty cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
