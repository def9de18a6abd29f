package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/pagination"
)

// Service defines catalog operations for the storefront and admin panel.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params, lang string) (*ProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID, lang string) (*ProductView, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, onlyActive bool, lang string) ([]CategoryView, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params, lang string) (*ProductList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListProducts(ctx, filters, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	list := &ProductList{Products: make([]ProductView, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		list.Products = append(list.Products, ProductViewFromModel(&rows[i], lang))
	}
	return list, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID, lang string) (*ProductView, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := ProductViewFromModel(product, lang)
	return &view, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product := &models.Product{
		NameUz:        input.NameUz,
		NameRu:        input.NameRu,
		DescriptionUz: input.DescriptionUz,
		DescriptionRu: input.DescriptionRu,
		Price:         input.Price,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
		IsAvailable:   true,
		Unit:          "dona",
	}
	if input.DeliveryPrice != nil {
		if input.DeliveryPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery price must not be negative")
		}
		product.DeliveryPrice = *input.DeliveryPrice
	}
	if input.FreeDeliveryThreshold != nil {
		if input.FreeDeliveryThreshold.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "free delivery threshold must not be negative")
		}
		product.FreeDeliveryThreshold = *input.FreeDeliveryThreshold
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.IsRental != nil {
		product.IsRental = *input.IsRental
	}
	if input.Unit != nil && *input.Unit != "" {
		product.Unit = *input.Unit
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.logger.Info(s.logger.WithField(ctx, "product_id", created.ID.String()), "catalog.product_created")
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.NameUz != nil {
		product.NameUz = *input.NameUz
	}
	if input.NameRu != nil {
		product.NameRu = input.NameRu
	}
	if input.DescriptionUz != nil {
		product.DescriptionUz = input.DescriptionUz
	}
	if input.DescriptionRu != nil {
		product.DescriptionRu = input.DescriptionRu
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.DeliveryPrice != nil {
		if input.DeliveryPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery price must not be negative")
		}
		product.DeliveryPrice = *input.DeliveryPrice
	}
	if input.FreeDeliveryThreshold != nil {
		if input.FreeDeliveryThreshold.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "free delivery threshold must not be negative")
		}
		product.FreeDeliveryThreshold = *input.FreeDeliveryThreshold
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.IsRental != nil {
		product.IsRental = *input.IsRental
	}
	if input.Unit != nil && *input.Unit != "" {
		product.Unit = *input.Unit
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.logger.Info(s.logger.WithField(ctx, "product_id", id.String()), "catalog.product_deleted")
	return nil
}

func (s *service) ListCategories(ctx context.Context, onlyActive bool, lang string) ([]CategoryView, error) {
	rows, err := s.repo.ListCategories(ctx, onlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	views := make([]CategoryView, 0, len(rows))
	for i := range rows {
		views = append(views, CategoryViewFromModel(&rows[i], lang))
	}
	return views, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	category := &models.Category{
		NameUz:   input.NameUz,
		NameRu:   input.NameRu,
		Icon:     input.Icon,
		IsActive: true,
	}
	if input.OrderIndex != nil {
		category.OrderIndex = *input.OrderIndex
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.NameUz != nil {
		category.NameUz = *input.NameUz
	}
	if input.NameRu != nil {
		category.NameRu = input.NameRu
	}
	if input.Icon != nil {
		category.Icon = input.Icon
	}
	if input.OrderIndex != nil {
		category.OrderIndex = *input.OrderIndex
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return s.repo.DeleteCategory(ctx, id)
}
