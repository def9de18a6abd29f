package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/catalog"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

// View is the localized storefront shape of an ad banner.
type View struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	LinkURL     *string    `json:"link_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// CreateInput carries the admin ad creation payload.
type CreateInput struct {
	TitleUz       string     `json:"title_uz" validate:"required,min=1,max=255"`
	TitleRu       *string    `json:"title_ru,omitempty" validate:"omitempty,max=255"`
	DescriptionUz *string    `json:"description_uz,omitempty"`
	DescriptionRu *string    `json:"description_ru,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	LinkURL       *string    `json:"link_url,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// UpdateInput carries the admin ad update payload. Nil fields are unchanged.
type UpdateInput struct {
	TitleUz       *string    `json:"title_uz,omitempty" validate:"omitempty,min=1,max=255"`
	TitleRu       *string    `json:"title_ru,omitempty" validate:"omitempty,max=255"`
	DescriptionUz *string    `json:"description_uz,omitempty"`
	DescriptionRu *string    `json:"description_ru,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	LinkURL       *string    `json:"link_url,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// Service defines ad banner operations.
type Service interface {
	ListActive(ctx context.Context, lang string) ([]View, error)
	ListAll(ctx context.Context, lang string) ([]View, error)
	Create(ctx context.Context, input CreateInput) (*models.Ad, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ad, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService builds an ads service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ads repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg, now: time.Now}, nil
}

func (s *service) ListActive(ctx context.Context, lang string) ([]View, error) {
	rows, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	return viewsFromModels(rows, lang), nil
}

func (s *service) ListAll(ctx context.Context, lang string) ([]View, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	return viewsFromModels(rows, lang), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Ad, error) {
	ad := &models.Ad{
		TitleUz:       input.TitleUz,
		TitleRu:       input.TitleRu,
		DescriptionUz: input.DescriptionUz,
		DescriptionRu: input.DescriptionRu,
		ImageURL:      input.ImageURL,
		LinkURL:       input.LinkURL,
		IsActive:      true,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	if input.IsActive != nil {
		ad.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, ad)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ad")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Ad, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}

	if input.TitleUz != nil {
		ad.TitleUz = *input.TitleUz
	}
	if input.TitleRu != nil {
		ad.TitleRu = input.TitleRu
	}
	if input.DescriptionUz != nil {
		ad.DescriptionUz = input.DescriptionUz
	}
	if input.DescriptionRu != nil {
		ad.DescriptionRu = input.DescriptionRu
	}
	if input.ImageURL != nil {
		ad.ImageURL = input.ImageURL
	}
	if input.LinkURL != nil {
		ad.LinkURL = input.LinkURL
	}
	if input.IsActive != nil {
		ad.IsActive = *input.IsActive
	}
	if input.StartDate != nil {
		ad.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		ad.EndDate = input.EndDate
	}

	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ad")
	}
	return ad, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	return s.repo.Delete(ctx, id)
}

func viewsFromModels(rows []models.Ad, lang string) []View {
	views := make([]View, 0, len(rows))
	for i := range rows {
		ad := &rows[i]
		views = append(views, View{
			ID:          ad.ID,
			Title:       catalog.Localize(lang, ad.TitleUz, ad.TitleRu),
			Description: localizeDescription(lang, ad),
			ImageURL:    ad.ImageURL,
			LinkURL:     ad.LinkURL,
			IsActive:    ad.IsActive,
			StartDate:   ad.StartDate,
			EndDate:     ad.EndDate,
		})
	}
	return views
}

func localizeDescription(lang string, ad *models.Ad) *string {
	if lang == "ru" && ad.DescriptionRu != nil && *ad.DescriptionRu != "" {
		return ad.DescriptionRu
	}
	return ad.DescriptionUz
}
