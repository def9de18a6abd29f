package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
)

// Repository exposes the company settings singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.CompanySetting, error)
	Save(ctx context.Context, setting *models.CompanySetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the singleton row, creating it with defaults on first access.
func (r *repository) Get(ctx context.Context) (*models.CompanySetting, error) {
	var setting models.CompanySetting
	err := r.db.WithContext(ctx).Order("updated_at ASC").First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting = models.CompanySetting{IsDelivery: false}
	if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Save(ctx context.Context, setting *models.CompanySetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
