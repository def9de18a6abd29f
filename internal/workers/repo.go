package workers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// Repository exposes worker application persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateApplication(ctx context.Context, application *models.WorkerApplication) (*models.WorkerApplication, error)
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.WorkerApplication, error)
	ListApplicationsByClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkerApplication, error)
	ListApplicationsByWorker(ctx context.Context, workerID uuid.UUID) ([]models.WorkerApplication, error)
	ListApplications(ctx context.Context, status *enums.ApplicationStatus) ([]models.WorkerApplication, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a workers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateApplication(ctx context.Context, application *models.WorkerApplication) (*models.WorkerApplication, error) {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (r *repository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.WorkerApplication, error) {
	var application models.WorkerApplication
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) ListApplicationsByClient(ctx context.Context, clientID uuid.UUID) ([]models.WorkerApplication, error) {
	var applications []models.WorkerApplication
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) ListApplicationsByWorker(ctx context.Context, workerID uuid.UUID) ([]models.WorkerApplication, error) {
	var applications []models.WorkerApplication
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) ListApplications(ctx context.Context, status *enums.ApplicationStatus) ([]models.WorkerApplication, error) {
	query := r.db.WithContext(ctx).Preload("Worker").Preload("Client")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var applications []models.WorkerApplication
	err := query.Order("created_at DESC").Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkerApplication{}).
		Where("id = ?", id).
		Update("status", status).Error
}
