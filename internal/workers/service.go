package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/notify"
	"github.com/metalbaza/metalbaza-backend/internal/users"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

// Service defines worker marketplace operations.
type Service interface {
	ListWorkers(ctx context.Context, isAdmin bool) ([]WorkerView, error)
	GetWorker(ctx context.Context, id uuid.UUID, isAdmin bool) (*WorkerView, error)
	CreateApplication(ctx context.Context, clientID uuid.UUID, input CreateApplicationInput) (*ApplicationView, error)
	ListMyApplications(ctx context.Context, userID uuid.UUID, role enums.UserRole) ([]ApplicationView, error)
	DecideApplication(ctx context.Context, workerID, applicationID uuid.UUID, input UpdateApplicationStatusInput) (*ApplicationView, error)
	ListAllApplications(ctx context.Context, status *enums.ApplicationStatus) ([]ApplicationView, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, input UpdateApplicationStatusInput) (*ApplicationView, error)
}

type service struct {
	repo      Repository
	usersRepo users.Repository
	notifier  *notify.Notifier
	logger    *logger.Logger
}

// NewService builds a workers service with the required dependencies.
func NewService(repo Repository, usersRepo users.Repository, notifier *notify.Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workers repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, usersRepo: usersRepo, notifier: notifier, logger: logg}, nil
}

func (s *service) ListWorkers(ctx context.Context, isAdmin bool) ([]WorkerView, error) {
	rows, err := s.usersRepo.ListWorkers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workers")
	}
	views := make([]WorkerView, 0, len(rows))
	for i := range rows {
		views = append(views, WorkerViewFromModel(&rows[i], isAdmin))
	}
	return views, nil
}

func (s *service) GetWorker(ctx context.Context, id uuid.UUID, isAdmin bool) (*WorkerView, error) {
	user, err := s.usersRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker")
	}
	if user.Role != enums.UserRoleWorker {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
	}
	view := WorkerViewFromModel(user, isAdmin)
	return &view, nil
}

func (s *service) CreateApplication(ctx context.Context, clientID uuid.UUID, input CreateApplicationInput) (*ApplicationView, error) {
	if clientID == input.WorkerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot apply to yourself")
	}

	worker, err := s.usersRepo.FindByID(ctx, input.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker")
	}
	if worker.Role != enums.UserRoleWorker {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
	}

	application := &models.WorkerApplication{
		ClientID: clientID,
		WorkerID: input.WorkerID,
		Message:  input.Message,
		Status:   enums.ApplicationStatusPending,
	}
	created, err := s.repo.CreateApplication(ctx, application)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	created.Worker = worker

	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"application_id": created.ID.String(),
		"worker_id":      input.WorkerID.String(),
	}), "workers.application_created")
	if s.notifier != nil {
		s.notifier.WorkerApplicationCreated(ctx, created)
	}

	view := ApplicationViewFromModel(created, false)
	return &view, nil
}

func (s *service) ListMyApplications(ctx context.Context, userID uuid.UUID, role enums.UserRole) ([]ApplicationView, error) {
	var (
		rows []models.WorkerApplication
		err  error
	)
	if role == enums.UserRoleWorker {
		rows, err = s.repo.ListApplicationsByWorker(ctx, userID)
	} else {
		rows, err = s.repo.ListApplicationsByClient(ctx, userID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}

	views := make([]ApplicationView, 0, len(rows))
	for i := range rows {
		views = append(views, ApplicationViewFromModel(&rows[i], false))
	}
	return views, nil
}

// DecideApplication lets the targeted worker accept or reject a pending
// application. Applications aimed at other workers present as not-found.
func (s *service) DecideApplication(ctx context.Context, workerID, applicationID uuid.UUID, input UpdateApplicationStatusInput) (*ApplicationView, error) {
	target, err := enums.ParseApplicationStatus(input.Status)
	if err != nil || target == enums.ApplicationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status")
	}

	application, err := s.repo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	if application.WorkerID != workerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	if application.Status != enums.ApplicationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "application already decided")
	}

	if err := s.repo.UpdateApplicationStatus(ctx, applicationID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application status")
	}
	application.Status = target

	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"application_id": applicationID.String(),
		"status":         target.String(),
	}), "workers.application_decided")

	view := ApplicationViewFromModel(application, false)
	return &view, nil
}

func (s *service) ListAllApplications(ctx context.Context, status *enums.ApplicationStatus) ([]ApplicationView, error) {
	rows, err := s.repo.ListApplications(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	views := make([]ApplicationView, 0, len(rows))
	for i := range rows {
		views = append(views, ApplicationViewFromModel(&rows[i], true))
	}
	return views, nil
}

func (s *service) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, input UpdateApplicationStatusInput) (*ApplicationView, error) {
	target, err := enums.ParseApplicationStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status")
	}

	application, err := s.repo.FindApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}

	if application.Status != target {
		if err := s.repo.UpdateApplicationStatus(ctx, id, target); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application status")
		}
		application.Status = target
	}

	view := ApplicationViewFromModel(application, true)
	return &view, nil
}
