package settings

import (
	"context"
	"fmt"

	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

// View is the public shape of company settings.
type View struct {
	IsDelivery   bool    `json:"is_delivery"`
	SupportPhone *string `json:"support_phone,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// UpdateInput carries the admin settings payload. Nil fields are unchanged.
type UpdateInput struct {
	IsDelivery   *bool   `json:"is_delivery,omitempty"`
	SupportPhone *string `json:"support_phone,omitempty" validate:"omitempty,max=20"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Service exposes the company settings singleton.
type Service interface {
	Get(ctx context.Context) (*View, error)
	Update(ctx context.Context, input UpdateInput) (*View, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService builds a settings service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) Get(ctx context.Context) (*View, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	return &View{
		IsDelivery:   setting.IsDelivery,
		SupportPhone: setting.SupportPhone,
		Address:      setting.Address,
	}, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*View, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	if input.IsDelivery != nil {
		setting.IsDelivery = *input.IsDelivery
	}
	if input.SupportPhone != nil {
		setting.SupportPhone = input.SupportPhone
	}
	if input.Address != nil {
		setting.Address = input.Address
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}

	s.logger.Info(s.logger.WithField(ctx, "is_delivery", setting.IsDelivery), "settings.updated")
	return &View{
		IsDelivery:   setting.IsDelivery,
		SupportPhone: setting.SupportPhone,
		Address:      setting.Address,
	}, nil
}
