package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/api/middleware"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/pagination"
)

// Service defines account-level operations for the authenticated user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error)
	SwitchRole(ctx context.Context, userID uuid.UUID, target enums.UserRole) (*Profile, error)
	ListUsers(ctx context.Context, role *enums.UserRole, params pagination.Params) (*List, error)
	ResolveTelegramID(ctx context.Context, telegramID int64) (*middleware.Identity, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	profile := ProfileFromModel(user)
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.FirstName != nil {
		if name := strings.TrimSpace(*input.FirstName); name != "" {
			user.FirstName = name
		}
	}
	if input.LastName != nil {
		if name := strings.TrimSpace(*input.LastName); name != "" {
			user.LastName = name
		}
	}
	if input.Phone != nil {
		if phone := strings.TrimSpace(*input.Phone); phone != "" {
			user.Phone = phone
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	profile := ProfileFromModel(user)
	return &profile, nil
}

// SwitchRole lets an admin present as client or worker; switching back to
// admin clears the override. Non-admin base roles are rejected.
func (s *service) SwitchRole(ctx context.Context, userID uuid.UUID, target enums.UserRole) (*Profile, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can switch roles")
	}

	var switchedTo *enums.UserRole
	if target != enums.UserRoleAdmin {
		switchedTo = &target
	}
	if err := s.repo.UpdateSwitchedTo(ctx, userID, switchedTo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "switch role")
	}
	user.SwitchedTo = switchedTo

	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"user_id": userID.String(),
		"target":  target.String(),
	}), "user.role_switched")

	profile := ProfileFromModel(user)
	return &profile, nil
}

// ListUsers serves the admin account listing with an optional role filter.
func (s *service) ListUsers(ctx context.Context, role *enums.UserRole, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, role, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	list := &List{Users: make([]Profile, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		list.Users = append(list.Users, ProfileFromModel(&rows[i]))
	}
	return list, nil
}

// ResolveTelegramID backs the legacy header auth path.
func (s *service) ResolveTelegramID(ctx context.Context, telegramID int64) (*middleware.Identity, error) {
	if telegramID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid telegram id")
	}
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown telegram account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve telegram account")
	}
	return &middleware.Identity{
		UserID:     user.ID.String(),
		Role:       user.Role,
		SwitchedTo: user.SwitchedTo,
	}, nil
}
