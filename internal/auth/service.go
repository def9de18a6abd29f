package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/internal/users"
	pkgauth "github.com/metalbaza/metalbaza-backend/pkg/auth"
	"github.com/metalbaza/metalbaza-backend/pkg/config"
	"github.com/metalbaza/metalbaza-backend/pkg/db"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/telegram"
)

// Service authenticates Telegram identities and mints access tokens.
type Service interface {
	TelegramLogin(ctx context.Context, input TelegramLoginInput) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*LoginResult, error)
}

type service struct {
	repo   users.Repository
	jwtCfg config.JWTConfig
	tgCfg  config.TelegramConfig
	logger *logger.Logger
	now    func() time.Time
}

// NewService builds the auth service with the required dependencies.
func NewService(repo users.Repository, jwtCfg config.JWTConfig, tgCfg config.TelegramConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		jwtCfg: jwtCfg,
		tgCfg:  tgCfg,
		logger: logg,
		now:    time.Now,
	}, nil
}

// TelegramLogin verifies Mini App init data, provisions the account on first
// contact, and returns a signed access token.
func (s *service) TelegramLogin(ctx context.Context, input TelegramLoginInput) (*LoginResult, error) {
	tgUser, err := telegram.VerifyInitData(s.tgCfg.BotToken, input.InitData, s.tgCfg.InitDataMaxAge, s.now())
	if err != nil {
		if errors.Is(err, telegram.ErrHashMismatch) || errors.Is(err, telegram.ErrInitDataExpired) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "telegram verification failed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid init data")
	}

	ctx = s.logger.WithTelegramID(ctx, tgUser.ID)

	user, err := s.repo.FindByTelegramID(ctx, tgUser.ID)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.provision(ctx, tgUser)
		if err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	return s.mint(ctx, user)
}

// Register is the bot-driven flow: the bot has already collected a phone
// number, so the account is created (or relinked) with real contact data.
func (s *service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	ctx = s.logger.WithTelegramID(ctx, input.TelegramID)

	user, err := s.repo.FindByTelegramID(ctx, input.TelegramID)
	switch {
	case err == nil:
		user.Phone = strings.TrimSpace(input.Phone)
		user.FirstName = strings.TrimSpace(input.FirstName)
		user.LastName = strings.TrimSpace(input.LastName)
		user.TelegramUsername = input.TelegramUsername
		if err := s.repo.Update(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		telegramID := input.TelegramID
		user = &models.User{
			Phone:            strings.TrimSpace(input.Phone),
			FirstName:        strings.TrimSpace(input.FirstName),
			LastName:         strings.TrimSpace(input.LastName),
			TelegramUsername: input.TelegramUsername,
			TelegramID:       &telegramID,
			Role:             enums.UserRoleClient,
			Provider:         enums.AuthProviderTelegram,
		}
		if user, err = s.repo.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		s.logger.Info(ctx, "user.registered")
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	return s.mint(ctx, user)
}

// provision creates a bare account from verified init data. The placeholder
// phone keeps the unique constraint satisfied until the bot flow collects a
// real number.
func (s *service) provision(ctx context.Context, tgUser *telegram.InitDataUser) (*models.User, error) {
	telegramID := tgUser.ID
	user := &models.User{
		Phone:     fmt.Sprintf("tg:%d", telegramID),
		FirstName: tgUser.FirstName,
		LastName:  tgUser.LastName,
		TelegramID: &telegramID,
		Role:       enums.UserRoleClient,
		Provider:   enums.AuthProviderTelegram,
	}
	if tgUser.Username != "" {
		username := tgUser.Username
		user.TelegramUsername = &username
	}
	if user.FirstName == "" {
		user.FirstName = "Telegram"
	}
	if user.LastName == "" {
		user.LastName = "User"
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			// Lost a race with a concurrent login for the same account.
			return s.repo.FindByTelegramID(ctx, telegramID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision user")
	}
	s.logger.Info(ctx, "user.provisioned")
	return created, nil
}

func (s *service) mint(ctx context.Context, user *models.User) (*LoginResult, error) {
	payload := pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		Role:       user.Role,
		SwitchedTo: user.SwitchedTo,
		TelegramID: user.TelegramID,
	}
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	s.logger.Info(ctx, "user.logged_in")
	return &LoginResult{
		AccessToken: token,
		Profile:     users.ProfileFromModel(user),
	}, nil
}
