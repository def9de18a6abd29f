package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/metalbaza/metalbaza-backend/api/responses"
	pkgAuth "github.com/metalbaza/metalbaza-backend/pkg/auth"
	"github.com/metalbaza/metalbaza-backend/pkg/config"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
	pkgerrors "github.com/metalbaza/metalbaza-backend/pkg/errors"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
)

// Identity is the authenticated caller as seeded into the request context.
type Identity struct {
	UserID     string
	Role       enums.UserRole
	SwitchedTo *enums.UserRole
	TelegramID int64
}

// TelegramResolver maps a raw Telegram identifier to a known user. Used by the
// legacy X-Telegram-Id header path that predates JWT sessions.
type TelegramResolver interface {
	ResolveTelegramID(ctx context.Context, telegramID int64) (*Identity, error)
}

// Auth validates a bearer token (or, when enabled, the legacy X-Telegram-Id
// header) and seeds the request context with the caller identity.
func Auth(cfg config.JWTConfig, tgCfg config.TelegramConfig, resolver TelegramResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				if tgCfg.AllowHeaderAuth && resolver != nil {
					authenticateHeader(next, resolver, logg, w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			identity := Identity{
				UserID:     claims.UserID.String(),
				Role:       claims.Role,
				SwitchedTo: claims.SwitchedTo,
			}
			if claims.TelegramID != nil {
				identity.TelegramID = *claims.TelegramID
			}
			serveAuthenticated(next, logg, w, r, identity)
		})
	}
}

func authenticateHeader(next http.Handler, resolver TelegramResolver, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimSpace(r.Header.Get("X-Telegram-Id"))
	if rawID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return
	}
	telegramID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || telegramID <= 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid telegram id"))
		return
	}

	identity, err := resolver.ResolveTelegramID(r.Context(), telegramID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	identity.TelegramID = telegramID
	serveAuthenticated(next, logg, w, r, *identity)
}

func serveAuthenticated(next http.Handler, logg *logger.Logger, w http.ResponseWriter, r *http.Request, identity Identity) {
	role := identity.Role
	if identity.SwitchedTo != nil && identity.SwitchedTo.IsValid() {
		role = *identity.SwitchedTo
	}

	ctx := context.WithValue(r.Context(), ctxUserID, identity.UserID)
	ctx = context.WithValue(ctx, ctxRole, string(role))
	if identity.TelegramID != 0 {
		ctx = context.WithValue(ctx, ctxTelegramID, identity.TelegramID)
	}

	if logg != nil {
		fields := map[string]any{
			"user_id":    identity.UserID,
			"actor_role": string(role),
		}
		if identity.TelegramID != 0 {
			fields["telegram_id"] = identity.TelegramID
		}
		ctx = logg.WithFields(ctx, fields)
	}

	next.ServeHTTP(w, r.WithContext(ctx))
}
