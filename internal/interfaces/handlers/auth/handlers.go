package auth

import (
	"context"
	"errors"
	"time"

	authsvc "rentledger-backend/internal/application/auth"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const accountSessionsPrefix = "account_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Accounts authsvc.Accounts
	Rdb      *redis.Client
	Config   middleware.SessionConfig
}

func credentialStatus(err error) int {
	switch {
	case errors.Is(err, authsvc.ErrAddressPasswordRequired),
		errors.Is(err, authsvc.ErrInvalidAddress),
		errors.Is(err, authsvc.ErrContractPrincipal),
		errors.Is(err, authsvc.ErrWeakPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, authsvc.ErrAddressTaken):
		return fiber.StatusConflict
	case errors.Is(err, authsvc.ErrUnknownAccount), errors.Is(err, authsvc.ErrIncorrectPassword):
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

func credentialError(c *fiber.Ctx, err error) error {
	status := credentialStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("auth: account store failed")
		return response.Error(c, "Internal Server Error", status, nil)
	}
	return response.Error(c, err.Error(), status, nil)
}

// Register POST /api/v1/auth/register: create an account for an external address.
func (h *Handlers) Register(c *fiber.Ctx) error {
	if h.Accounts == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req authsvc.Credentials
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrAddressPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	acct, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return credentialError(c, err)
	}
	return response.SuccessCreated(c, "Account registered", fiber.Map{
		"account": fiber.Map{
			"address":       acct.Address,
			"registered_at": acct.CreatedAt.UTC().Format(time.RFC3339),
		},
	}, nil)
}

// Login POST /api/v1/auth/login: authenticate, create session, SAdd account_sessions:address, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Accounts == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req authsvc.Credentials
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrAddressPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	acct, err := h.Accounts.Login(c.UserContext(), req)
	if err != nil {
		return credentialError(c, err)
	}

	sessionID := middleware.RegenerateSessionID(c)
	user := middleware.SessionUser{
		Address:      acct.Address.String(),
		RegisteredAt: acct.CreatedAt.UTC().Format(time.RFC3339),
	}
	middleware.SetSessionUser(c, user)

	if err := h.Rdb.SAdd(context.Background(), accountSessionsPrefix+user.Address, sessionID).Err(); err != nil {
		log.Error().Err(err).Msg("auth: session tracking failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{"user": user}, nil)
}

// Me GET /api/v1/auth/me: return current session user in standard success format.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	if sessionID == "" {
		cookieVal := c.Cookies(middleware.SessionCookieName)
		log.Debug().Str("path", "/auth/me").
			Bool("cookie_present", cookieVal != "").
			Msg("auth/me: no session id")
	} else if sessionUser == nil {
		log.Debug().Str("path", "/auth/me").Str("session_id_prefix", truncate(sessionID, 8)).
			Msg("auth/me: session id present but no user in session data")
	}

	user, err := authsvc.VerifyUser(sessionUser)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Logout DELETE /api/v1/auth/logout: SRem account_sessions:address, Del session key, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if addr := middleware.Caller(c); !addr.IsZero() && sessionID != "" {
		_ = h.Rdb.SRem(ctx, accountSessionsPrefix+addr.String(), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
