package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	authsvc "rentledger-backend/internal/application/auth"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"
	"rentledger-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alice = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"

func setupAuthHandlers(t *testing.T) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	h := &Handlers{
		Accounts: &authsvc.Service{DB: db},
		Rdb:      rdb,
		Config:   middleware.SessionConfig{},
	}
	return h, rdb
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestRegister_Created(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	status, out := postJSON(t, app, "/register", map[string]string{"address": alice, "password": "s3cret!pass"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", out["status"])

	status, _ = postJSON(t, app, "/register", map[string]string{"address": alice, "password": "s3cret!pass"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestRegister_ContractPrincipal(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	status, out := postJSON(t, app, "/register", map[string]string{"address": alice + ".rent-vault", "password": "s3cret!pass"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", out["status"])
}

func TestLogin_MissingCredentials(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _ := postJSON(t, app, "/login", map[string]string{"address": alice})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogin_UnknownAccount(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _ := postJSON(t, app, "/login", map[string]string{"address": alice, "password": "s3cret!pass"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogin_Success(t *testing.T) {
	h, rdb := setupAuthHandlers(t)
	_, err := h.Accounts.Register(context.Background(), authsvc.Credentials{Address: alice, Password: "s3cret!pass"})
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/login", h.Login)

	b, _ := json.Marshal(map[string]string{"address": alice, "password": "s3cret!pass"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Login successful", out["message"])
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, alice, user["address"])

	cookies := resp.Header.Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], "rentledger.sid=")

	members, err := rdb.SMembers(context.Background(), "account_sessions:"+alice).Result()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestLogin_NilAccounts(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	h.Accounts = nil
	app := fiber.New()
	app.Post("/login", h.Login)

	status, _ := postJSON(t, app, "/login", map[string]string{"address": alice, "password": "s3cret!pass"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestMe_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Get("/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_WithSessionUserInLocals(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"address":       alice,
			"registered_at": "2026-01-01T00:00:00Z",
		})
		return h.Me(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	assert.Equal(t, alice, user["address"])
}

func TestLogout_NoSession(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Delete("/logout", h.Logout)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))
}
