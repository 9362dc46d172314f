package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"rentledger-backend/internal/application/ledger"
	"rentledger-backend/internal/application/registry"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"
	"rentledger-backend/internal/infrastructure/sequencer"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	deployer = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	owner    = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
	tenant   = "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC"
)

func setupVaultTest(t *testing.T) (*Handlers, *ledger.Ledger) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	l := ledger.New(db, sequencer.NewLocal(), domain.Address(deployer))
	ctx := context.Background()
	require.NoError(t, l.Bootstrap(ctx))
	_, err = l.Registry.Mint(ctx, deployer, registry.MintInput{
		Owner:       owner,
		Location:    "12 Harbour Road, Lisbon",
		Valuation:   500000,
		MonthlyRent: 3000,
		MetadataURI: "ipfs://bafy-property-1",
	})
	require.NoError(t, err)
	require.NoError(t, l.Settlement.Mint(ctx, deployer, tenant, 10000))
	return &Handlers{Ledger: l}, l
}

func appAs(h *Handlers, caller string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"address": caller})
		return c.Next()
	})
	app.Post("/authorize", h.Authorize)
	app.Post("/deposit", h.Deposit)
	app.Post("/withdraw", h.Withdraw)
	app.Post("/reset-period", h.ResetPeriod)
	app.Get("/:property_id", h.Get)
	app.Get("/:property_id/periods/:period", h.PeriodRent)
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func TestDeposit_MovesCustody(t *testing.T) {
	h, l := setupVaultTest(t)
	status, _ := send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 1, "amount": 3000})
	assert.Equal(t, 200, status)

	ctx := context.Background()
	bal, err := l.Settlement.BalanceOf(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, uint64(7000), bal)
	custody, err := l.Settlement.BalanceOf(ctx, l.Vault.Self)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), custody)

	status, result := send(t, appAs(h, owner), "GET", "/1", nil)
	assert.Equal(t, 200, status)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(3000), data["balance"])
	assert.Equal(t, float64(3000), data["current_period_rent"])
}

func TestDeposit_Failures(t *testing.T) {
	h, _ := setupVaultTest(t)

	status, _ := send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 1, "amount": 0})
	assert.Equal(t, 400, status)

	status, _ = send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 9, "amount": 10})
	assert.Equal(t, 400, status)

	status, result := send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 1, "amount": 50000})
	assert.Equal(t, 422, status)
	detail, _ := result["error"].(map[string]interface{})
	details, _ := detail["details"].(map[string]interface{})
	assert.Equal(t, "InsufficientFunds", details["name"])

	_, result = send(t, appAs(h, owner), "GET", "/1", nil)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["balance"])
}

func TestWithdraw_OwnerOnly(t *testing.T) {
	h, l := setupVaultTest(t)
	send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 1, "amount": 3000})

	status, _ := send(t, appAs(h, tenant), "POST", "/withdraw", map[string]interface{}{"property_id": 1, "recipient": tenant, "amount": 100})
	assert.Equal(t, 403, status)

	status, _ = send(t, appAs(h, owner), "POST", "/withdraw", map[string]interface{}{"property_id": 1, "recipient": owner, "amount": 1000})
	assert.Equal(t, 200, status)
	bal, err := l.Settlement.BalanceOf(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)
}

func TestResetPeriod_KeepsHistory(t *testing.T) {
	h, _ := setupVaultTest(t)
	send(t, appAs(h, tenant), "POST", "/deposit", map[string]interface{}{"property_id": 1, "amount": 3000})

	status, _ := send(t, appAs(h, owner), "POST", "/reset-period", map[string]interface{}{"property_id": 1})
	assert.Equal(t, 403, status)

	status, result := send(t, appAs(h, deployer), "POST", "/reset-period", map[string]interface{}{"property_id": 1})
	assert.Equal(t, 200, status)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["current_period"])

	_, result = send(t, appAs(h, owner), "GET", "/1/periods/0", nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(3000), data["amount"])
}

func TestAuthorize_DeployerOnly(t *testing.T) {
	h, _ := setupVaultTest(t)
	status, _ := send(t, appAs(h, owner), "POST", "/authorize", map[string]interface{}{"principal": tenant, "authorized": true})
	assert.Equal(t, 403, status)

	status, _ = send(t, appAs(h, deployer), "POST", "/authorize", map[string]interface{}{"principal": tenant, "authorized": true})
	assert.Equal(t, 200, status)
}
