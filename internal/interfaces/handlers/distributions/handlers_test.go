package distributions

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
	holderB  = "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC"
)

func setupDistributionsTest(t *testing.T) (*Handlers, *ledger.Ledger) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	l := ledger.New(db, sequencer.NewLocal(), domain.Address(deployer))
	ctx := context.Background()
	require.NoError(t, l.Bootstrap(ctx))
	id, err := l.Registry.Mint(ctx, deployer, registry.MintInput{
		Owner:       owner,
		Location:    "77 Market Street, San Francisco",
		Valuation:   900000,
		MonthlyRent: 3000,
		MetadataURI: "ipfs://bafy-market-77",
	})
	require.NoError(t, err)
	require.NoError(t, l.Shares.Initialize(ctx, deployer, l.Registry.Self, id, 3, owner))
	require.NoError(t, l.Shares.Transfer(ctx, owner, id, 1, owner, holderB, nil))
	require.NoError(t, l.Settlement.Mint(ctx, deployer, owner, 3000))
	require.NoError(t, l.DepositRent(ctx, owner, id, 3000))
	return &Handlers{Service: l.Distributor}, l
}

func appAs(h *Handlers, caller string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"address": caller})
		return c.Next()
	})
	app.Post("/distribute", h.Distribute)
	app.Post("/claim", h.Claim)
	app.Post("/reset-period", h.ResetPeriod)
	app.Get("/:property_id/current-period", h.CurrentPeriod)
	app.Get("/:property_id/:period", h.Get)
	app.Get("/:property_id/:period/claimable/:user", h.Claimable)
	app.Get("/:property_id/:period/claims/:user", h.ClaimStatus)
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

func errName(result map[string]interface{}) interface{} {
	detail, _ := result["error"].(map[string]interface{})
	details, _ := detail["details"].(map[string]interface{})
	return details["name"]
}

func TestDistributeAndClaim(t *testing.T) {
	h, l := setupDistributionsTest(t)

	status, _ := send(t, appAs(h, holderB), "POST", "/distribute", map[string]interface{}{"property_id": 1})
	assert.Equal(t, 403, status)

	status, result := send(t, appAs(h, owner), "POST", "/distribute", map[string]interface{}{"property_id": 1})
	require.Equal(t, 201, status)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(3000), data["total_distributable"])

	status, result = send(t, appAs(h, owner), "POST", "/distribute", map[string]interface{}{"property_id": 1})
	assert.Equal(t, 409, status)
	assert.Equal(t, "AlreadyDistributed", errName(result))

	_, result = send(t, appAs(h, holderB), "GET", "/1/0/claimable/"+holderB, nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["claimable"])

	status, result = send(t, appAs(h, holderB), "POST", "/claim", map[string]interface{}{"property_id": 1, "period": 0})
	assert.Equal(t, 200, status)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["amount"])

	status, result = send(t, appAs(h, holderB), "POST", "/claim", map[string]interface{}{"property_id": 1, "period": 0})
	assert.Equal(t, 409, status)
	assert.Equal(t, "AlreadyClaimed", errName(result))

	_, result = send(t, appAs(h, owner), "GET", "/1/0/claims/"+holderB, nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, true, data["claimed"])
	assert.Equal(t, float64(1000), data["amount"])

	paid, err := l.Settlement.BalanceOf(context.Background(), holderB)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), paid)

	_, result = send(t, appAs(h, owner), "GET", "/1/0", nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["total_claimed"])
}

func TestClaim_Undistributed(t *testing.T) {
	h, _ := setupDistributionsTest(t)
	status, result := send(t, appAs(h, holderB), "POST", "/claim", map[string]interface{}{"property_id": 1, "period": 0})
	assert.Equal(t, 404, status)
	assert.Equal(t, "DistributionNotFound", errName(result))

	status, _ = send(t, appAs(h, holderB), "GET", "/1/0", nil)
	assert.Equal(t, 404, status)
}

func TestClaimable_ContractUser(t *testing.T) {
	h, l := setupDistributionsTest(t)
	status, result := send(t, appAs(h, owner), "GET", "/1/0/claimable/"+l.Vault.Self.String(), nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "InvalidUser", errName(result))
}

func TestResetPeriod(t *testing.T) {
	h, _ := setupDistributionsTest(t)
	status, result := send(t, appAs(h, owner), "POST", "/reset-period", map[string]interface{}{"property_id": 1})
	assert.Equal(t, 200, status)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["current_period"])

	_, result = send(t, appAs(h, holderB), "GET", "/1/current-period", nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["current_period"])
}
