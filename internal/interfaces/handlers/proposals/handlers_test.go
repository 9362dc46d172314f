package proposals

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
	minority = "ST2JHG361ZXG51QTKY2NQCVBPPRRE2KZB1HR05NNC"
)

func setupProposalsTest(t *testing.T) *Handlers {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	l := ledger.New(db, sequencer.NewLocal(), domain.Address(deployer))
	ctx := context.Background()
	id, err := l.Registry.Mint(ctx, deployer, registry.MintInput{
		Owner:       owner,
		Location:    "12 Harbour Road, Lisbon",
		Valuation:   500000,
		MonthlyRent: 3000,
		MetadataURI: "ipfs://bafy-property-1",
	})
	require.NoError(t, err)
	require.NoError(t, l.Shares.Initialize(ctx, deployer, l.Registry.Self, id, 1000, owner))
	require.NoError(t, l.Shares.Transfer(ctx, owner, id, 400, owner, minority, nil))
	return &Handlers{Service: l.Proposals}
}

func appAs(h *Handlers, caller string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"address": caller})
		return c.Next()
	})
	app.Post("/create", h.Create)
	app.Post("/vote", h.Vote)
	app.Post("/finalize", h.Finalize)
	app.Get("/:property_id/count", h.Count)
	app.Get("/:property_id/:proposal_id", h.Get)
	app.Get("/:property_id/:proposal_id/voters/:voter", h.Voter)
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

func TestProposalLifecycle(t *testing.T) {
	h := setupProposalsTest(t)

	status, result := send(t, appAs(h, owner), "POST", "/create", map[string]interface{}{
		"property_id": 1, "amount": 5000, "description": "Roof replacement",
	})
	require.Equal(t, 201, status)
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["proposal_id"])

	status, result = send(t, appAs(h, minority), "POST", "/vote", map[string]interface{}{
		"property_id": 1, "proposal_id": 1, "support": false,
	})
	assert.Equal(t, 200, status)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(400), data["votes_against"])

	status, result = send(t, appAs(h, deployer), "POST", "/finalize", map[string]interface{}{"property_id": 1, "proposal_id": 1})
	assert.Equal(t, 422, status)
	assert.Equal(t, "InsufficientVotes", errName(result))

	status, _ = send(t, appAs(h, owner), "POST", "/vote", map[string]interface{}{
		"property_id": 1, "proposal_id": 1, "support": true,
	})
	assert.Equal(t, 200, status)

	status, result = send(t, appAs(h, owner), "POST", "/vote", map[string]interface{}{
		"property_id": 1, "proposal_id": 1, "support": true,
	})
	assert.Equal(t, 409, status)
	assert.Equal(t, "AlreadyVoted", errName(result))

	status, _ = send(t, appAs(h, owner), "POST", "/finalize", map[string]interface{}{"property_id": 1, "proposal_id": 1})
	assert.Equal(t, 403, status)

	status, _ = send(t, appAs(h, deployer), "POST", "/finalize", map[string]interface{}{"property_id": 1, "proposal_id": 1})
	assert.Equal(t, 200, status)

	_, result = send(t, appAs(h, owner), "GET", "/1/1", nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, true, data["approved"])
	assert.Equal(t, float64(600), data["votes_for"])

	_, result = send(t, appAs(h, owner), "GET", "/1/count", nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	_, result = send(t, appAs(h, owner), "GET", "/1/1/voters/"+minority, nil)
	data, _ = result["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_voted"])
}

func TestVote_RequiresSupport(t *testing.T) {
	h := setupProposalsTest(t)
	status, _ := send(t, appAs(h, owner), "POST", "/vote", map[string]interface{}{"property_id": 1, "proposal_id": 1})
	assert.Equal(t, 400, status)
}

func TestGet_Unknown(t *testing.T) {
	h := setupProposalsTest(t)
	status, result := send(t, appAs(h, owner), "GET", "/1/3", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "ProposalNotFound", errName(result))
}
