package events

import (
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
)

func TestListByProperty(t *testing.T) {
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
	require.NoError(t, l.Shares.Initialize(ctx, deployer, l.Registry.Self, id, 100, owner))

	h := &Handlers{Service: l.Events}
	app := fiber.New()
	app.Get("/:property_id", h.ListByProperty)

	resp, err := app.Test(httptest.NewRequest("GET", "/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	events, _ := result["data"].([]interface{})
	require.Len(t, events, 2)
	first, _ := events[0].(map[string]interface{})
	assert.Equal(t, "property-minted", first["event_type"])

	resp, err = app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
