package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"rentledger-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 403, StatusFor(domain.NewError(100, "NotAuthorized", domain.KindAuthorization)))
	assert.Equal(t, 400, StatusFor(domain.NewError(101, "InvalidAmount", domain.KindValidation)))
	assert.Equal(t, 404, StatusFor(domain.NewError(102, "PropertyNotExists", domain.KindState)))
	assert.Equal(t, 404, StatusFor(domain.NewError(604, "DistributionNotFound", domain.KindState)))
	assert.Equal(t, 409, StatusFor(domain.NewError(407, "AlreadyVoted", domain.KindState)))
	assert.Equal(t, 422, StatusFor(domain.NewError(502, "ProposalNotApproved", domain.KindBusiness)))
}

func TestLedgerError(t *testing.T) {
	app := fiber.New()
	app.Get("/ledger", func(c *fiber.Ctx) error {
		return LedgerError(c, domain.NewError(503, "InsufficientReserve", domain.KindBusiness))
	})
	app.Get("/infra", func(c *fiber.Ctx) error {
		return LedgerError(c, errors.New("connection reset"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ledger", nil))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["status"])
	detail, _ := body["error"].(map[string]interface{})
	details, _ := detail["details"].(map[string]interface{})
	assert.Equal(t, float64(503), details["code"])
	assert.Equal(t, "InsufficientReserve", details["name"])

	resp, err = app.Test(httptest.NewRequest("GET", "/infra", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
