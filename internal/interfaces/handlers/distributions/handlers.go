package distributions

import (
	"rentledger-backend/internal/application/distributor"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *distributor.Service
}

type PropertyRequest struct {
	PropertyID uint64 `json:"property_id"`
}

type ClaimRequest struct {
	PropertyID uint64 `json:"property_id"`
	Period     uint64 `json:"period"`
}

// POST /api/v1/distributions/distribute
func (h *Handlers) Distribute(c *fiber.Ctx) error {
	var req PropertyRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	dist, err := h.Service.DistributeYield(c.UserContext(), middleware.Caller(c), req.PropertyID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Yield distributed", dist, nil)
}

// POST /api/v1/distributions/claim
func (h *Handlers) Claim(c *fiber.Ctx) error {
	var req ClaimRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	amount, err := h.Service.ClaimYield(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Period)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Yield claimed", fiber.Map{
		"property_id": req.PropertyID,
		"period":      req.Period,
		"amount":      amount,
	}, nil)
}

// POST /api/v1/distributions/reset-period
func (h *Handlers) ResetPeriod(c *fiber.Ctx) error {
	var req PropertyRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	next, err := h.Service.ResetDistributionPeriod(c.UserContext(), middleware.Caller(c), req.PropertyID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Distribution period reset", fiber.Map{"property_id": req.PropertyID, "current_period": next}, nil)
}

// GET /api/v1/distributions/:property_id/current-period
func (h *Handlers) CurrentPeriod(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	period, err := h.Service.CurrentPeriod(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Current period fetched", fiber.Map{"property_id": id, "current_period": period}, nil)
}

// GET /api/v1/distributions/:property_id/:period
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, period, ok := params(c)
	if !ok {
		return response.Error(c, "Invalid property_id or period", fiber.StatusBadRequest, nil)
	}
	dist, err := h.Service.GetDistribution(c.UserContext(), id, period)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Distribution fetched successfully", dist, nil)
}

// GET /api/v1/distributions/:property_id/:period/claimable/:user
func (h *Handlers) Claimable(c *fiber.Ctx) error {
	id, period, ok := params(c)
	if !ok {
		return response.Error(c, "Invalid property_id or period", fiber.StatusBadRequest, nil)
	}
	user := domain.Address(c.Params("user"))
	amount, err := h.Service.GetClaimableYield(c.UserContext(), id, period, user)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Claimable yield fetched", fiber.Map{
		"property_id": id,
		"period":      period,
		"user":        user,
		"claimable":   amount,
	}, nil)
}

// GET /api/v1/distributions/:property_id/:period/claims/:user
func (h *Handlers) ClaimStatus(c *fiber.Ctx) error {
	id, period, ok := params(c)
	if !ok {
		return response.Error(c, "Invalid property_id or period", fiber.StatusBadRequest, nil)
	}
	user := domain.Address(c.Params("user"))
	claimed, err := h.Service.HasClaimed(c.UserContext(), id, period, user)
	if err != nil {
		return response.LedgerError(c, err)
	}
	amount, err := h.Service.ClaimedAmount(c.UserContext(), id, period, user)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Claim status fetched", fiber.Map{
		"property_id": id,
		"period":      period,
		"user":        user,
		"claimed":     claimed,
		"amount":      amount,
	}, nil)
}

func params(c *fiber.Ctx) (uint64, uint64, bool) {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return 0, 0, false
	}
	period, ok := validation.ParseUint(c.Params("period"))
	return id, period, ok
}
