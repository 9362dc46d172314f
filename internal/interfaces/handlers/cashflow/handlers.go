package cashflow

import (
	"context"

	"rentledger-backend/internal/application/cashflow"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *cashflow.Service
}

type AmountRequest struct {
	PropertyID uint64 `json:"property_id"`
	Amount     uint64 `json:"amount"`
}

type CapexRequest struct {
	PropertyID uint64 `json:"property_id"`
	Amount     uint64 `json:"amount"`
	ProposalID uint64 `json:"proposal_id"`
}

type PeriodRequest struct {
	PropertyID uint64 `json:"property_id"`
}

type amountOp func(ctx context.Context, caller domain.Address, propertyID, amount uint64) error

// amount runs one of the owner-only amount mutations and answers with the updated record.
func (h *Handlers) amount(c *fiber.Ctx, op amountOp, message string) error {
	var req AmountRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := op(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	return h.record(c, req.PropertyID, message)
}

func (h *Handlers) record(c *fiber.Ctx, propertyID uint64, message string) error {
	record, err := h.Service.AccountingData(c.UserContext(), propertyID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	if record == nil {
		record = &domain.AccountingRecord{PropertyID: propertyID}
	}
	return response.Success(c, message, record, nil)
}

// POST /api/v1/cashflow/expense
func (h *Handlers) Expense(c *fiber.Ctx) error {
	return h.amount(c, h.Service.RecordOperatingExpense, "Operating expense recorded")
}

// POST /api/v1/cashflow/reserve/allocate
func (h *Handlers) AllocateReserve(c *fiber.Ctx) error {
	return h.amount(c, h.Service.AllocateWorkingCapital, "Working capital allocated")
}

// POST /api/v1/cashflow/reserve/release
func (h *Handlers) ReleaseReserve(c *fiber.Ctx) error {
	return h.amount(c, h.Service.ReleaseWorkingCapital, "Working capital released")
}

// POST /api/v1/cashflow/capex: pays the proposer out of the vault against an approved proposal.
func (h *Handlers) Capex(c *fiber.Ctx) error {
	var req CapexRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.RecordCapex(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Amount, req.ProposalID); err != nil {
		return response.LedgerError(c, err)
	}
	return h.record(c, req.PropertyID, "CapEx recorded")
}

// POST /api/v1/cashflow/reset-period
func (h *Handlers) ResetPeriod(c *fiber.Ctx) error {
	var req PeriodRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.ResetPeriod(c.UserContext(), middleware.Caller(c), req.PropertyID); err != nil {
		return response.LedgerError(c, err)
	}
	return h.record(c, req.PropertyID, "Accounting period reset")
}

// GET /api/v1/cashflow/:property_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	return h.record(c, id, "Accounting data fetched successfully")
}

// GET /api/v1/cashflow/:property_id/distributable
func (h *Handlers) Distributable(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	amount, err := h.Service.DistributableCashFlow(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Distributable cash flow fetched", fiber.Map{"property_id": id, "distributable": amount}, nil)
}
