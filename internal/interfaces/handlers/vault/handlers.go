package vault

import (
	"rentledger-backend/internal/application/ledger"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers needs the whole ledger because a deposit moves settlement funds and
// books rent in one transaction.
type Handlers struct {
	Ledger *ledger.Ledger
}

type AuthorizeRequest struct {
	Principal  string `json:"principal" validate:"required,address"`
	Authorized bool   `json:"authorized"`
}

type AmountRequest struct {
	PropertyID uint64 `json:"property_id"`
	Amount     uint64 `json:"amount"`
}

type WithdrawRequest struct {
	PropertyID uint64 `json:"property_id"`
	Recipient  string `json:"recipient" validate:"required,address"`
	Amount     uint64 `json:"amount"`
}

type PeriodRequest struct {
	PropertyID uint64 `json:"property_id"`
}

// POST /api/v1/vault/authorize
func (h *Handlers) Authorize(c *fiber.Ctx) error {
	var req AuthorizeRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	err := h.Ledger.Vault.SetAuthorized(c.UserContext(), middleware.Caller(c), domain.Address(req.Principal), req.Authorized)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Vault authorization updated", fiber.Map{
		"principal":  req.Principal,
		"authorized": req.Authorized,
	}, nil)
}

// POST /api/v1/vault/deposit: settlement caller→vault custody, then book the rent.
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	var req AmountRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Ledger.DepositRent(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	record, err := h.Ledger.Vault.RentRecord(c.UserContext(), req.PropertyID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Rent deposited", record, nil)
}

// POST /api/v1/vault/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	err := h.Ledger.Vault.Withdraw(c.UserContext(), middleware.Caller(c), req.PropertyID, domain.Address(req.Recipient), req.Amount)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Withdrawal complete", fiber.Map{
		"property_id": req.PropertyID,
		"recipient":   req.Recipient,
		"amount":      req.Amount,
	}, nil)
}

// POST /api/v1/vault/reset-period
func (h *Handlers) ResetPeriod(c *fiber.Ctx) error {
	var req PeriodRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Ledger.Vault.ResetPeriod(c.UserContext(), middleware.Caller(c), req.PropertyID); err != nil {
		return response.LedgerError(c, err)
	}
	period, err := h.Ledger.Vault.CurrentPeriod(c.UserContext(), req.PropertyID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Vault period reset", fiber.Map{"property_id": req.PropertyID, "current_period": period}, nil)
}

// GET /api/v1/vault/:property_id: a property with no deposits reads as all zero.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	record, err := h.Ledger.Vault.RentRecord(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	if record == nil {
		record = &domain.RentRecord{PropertyID: id}
	}
	periodRent, err := h.Ledger.Vault.CurrentPeriodRent(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Vault record fetched successfully", fiber.Map{
		"property_id":         record.PropertyID,
		"balance":             record.Balance,
		"rent_collected":      record.RentCollected,
		"current_period":      record.CurrentPeriod,
		"current_period_rent": periodRent,
	}, nil)
}

// GET /api/v1/vault/:property_id/periods/:period
func (h *Handlers) PeriodRent(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	period, ok := validation.ParseUint(c.Params("period"))
	if !ok {
		return response.Error(c, "Invalid period", fiber.StatusBadRequest, nil)
	}
	amount, err := h.Ledger.Vault.RentForPeriod(c.UserContext(), id, period)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Period rent fetched successfully", fiber.Map{
		"property_id": id,
		"period":      period,
		"amount":      amount,
	}, nil)
}
