package shares

import (
	"rentledger-backend/internal/application/shares"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *shares.Service
}

type InitializeRequest struct {
	NFTContract   string `json:"nft_contract" validate:"required,address"`
	PropertyID    uint64 `json:"property_id"`
	TotalSupply   uint64 `json:"total_supply"`
	InitialHolder string `json:"initial_holder" validate:"required,address"`
}

type MintRequest struct {
	PropertyID uint64 `json:"property_id"`
	Amount     uint64 `json:"amount"`
	Recipient  string `json:"recipient" validate:"required,address"`
}

type TransferRequest struct {
	PropertyID uint64  `json:"property_id"`
	Amount     uint64  `json:"amount"`
	Sender     string  `json:"sender" validate:"omitempty,address"`
	Recipient  string  `json:"recipient" validate:"required,address"`
	Memo       *string `json:"memo"`
}

// POST /api/v1/shares/initialize
func (h *Handlers) Initialize(c *fiber.Ctx) error {
	var req InitializeRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	err := h.Service.Initialize(c.UserContext(), middleware.Caller(c), domain.Address(req.NFTContract),
		req.PropertyID, req.TotalSupply, domain.Address(req.InitialHolder))
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Shares initialized", fiber.Map{
		"property_id":  req.PropertyID,
		"total_supply": req.TotalSupply,
	}, nil)
}

// POST /api/v1/shares/mint
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var req MintRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Mint(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Amount, domain.Address(req.Recipient)); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Shares minted", fiber.Map{"property_id": req.PropertyID, "amount": req.Amount}, nil)
}

// POST /api/v1/shares/transfer: sender defaults to the caller.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	caller := middleware.Caller(c)
	sender := domain.Address(req.Sender)
	if sender.IsZero() {
		sender = caller
	}
	err := h.Service.Transfer(c.UserContext(), caller, req.PropertyID, req.Amount, sender, domain.Address(req.Recipient), req.Memo)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Shares transferred", fiber.Map{"property_id": req.PropertyID, "amount": req.Amount}, nil)
}

// GET /api/v1/shares/:property_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	data, err := h.Service.PropertySharesData(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	if data == nil {
		return response.LedgerError(c, shares.ErrNotFound)
	}
	return response.Success(c, "Share data fetched successfully", data, nil)
}

// GET /api/v1/shares/:property_id/holders
func (h *Handlers) Holders(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	holders, err := h.Service.Holders(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Holders fetched successfully", holders, fiber.Map{"count": len(holders)})
}

// GET /api/v1/shares/:property_id/transfers
func (h *Handlers) Transfers(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	transfers, err := h.Service.Transfers(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Transfers fetched successfully", transfers, fiber.Map{"count": len(transfers)})
}

// GET /api/v1/shares/:property_id/balance/:holder
func (h *Handlers) Balance(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	holder := c.Params("holder")
	balance, err := h.Service.BalanceOf(c.UserContext(), id, domain.Address(holder))
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{
		"property_id": id,
		"holder":      holder,
		"balance":     balance,
	}, nil)
}
