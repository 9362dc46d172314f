package settlement

import (
	"rentledger-backend/internal/application/settlement"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *settlement.Service
}

type MintRequest struct {
	To     string `json:"to" validate:"required,address"`
	Amount uint64 `json:"amount"`
}

type TransferRequest struct {
	From   string  `json:"from" validate:"omitempty,address"`
	To     string  `json:"to" validate:"required,address"`
	Amount uint64  `json:"amount"`
	Memo   *string `json:"memo" validate:"omitempty,max=34"`
}

// POST /api/v1/settlement/mint: deployer only; the bridge landing point.
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var req MintRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Mint(c.UserContext(), middleware.Caller(c), domain.Address(req.To), req.Amount); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Settlement asset minted", fiber.Map{"to": req.To, "amount": req.Amount}, nil)
}

// POST /api/v1/settlement/transfer: from defaults to the caller.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	caller := middleware.Caller(c)
	from := domain.Address(req.From)
	if from.IsZero() {
		from = caller
	}
	if err := h.Service.Transfer(c.UserContext(), caller, req.Amount, from, domain.Address(req.To), req.Memo); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Settlement asset transferred", fiber.Map{"from": from, "to": req.To, "amount": req.Amount}, nil)
}

// GET /api/v1/settlement/balance/:account?history=true
func (h *Handlers) Balance(c *fiber.Ctx) error {
	account := domain.Address(c.Params("account"))
	balance, err := h.Service.BalanceOf(c.UserContext(), account)
	if err != nil {
		return response.LedgerError(c, err)
	}
	data := fiber.Map{"account": account, "balance": balance}
	if c.QueryBool("history") {
		history, err := h.Service.History(c.UserContext(), account)
		if err != nil {
			return response.LedgerError(c, err)
		}
		data["history"] = history
	}
	return response.Success(c, "Balance fetched successfully", data, nil)
}
