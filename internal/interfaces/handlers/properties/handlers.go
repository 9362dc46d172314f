package properties

import (
	"rentledger-backend/internal/application/registry"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *registry.Service
}

type MintRequest struct {
	Owner       string `json:"owner" validate:"required,address"`
	Location    string `json:"location"`
	Valuation   uint64 `json:"valuation"`
	MonthlyRent uint64 `json:"monthly_rent"`
	MetadataURI string `json:"metadata_uri"`
}

type TransferRequest struct {
	From string `json:"from" validate:"omitempty,address"`
	To   string `json:"to" validate:"required,address"`
}

// POST /api/v1/properties/mint
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var req MintRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	id, err := h.Service.Mint(c.UserContext(), middleware.Caller(c), registry.MintInput{
		Owner:       domain.Address(req.Owner),
		Location:    req.Location,
		Valuation:   req.Valuation,
		MonthlyRent: req.MonthlyRent,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Property minted", fiber.Map{"property_id": id}, nil)
}

// POST /api/v1/properties/:id/transfer: from defaults to the caller.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("id"))
	if !ok {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	var req TransferRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	caller := middleware.Caller(c)
	from := domain.Address(req.From)
	if from.IsZero() {
		from = caller
	}
	if err := h.Service.Transfer(c.UserContext(), caller, id, from, domain.Address(req.To)); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Property transferred", fiber.Map{"property_id": id, "owner": req.To}, nil)
}

// GET /api/v1/properties?owner=
func (h *Handlers) List(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext(), domain.Address(c.Query("owner")))
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Properties fetched successfully", list, fiber.Map{"count": len(list)})
}

// GET /api/v1/properties/last-id
func (h *Handlers) LastID(c *fiber.Ctx) error {
	last, err := h.Service.LastTokenID(c.UserContext())
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Last property id fetched", fiber.Map{"last_property_id": last}, nil)
}

// GET /api/v1/properties/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("id"))
	if !ok {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.GetProperty(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Property fetched successfully", property, nil)
}
