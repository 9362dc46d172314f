package events

import (
	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *ledgerevents.Service
}

// GET /api/v1/events/:property_id
func (h *Handlers) ListByProperty(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	events, err := h.Service.ListByProperty(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Events fetched successfully", events, fiber.Map{"count": len(events)})
}
