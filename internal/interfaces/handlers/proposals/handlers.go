package proposals

import (
	"rentledger-backend/internal/application/proposals"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/middleware"
	"rentledger-backend/internal/pkg/response"
	"rentledger-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *proposals.Service
}

type CreateRequest struct {
	PropertyID  uint64 `json:"property_id"`
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
}

type VoteRequest struct {
	PropertyID uint64 `json:"property_id"`
	ProposalID uint64 `json:"proposal_id"`
	Support    *bool  `json:"support" validate:"required"`
}

type FinalizeRequest struct {
	PropertyID uint64 `json:"property_id"`
	ProposalID uint64 `json:"proposal_id"`
}

// POST /api/v1/proposals/create
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	id, err := h.Service.CreateProposal(c.UserContext(), middleware.Caller(c), req.PropertyID, req.Amount, req.Description)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Proposal created", fiber.Map{"property_id": req.PropertyID, "proposal_id": id}, nil)
}

// POST /api/v1/proposals/vote: support=true votes for, false votes against.
func (h *Handlers) Vote(c *fiber.Ctx) error {
	var req VoteRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	caller := middleware.Caller(c)
	var err error
	if *req.Support {
		err = h.Service.VoteFor(c.UserContext(), caller, req.PropertyID, req.ProposalID)
	} else {
		err = h.Service.VoteAgainst(c.UserContext(), caller, req.PropertyID, req.ProposalID)
	}
	if err != nil {
		return response.LedgerError(c, err)
	}
	tally, err := h.Service.GetVotes(c.UserContext(), req.PropertyID, req.ProposalID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Vote recorded", tally, nil)
}

// POST /api/v1/proposals/finalize
func (h *Handlers) Finalize(c *fiber.Ctx) error {
	var req FinalizeRequest
	if err := validation.Body(c, &req); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Finalize(c.UserContext(), middleware.Caller(c), req.PropertyID, req.ProposalID); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Proposal approved", fiber.Map{"property_id": req.PropertyID, "proposal_id": req.ProposalID, "approved": true}, nil)
}

// GET /api/v1/proposals/:property_id/count
func (h *Handlers) Count(c *fiber.Ctx) error {
	id, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	count, err := h.Service.ProposalCount(c.UserContext(), id)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Proposal count fetched", fiber.Map{"property_id": id, "count": count}, nil)
}

// GET /api/v1/proposals/:property_id/:proposal_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	propertyID, proposalID, ok := ids(c)
	if !ok {
		return response.Error(c, "Invalid property_id or proposal_id", fiber.StatusBadRequest, nil)
	}
	proposal, err := h.Service.GetProposal(c.UserContext(), propertyID, proposalID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Proposal fetched successfully", proposal, nil)
}

// GET /api/v1/proposals/:property_id/:proposal_id/voters/:voter
func (h *Handlers) Voter(c *fiber.Ctx) error {
	propertyID, proposalID, ok := ids(c)
	if !ok {
		return response.Error(c, "Invalid property_id or proposal_id", fiber.StatusBadRequest, nil)
	}
	voter := domain.Address(c.Params("voter"))
	vote, err := h.Service.GetVote(c.UserContext(), propertyID, proposalID, voter)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Vote fetched successfully", fiber.Map{
		"voter":     voter,
		"has_voted": vote != nil,
		"vote":      vote,
	}, nil)
}

func ids(c *fiber.Ctx) (uint64, uint64, bool) {
	propertyID, ok := validation.ParseUint(c.Params("property_id"))
	if !ok {
		return 0, 0, false
	}
	proposalID, ok := validation.ParseUint(c.Params("proposal_id"))
	return propertyID, proposalID, ok
}
