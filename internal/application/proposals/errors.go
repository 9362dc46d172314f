package proposals

import "rentledger-backend/internal/domain"

var (
	ErrNotAuthorized      = domain.NewError(400, "NotAuthorized", domain.KindAuthorization)
	ErrInvalidPropertyID  = domain.NewError(401, "InvalidPropertyId", domain.KindValidation)
	ErrInvalidAmount      = domain.NewError(402, "InvalidAmount", domain.KindValidation)
	ErrInvalidDescription = domain.NewError(403, "InvalidDescription", domain.KindValidation)
	ErrInvalidProposalID  = domain.NewError(404, "InvalidProposalId", domain.KindValidation)
	ErrProposalNotFound   = domain.NewError(405, "ProposalNotFound", domain.KindState)
	ErrNoShares           = domain.NewError(406, "NoShares", domain.KindBusiness)
	ErrAlreadyVoted       = domain.NewError(407, "AlreadyVoted", domain.KindState)
	ErrAlreadyApproved    = domain.NewError(408, "AlreadyApproved", domain.KindState)
	ErrInsufficientVotes  = domain.NewError(409, "InsufficientVotes", domain.KindBusiness)
)
