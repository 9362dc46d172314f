package cashflow

import "rentledger-backend/internal/domain"

var (
	ErrNotPropertyOwner      = domain.NewError(500, "NotPropertyOwner", domain.KindAuthorization)
	ErrInvalidAmount         = domain.NewError(501, "InvalidAmount", domain.KindValidation)
	ErrProposalNotApproved   = domain.NewError(502, "ProposalNotApproved", domain.KindBusiness)
	ErrInsufficientReserve   = domain.NewError(503, "InsufficientReserve", domain.KindBusiness)
	ErrNotAuthorized         = domain.NewError(504, "NotAuthorized", domain.KindAuthorization)
	ErrInvalidPropertyID     = domain.NewError(505, "InvalidPropertyId", domain.KindValidation)
	ErrExceedsApprovedAmount = domain.NewError(506, "ExceedsApprovedAmount", domain.KindBusiness)
)
