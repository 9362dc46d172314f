package settlement

import "rentledger-backend/internal/domain"

var (
	ErrNotAuthorized     = domain.NewError(700, "NotAuthorized", domain.KindAuthorization)
	ErrInvalidAmount     = domain.NewError(701, "InvalidAmount", domain.KindValidation)
	ErrInsufficientFunds = domain.NewError(702, "InsufficientFunds", domain.KindBusiness)
	ErrInvalidSender     = domain.NewError(703, "InvalidSender", domain.KindAuthorization)
	ErrInvalidRecipient  = domain.NewError(704, "InvalidRecipient", domain.KindValidation)
)
