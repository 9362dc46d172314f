package shares

import "rentledger-backend/internal/domain"

var (
	ErrNotAuthorized       = domain.NewError(200, "NotAuthorized", domain.KindAuthorization)
	ErrInvalidSupply       = domain.NewError(201, "InvalidSupply", domain.KindValidation)
	ErrAlreadyInitialized  = domain.NewError(202, "AlreadyInitialized", domain.KindState)
	ErrNotFound            = domain.NewError(203, "NotFound", domain.KindState)
	ErrInvalidSender       = domain.NewError(204, "InvalidSender", domain.KindAuthorization)
	ErrInsufficientBalance = domain.NewError(205, "InsufficientBalance", domain.KindBusiness)
	ErrInvalidAmount       = domain.NewError(206, "InvalidAmount", domain.KindValidation)
	ErrInvalidRecipient    = domain.NewError(207, "InvalidRecipient", domain.KindValidation)
	ErrInvalidPropertyID   = domain.NewError(208, "InvalidPropertyId", domain.KindValidation)
	ErrInvalidMemo         = domain.NewError(209, "InvalidMemo", domain.KindValidation)
)

// MaxMemoLength matches the 34-byte memo of fungible-token transfers.
const MaxMemoLength = 34
