package vault

import "rentledger-backend/internal/domain"

var (
	ErrNotAuthorized       = domain.NewError(300, "NotAuthorized", domain.KindAuthorization)
	ErrInvalidAmount       = domain.NewError(301, "InvalidAmount", domain.KindValidation)
	ErrInvalidPropertyID   = domain.NewError(302, "InvalidPropertyId", domain.KindValidation)
	ErrNotAuthorizedCaller = domain.NewError(303, "NotAuthorizedCaller", domain.KindAuthorization)
	ErrPropertyNotFound    = domain.NewError(304, "PropertyNotFound", domain.KindState)
	ErrInsufficientBalance = domain.NewError(305, "InsufficientBalance", domain.KindBusiness)
	ErrInvalidRecipient    = domain.NewError(306, "InvalidRecipient", domain.KindValidation)
)
