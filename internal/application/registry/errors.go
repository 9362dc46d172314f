package registry

import "rentledger-backend/internal/domain"

var (
	ErrNotAuthorized      = domain.NewError(100, "NotAuthorized", domain.KindAuthorization)
	ErrNotTokenOwner      = domain.NewError(101, "NotTokenOwner", domain.KindAuthorization)
	ErrPropertyNotExists  = domain.NewError(102, "PropertyNotExists", domain.KindState)
	ErrInvalidLocation    = domain.NewError(103, "InvalidLocation", domain.KindValidation)
	ErrInvalidValuation   = domain.NewError(104, "InvalidValuation", domain.KindValidation)
	ErrInvalidRent        = domain.NewError(105, "InvalidRent", domain.KindValidation)
	ErrInvalidMetadataURI = domain.NewError(106, "InvalidMetadataUri", domain.KindValidation)
	ErrInvalidOwner       = domain.NewError(107, "InvalidOwner", domain.KindValidation)
	ErrInvalidRecipient   = domain.NewError(108, "InvalidRecipient", domain.KindValidation)
	ErrNotFound           = domain.NewError(109, "NotFound", domain.KindState)
)
