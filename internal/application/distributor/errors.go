package distributor

import "rentledger-backend/internal/domain"

var (
	ErrNotPropertyOwner     = domain.NewError(600, "NotPropertyOwner", domain.KindAuthorization)
	ErrInvalidPropertyID    = domain.NewError(601, "InvalidPropertyId", domain.KindValidation)
	ErrNoDistributable      = domain.NewError(602, "NoDistributable", domain.KindBusiness)
	ErrAlreadyDistributed   = domain.NewError(603, "AlreadyDistributed", domain.KindState)
	ErrDistributionNotFound = domain.NewError(604, "DistributionNotFound", domain.KindState)
	ErrAlreadyClaimed       = domain.NewError(605, "AlreadyClaimed", domain.KindState)
	ErrNothingToClaim       = domain.NewError(606, "NothingToClaim", domain.KindBusiness)
	ErrInvalidUser          = domain.NewError(607, "InvalidUser", domain.KindValidation)
)
