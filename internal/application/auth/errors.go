package auth

import "errors"

var (
	ErrAddressPasswordRequired = errors.New("Address and password are required")
	ErrInvalidAddress          = errors.New("Invalid Address")
	ErrContractPrincipal       = errors.New("Contract principals cannot hold an account")
	ErrWeakPassword            = errors.New("Password must be at least 8 characters and contain a letter, a number and a special character")
	ErrAddressTaken            = errors.New("Account already registered")
	ErrUnknownAccount          = errors.New("Unknown account")
	ErrIncorrectPassword       = errors.New("Incorrect Password")
	ErrNotAuthenticated        = errors.New("Not authenticated")
)
