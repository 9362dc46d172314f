package domain

import (
	"errors"
	"fmt"
)

// Kind groups ledger result codes by the way a caller recovers from them.
type Kind string

const (
	KindAuthorization Kind = "authorization"
	KindValidation    Kind = "validation"
	KindState         Kind = "state"
	KindBusiness      Kind = "business"
)

// Error is an immutable ledger result code. A failed operation returning an
// *Error leaves all state untouched.
type Error struct {
	Code int
	Name string
	Kind Kind
}

func NewError(code int, name string, kind Kind) *Error {
	return &Error{Code: code, Name: name, Kind: kind}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (u%d)", e.Name, e.Code)
}

// AsError unwraps err into a ledger *Error.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// ErrAmountOverflow is shared by every component that accumulates amounts.
var ErrAmountOverflow = NewError(900, "AmountOverflow", KindValidation)
