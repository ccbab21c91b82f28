package bankreg

import (
	"errors"
	"fmt"
)

var (
	ErrInternalServer = errors.New("internal server error")
	ErrUnavailable    = errors.New("service unavailable")
)

// ErrInvalidArgument is returned by Account when an amount is negative or
// exceeds the balance on withdrawal. Error returns Message verbatim.
type ErrInvalidArgument struct {
	Message string `json:"message"`
}

func (e ErrInvalidArgument) Error() string {
	return e.Message
}

type ErrNotFound struct {
	ID int64 `json:"id"`
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("No account found with id: %d", e.ID)
}

type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

func errNegativeAmount(amount float64) error {
	return ErrInvalidArgument{Message: "Negative amount: " + FormatAmount(amount)}
}

func errCannotWithdraw(amount, balance float64) error {
	return ErrInvalidArgument{
		Message: fmt.Sprintf("Cannot withdraw %s from %s", FormatAmount(amount), FormatAmount(balance)),
	}
}

// isDomainError reports whether err is an expected outcome of a well formed
// request rather than a fault of the service itself.
func isDomainError(err error) bool {
	return errors.As(err, &ErrInvalidArgument{}) ||
		errors.As(err, &ErrNotFound{}) ||
		errors.As(err, &ErrBadRequest{})
}
