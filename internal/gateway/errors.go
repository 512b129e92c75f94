package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway failure
type Kind string

const (
	KindRateLimited     Kind = "rate_limited"
	KindPaymentRequired Kind = "payment_required"
	KindGatewayError    Kind = "gateway_error"
	KindUnknown         Kind = "unknown"
)

var (
	ErrRateLimited     = errors.New("rate limit exceeded, please try again later")
	ErrPaymentRequired = errors.New("payment required, please add credits to continue")
	ErrGateway         = errors.New("AI gateway error")
	ErrUnknown         = errors.New("unknown gateway error")
)

// Error is a typed gateway failure. Body keeps the collaborator's response text.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	msg := e.sentinel().Error()
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code a server should answer with for this error
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text shown to users for this error
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindPaymentRequired:
		return "Payment required. Please add credits to your workspace."
	case KindGatewayError:
		return "AI gateway error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Unknown error"
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindRateLimited:
		return ErrRateLimited
	case KindPaymentRequired:
		return ErrPaymentRequired
	case KindGatewayError:
		return ErrGateway
	}
	return ErrUnknown
}

// FromStatus classifies a non-2xx response
func FromStatus(status int, body string) *Error {
	kind := KindGatewayError
	switch status {
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	case http.StatusPaymentRequired:
		kind = KindPaymentRequired
	}
	return &Error{Kind: kind, Status: status, Body: body}
}

// Unknown wraps a failure that is not a classified HTTP status
func Unknown(err error) *Error {
	return &Error{Kind: KindUnknown, Err: err}
}

// KindOf returns the kind of a gateway error, KindUnknown for anything else
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindUnknown
}
