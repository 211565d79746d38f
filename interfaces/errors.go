package interfaces

import (
	"errors"
	"fmt"
)

// ResolutionErrorCode identifies the kind of a resolution failure.
type ResolutionErrorCode string

const (
	// UnregisteredDomain means the domain has neither an owner nor a resolver.
	UnregisteredDomain ResolutionErrorCode = "UnregisteredDomain"
	// UnspecifiedResolver means the domain is owned but has no resolver set.
	UnspecifiedResolver ResolutionErrorCode = "UnspecifiedResolver"
	// RecordNotFound means the resolver has no value for the requested key.
	RecordNotFound ResolutionErrorCode = "RecordNotFound"
	// UnspecifiedCurrency means no ticker was given or the ticker's address is unset.
	UnspecifiedCurrency ResolutionErrorCode = "UnspecifiedCurrency"
	// UnsupportedDomain means no configured naming service claims the domain.
	UnsupportedDomain ResolutionErrorCode = "UnsupportedDomain"
	// MethodNotSupported means the naming service deliberately does not offer the operation.
	MethodNotSupported ResolutionErrorCode = "MethodNotSupported"
	// ConfigurationError means the services were set up with invalid parameters.
	ConfigurationError ResolutionErrorCode = "ConfigurationError"
	// NamingServiceDown means the contract-call transport failed.
	NamingServiceDown ResolutionErrorCode = "NamingServiceDown"
)

// Sentinels for errors.Is matching by code.
var (
	ErrUnregisteredDomain  = &ResolutionError{Code: UnregisteredDomain}
	ErrUnspecifiedResolver = &ResolutionError{Code: UnspecifiedResolver}
	ErrRecordNotFound      = &ResolutionError{Code: RecordNotFound}
	ErrUnspecifiedCurrency = &ResolutionError{Code: UnspecifiedCurrency}
	ErrUnsupportedDomain   = &ResolutionError{Code: UnsupportedDomain}
	ErrMethodNotSupported  = &ResolutionError{Code: MethodNotSupported}
	ErrConfiguration       = &ResolutionError{Code: ConfigurationError}
	ErrNamingServiceDown   = &ResolutionError{Code: NamingServiceDown}
)

// ResolutionError is the single error type raised by every resolution path.
// The context fields are optional and only set when relevant to the code.
type ResolutionError struct {
	Code           ResolutionErrorCode
	Domain         string
	RecordName     string
	CurrencyTicker string
	Method         string

	// Err is the underlying cause, typically a transport failure.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var msg string
	switch e.Code {
	case UnregisteredDomain:
		msg = fmt.Sprintf("domain %s is not registered", e.Domain)
	case UnspecifiedResolver:
		msg = fmt.Sprintf("domain %s is not configured", e.Domain)
	case RecordNotFound:
		msg = fmt.Sprintf("no %s record found for %s", e.RecordName, e.Domain)
	case UnspecifiedCurrency:
		if e.CurrencyTicker == "" {
			msg = fmt.Sprintf("no currency ticker given for %s", e.Domain)
		} else {
			msg = fmt.Sprintf("domain %s has no %s attached to it", e.Domain, e.CurrencyTicker)
		}
	case UnsupportedDomain:
		msg = fmt.Sprintf("domain %s is not supported", e.Domain)
	case MethodNotSupported:
		msg = fmt.Sprintf("method %s is not supported for %s", e.Method, e.Domain)
	case ConfigurationError:
		msg = "invalid configuration"
	case NamingServiceDown:
		msg = fmt.Sprintf("naming service call %s failed", e.Method)
	default:
		msg = string(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is matches any ResolutionError with the same code, so the package sentinels
// can be used with errors.Is regardless of context.
func (e *ResolutionError) Is(target error) bool {
	t, ok := target.(*ResolutionError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewConfigurationError creates a ConfigurationError with a formatted cause.
func NewConfigurationError(format string, args ...any) *ResolutionError {
	return &ResolutionError{Code: ConfigurationError, Err: fmt.Errorf(format, args...)}
}

// NewTransportError wraps a transport failure for the named contract method.
func NewTransportError(method string, err error) *ResolutionError {
	return &ResolutionError{Code: NamingServiceDown, Method: method, Err: err}
}

// CodeOf returns the code of the first ResolutionError in err's chain.
func CodeOf(err error) (ResolutionErrorCode, bool) {
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		return rerr.Code, true
	}
	return "", false
}

// IgnoreCode substitutes the zero value for a failure carrying exactly code.
// Every other error passes through unchanged.
func IgnoreCode[T any](value T, err error, code ResolutionErrorCode) (T, error) {
	if err == nil {
		return value, nil
	}
	if c, ok := CodeOf(err); ok && c == code {
		var zero T
		return zero, nil
	}
	return value, err
}
