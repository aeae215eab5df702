package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the failure classes of a crawl
type ErrorType string

const (
	// ErrorTypeTransport covers connection failures, timeouts, non-2xx
	// statuses and unreadable bodies. Ends the run.
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeParse means a page body lacked the items or cursor. Ends the run.
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeDownload is a single image that could not be fetched or saved.
	ErrorTypeDownload ErrorType = "download"
	// ErrorTypePersistence covers cursor, cookie and dump file writes.
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeAuth means interactive credential acquisition failed.
	ErrorTypeAuth ErrorType = "auth"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error is a classified scraper error
type Error struct {
	Type    ErrorType
	Message string
	// Code is the HTTP status when one was received
	Code int
	// Body is the raw payload of a page that failed to parse
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error wrapping cause, which may be nil
func New(errType ErrorType, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Err: cause}
}

// TypeOf returns the type of the first *Error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries the given type
func Is(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsHard reports whether err ends a crawl run
func IsHard(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeTransport, ErrorTypeParse:
		return true
	default:
		return false
	}
}

// BodyOf returns the raw page body attached to a parse error
func BodyOf(err error) []byte {
	var e *Error
	if errors.As(err, &e) {
		return e.Body
	}
	return nil
}
