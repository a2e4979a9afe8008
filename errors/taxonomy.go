/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strconv"
)

// Source identifies the layer an Error originated in.
type Source int

const (
	WebService Source = iota + 1
	Services
	Business
	DataAccess
)

var sourceNames = map[Source]string{
	WebService: "WEB_SERVICE",
	Services:   "SERVICES",
	Business:   "BUSINESS",
	DataAccess: "DATA_ACCESS",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "Source(" + strconv.Itoa(int(s)) + ")"
}

func (s Source) valid() bool {
	_, ok := sourceNames[s]
	return ok
}

// Type classifies what went wrong. Its value is the two-digit code suffix.
type Type int

const (
	InvalidType                   Type = 2
	MissingArgument               Type = 3
	InvalidRequest                Type = 4
	AccessNotAllowed              Type = 5
	Unauthentication              Type = 6
	Unauthorized                  Type = 7
	ProfileNotFound               Type = 8
	CredentialsMismatch           Type = 9
	OperationUnavailable          Type = 10
	ResourceNotFound              Type = 11
	ResourceExists                Type = 12
	AccountExists                 Type = 13
	Unknown                       Type = 14
	ResourceUnavailable           Type = 15
	Validation                    Type = 16
	AuthenticationPolicy          Type = 17
	Throttling                    Type = 18
	ProvisionedThroughputExceeded Type = 19
	RoleNotFound                  Type = 20
	AccountBlocked                Type = 21
)

var typeNames = map[Type]string{
	InvalidType:                   "INVALID_TYPE",
	MissingArgument:               "MISSING_ARGUMENT",
	InvalidRequest:                "INVALID_REQUEST",
	AccessNotAllowed:              "ACCESS_NOT_ALLOWED",
	Unauthentication:              "UNAUTHENTICATION",
	Unauthorized:                  "UNAUTHORIZED",
	ProfileNotFound:               "PROFILE_NOT_FOUND",
	CredentialsMismatch:           "CREDENTIALS_MISMATCH",
	OperationUnavailable:          "OPERATION_UNAVAILABLE",
	ResourceNotFound:              "RESOURCE_NOT_FOUND",
	ResourceExists:                "RESOURCE_EXISTS",
	AccountExists:                 "ACCOUNT_EXISTS",
	Unknown:                       "UNKNOWN",
	ResourceUnavailable:           "RESOURCE_UNAVAILABLE",
	Validation:                    "VALIDATION",
	AuthenticationPolicy:          "AUTHENTICATION_POLICY",
	Throttling:                    "THROTTLING",
	ProvisionedThroughputExceeded: "PROVISIONED_THROUGHPUT_EXCEEDED",
	RoleNotFound:                  "ROLE_NOT_FOUND",
	AccountBlocked:                "ACCOUNT_BLOCKED",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

func (t Type) valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Error is a classified failure delivered through a future's error path.
type Error struct {
	Source  Source
	Type    Type
	Message string
	Cause   error
}

// New builds a classified error.
func New(source Source, typ Type, message string) *Error {
	return &Error{Source: source, Type: typ, Message: message}
}

// Newf builds a classified error with a formatted message.
func Newf(source Source, typ Type, format string, args ...any) *Error {
	return New(source, typ, fmt.Sprintf(format, args...))
}

// Wrap classifies err, keeping it as the cause. The message is err's text.
func Wrap(source Source, typ Type, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Source: source, Type: typ, Message: err.Error(), Cause: err}
}

func (e *Error) Unwrap() error { return e.Cause }

// Code returns the three digit code: one digit of source, two of type.
func (e *Error) Code() string {
	return fmt.Sprintf("%d%02d", int(e.Source), int(e.Type))
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s/%s", e.Code(), e.Source, e.Type)
	}
	return fmt.Sprintf("%s %s/%s: %s", e.Code(), e.Source, e.Type, e.Message)
}

// Is matches another *Error of the same type, and the package sentinels
// that share its meaning.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Type == e.Type && (t.Source == 0 || t.Source == e.Source)
	}
	switch target {
	case ErrNotFound:
		return e.Type == ResourceNotFound
	case ErrAlreadyExists:
		return e.Type == ResourceExists
	case ErrInvalidInput:
		return e.Type == Validation || e.Type == InvalidRequest || e.Type == MissingArgument
	}
	return false
}

// OfType returns a target for errors.Is that matches any source.
func OfType(t Type) *Error {
	return &Error{Type: t}
}

// ParseCode decodes a three digit code. Anything other than exactly three
// decimal digits fails. An unknown source digit decodes as WebService and an
// unknown type decodes as Unknown.
func ParseCode(code, message string) (*Error, error) {
	if len(code) != 3 {
		return nil, fmt.Errorf("error code %q must have exactly 3 digits", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("error code %q must be numeric", code)
		}
	}

	source := Source(code[0] - '0')
	if !source.valid() {
		source = WebService
	}
	n, _ := strconv.Atoi(code[1:])
	typ := Type(n)
	if !typ.valid() {
		typ = Unknown
	}
	return New(source, typ, message), nil
}

// MustParseCode is like ParseCode but panics on a malformed code.
func MustParseCode(code, message string) *Error {
	e, err := ParseCode(code, message)
	if err != nil {
		panic(err)
	}
	return e
}

// FromProvider converts a provider error callback into an Error. Codes in
// the taxonomy decode directly; anything else becomes DataAccess/Unknown.
func FromProvider(code int, message string) *Error {
	if code >= 100 && code <= 999 {
		source, typ := Source(code/100), Type(code%100)
		if source.valid() && typ.valid() {
			return New(source, typ, message)
		}
	}
	return Newf(DataAccess, Unknown, "provider code %d: %s", code, message)
}

// CodeOf returns the provider code for err, as delivered to error callbacks.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		n, _ := strconv.Atoi(e.Code())
		return n
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return code(DataAccess, ResourceNotFound)
	case errors.Is(err, ErrAlreadyExists):
		return code(DataAccess, ResourceExists)
	case errors.Is(err, ErrInvalidInput):
		return code(DataAccess, Validation)
	case errors.Is(err, ErrConditionFailed):
		return code(DataAccess, InvalidRequest)
	case errors.Is(err, ErrTimeout):
		return code(DataAccess, ResourceUnavailable)
	}
	return code(DataAccess, Unknown)
}

func code(s Source, t Type) int {
	return int(s)*100 + int(t)
}
