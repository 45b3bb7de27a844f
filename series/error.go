// Copyright 2025 MacroFeed

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package series

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a fetch error for the transport layer above this library.
type Kind int

const (
	// KindInternal is any unexpected failure during normalization.
	KindInternal Kind = iota
	// KindBadInput is a malformed request: unknown source, empty batch,
	// invalid symbol format.
	KindBadInput
	// KindNotFound is an unknown series, variable or dataset at the provider.
	KindNotFound
	// KindUpstream is a network, timeout, non-2xx or malformed-payload
	// failure of a provider.
	KindUpstream
	// KindUnavailable means the adapter could not be constructed, typically a
	// missing credential.
	KindUnavailable
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad input"
	case KindNotFound:
		return "not found"
	case KindUpstream:
		return "upstream failure"
	case KindUnavailable:
		return "service unavailable"
	}
	return "internal error"
}

// HTTPStatus maps the kind to the status code the (external) transport layer
// should report.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error is the uniform fetch error emitted at every adapter boundary. Raw
// provider failures never propagate unwrapped.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

var _ error = &Error{}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying provider error, if any.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, cause error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// BadInput creates a bad-input error.
func BadInput(format string, args ...interface{}) *Error {
	return newError(KindBadInput, nil, format, args...)
}

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, nil, format, args...)
}

// Upstream wraps a provider-side failure. A nil cause is allowed.
func Upstream(cause error, format string, args ...interface{}) *Error {
	return newError(KindUpstream, cause, format, args...)
}

// Unavailable creates a service-unavailable error.
func Unavailable(format string, args ...interface{}) *Error {
	return newError(KindUnavailable, nil, format, args...)
}

// Internal wraps an unexpected failure.
func Internal(cause error, format string, args ...interface{}) *Error {
	return newError(KindInternal, cause, format, args...)
}

// KindOf extracts the kind of err. Errors that did not originate at an
// adapter boundary classify as internal.
func KindOf(err error) Kind {
	var e *Error
	if goerrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError converts err into a boundary error, passing through errors that
// already carry a kind and classifying everything else as internal.
func AsError(err error) *Error {
	var e *Error
	if goerrors.As(err, &e) {
		return e
	}
	return Internal(err, "unexpected error")
}
