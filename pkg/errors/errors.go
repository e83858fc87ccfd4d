// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors holds the error type returned by every signal operation.
//
// An *Error names the failing call with a dotted tag ("wait.sigprocmask",
// "block.sigaddset") and carries the errno reported by the host.
package errors

import (
	stderrors "errors"

	"golang.org/x/sys/unix"
)

// Kind classifies an *Error.
type Kind int

const (
	// KindOS is a failed host system call.
	KindOS Kind = iota

	// KindInvalidSignal is a signal number that is out of range or
	// reserved.
	KindInvalidSignal

	// KindThreadSpawn means the threaded wait could not start its waiter.
	KindThreadSpawn
)

// String implements fmt.Stringer.String.
func (k Kind) String() string {
	switch k {
	case KindOS:
		return "os error"
	case KindInvalidSignal:
		return "invalid signal"
	case KindThreadSpawn:
		return "thread spawn error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidSignal = stderrors.New("invalid signal")
	ErrThreadSpawn   = stderrors.New("unable to start waiter")
)

// Error represents a failed signal operation.
type Error struct {
	op    string
	errno unix.Errno
	kind  Kind
}

// New creates a new *Error for a failed system call.
func New(op string, errno unix.Errno) *Error {
	return &Error{
		op:    op,
		errno: errno,
		kind:  KindOS,
	}
}

// InvalidSignal creates a new *Error for a signal number op refused. It
// carries EINVAL.
func InvalidSignal(op string) *Error {
	return &Error{
		op:    op,
		errno: unix.EINVAL,
		kind:  KindInvalidSignal,
	}
}

// ThreadSpawn creates a new *Error for a waiter that failed to start.
func ThreadSpawn(op string, errno unix.Errno) *Error {
	return &Error{
		op:    op,
		errno: errno,
		kind:  KindThreadSpawn,
	}
}

// FromErrno converts err to an *Error tagged with op. A nil err stays nil.
// Errors that are not errnos are reported as EINVAL.
func FromErrno(op string, err error) error {
	if err == nil {
		return nil
	}
	var e unix.Errno
	if !stderrors.As(err, &e) {
		e = unix.EINVAL
	}
	return New(op, e)
}

// Error implements error.Error.
func (e *Error) Error() string {
	if e.kind == KindInvalidSignal {
		return e.op + ": " + e.kind.String()
	}
	return e.op + ": " + e.errno.Error()
}

// Op returns the tag of the call that failed.
func (e *Error) Op() string { return e.op }

// Errno returns the underlying errno value.
func (e *Error) Errno() unix.Errno { return e.errno }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap returns the errno, so errors.Is(err, unix.EINVAL) works.
func (e *Error) Unwrap() error { return e.errno }

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidSignal:
		return e.kind == KindInvalidSignal
	case ErrThreadSpawn:
		return e.kind == KindThreadSpawn
	}
	return false
}
