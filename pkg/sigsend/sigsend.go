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

// Package sigsend sends signals and changes dispositions in one call.
//
// Errors have the same shape as the rest of sigctl: an *errors.Error tagged
// with the operation that failed.
package sigsend

import (
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

func check(op string, sig linux.Signal) error {
	if !sig.IsValid() {
		return errors.InvalidSignal(op)
	}
	return nil
}

// Kill sends sig to pid. A pid of 0 means the calling process.
func Kill(pid int, sig linux.Signal) error {
	if err := check("kill", sig); err != nil {
		return err
	}
	if pid == 0 {
		pid = unix.Getpid()
	}
	return errors.FromErrno("kill", unix.Kill(pid, unix.Signal(sig)))
}

// Killpg sends sig to process group pgid. A pgid of 0 means the caller's
// process group.
func Killpg(pgid int, sig linux.Signal) error {
	if err := check("killpg", sig); err != nil {
		return err
	}
	if pgid == 0 {
		pgid = unix.Getpgrp()
	}
	return errors.FromErrno("killpg", unix.Kill(-pgid, unix.Signal(sig)))
}

// catchable returns an error for signals whose disposition cannot change.
func catchable(op string, sig linux.Signal) error {
	if err := check(op, sig); err != nil {
		return err
	}
	if sig == linux.SIGKILL || sig == linux.SIGSTOP {
		return errors.New(op, unix.EINVAL)
	}
	return nil
}

// Ignore sets sig to be ignored.
func Ignore(sig linux.Signal) error {
	if err := catchable("ignore.signal", sig); err != nil {
		return err
	}
	signal.Ignore(syscall.Signal(sig))
	return nil
}

// Default returns sig to its default behavior, undoing Ignore and any
// os/signal.Notify registrations for it.
func Default(sig linux.Signal) error {
	if err := catchable("default.signal", sig); err != nil {
		return err
	}
	signal.Reset(syscall.Signal(sig))
	return nil
}
