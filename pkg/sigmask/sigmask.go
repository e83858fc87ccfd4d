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

// Package sigmask controls the signal mask of the calling thread.
//
// The Go runtime schedules goroutines over many OS threads, so the mask that
// these functions manipulate is the mask of whichever thread the goroutine is
// running on. Callers that need a mask to survive between calls must hold
// runtime.LockOSThread for the duration.
//
// Every mutating operation builds its complete set first and then issues a
// single rt_sigprocmask call, so an invalid signal never leaves the mask
// partially updated.
package sigmask

import (
	"fmt"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

// BuildSet returns the set containing signals. If any signal is out of range
// or reserved, no set is returned and the error is tagged "<op>.sigaddset".
func BuildSet(op string, signals ...linux.Signal) (linux.SignalSet, error) {
	var set linux.SignalSet
	for _, sig := range signals {
		if !sig.IsUsable() {
			return 0, errors.InvalidSignal(op + ".sigaddset")
		}
		set |= linux.SignalSetOf(sig)
	}
	return set, nil
}

func setMask(op string, how int, set linux.SignalSet) (linux.SignalSet, error) {
	old, errno := procmask(how, &set)
	if errno != 0 {
		return 0, errors.New(op+".sigprocmask", errno)
	}
	return old, nil
}

// Block adds signals to the mask.
func Block(signals ...linux.Signal) error {
	set, err := BuildSet("block", signals...)
	if err != nil {
		return err
	}
	_, err = setMask("block", linux.SIG_BLOCK, set)
	return err
}

// Unblock removes signals from the mask.
func Unblock(signals ...linux.Signal) error {
	set, err := BuildSet("unblock", signals...)
	if err != nil {
		return err
	}
	_, err = setMask("unblock", linux.SIG_UNBLOCK, set)
	return err
}

// BlockAll adds every usable signal to the mask. The kernel keeps SIGKILL and
// SIGSTOP deliverable regardless.
func BlockAll() error {
	_, err := setMask("blockall", linux.SIG_BLOCK, linux.FullSignalSet)
	return err
}

// UnblockAll removes every usable signal from the mask.
func UnblockAll() error {
	_, err := setMask("unblockall", linux.SIG_UNBLOCK, linux.FullSignalSet)
	return err
}

// IsBlocked reports whether every signal in signals is blocked. notBlocked
// lists the queried signals that are not, in query order. The mask is not
// modified.
func IsBlocked(signals ...linux.Signal) (allBlocked bool, notBlocked []linux.Signal, err error) {
	for _, sig := range signals {
		if !sig.IsUsable() {
			return false, nil, errors.InvalidSignal("isblock.sigismember")
		}
	}
	cur, err := Current("isblock")
	if err != nil {
		return false, nil, err
	}
	for _, sig := range signals {
		if !cur.Contains(sig) {
			notBlocked = append(notBlocked, sig)
		}
	}
	return len(notBlocked) == 0, notBlocked, nil
}

// Current returns the current mask. Errors are tagged "<op>.sigprocmask".
func Current(op string) (linux.SignalSet, error) {
	old, errno := procmask(linux.SIG_BLOCK, nil)
	if errno != 0 {
		return 0, errors.New(op+".sigprocmask", errno)
	}
	return old, nil
}

// Pending returns the signals pending for the calling thread or the process.
// Errors are tagged "<op>.sigpending".
func Pending(op string) (linux.SignalSet, error) {
	set, errno := pending()
	if errno != 0 {
		return 0, errors.New(op+".sigpending", errno)
	}
	return set, nil
}

// SavedMask is a snapshot of the mask taken before it was altered. It must be
// restored exactly once.
type SavedMask struct {
	op       string
	mask     linux.SignalSet
	restored bool
}

// Save snapshots the current mask.
func Save(op string) (*SavedMask, error) {
	cur, err := Current(op)
	if err != nil {
		return nil, err
	}
	return &SavedMask{op: op, mask: cur}, nil
}

// BlockSaved adds set to the mask and returns the mask as it was before, in a
// single syscall.
func BlockSaved(op string, set linux.SignalSet) (*SavedMask, error) {
	old, err := setMask(op, linux.SIG_BLOCK, set)
	if err != nil {
		return nil, err
	}
	return &SavedMask{op: op, mask: old}, nil
}

// Mask returns the saved mask.
func (s *SavedMask) Mask() linux.SignalSet {
	return s.mask
}

// Restore installs the saved mask.
//
// Precondition: Restore has not been called on s before.
func (s *SavedMask) Restore() error {
	if s.restored {
		panic(fmt.Sprintf("mask saved by %q restored twice", s.op))
	}
	s.restored = true
	_, err := setMask(s.op, linux.SIG_SETMASK, s.mask)
	return err
}

// Supported reports whether per-thread masks can be changed on this platform.
func Supported() bool {
	_, errno := procmask(linux.SIG_BLOCK, nil)
	return errno != unix.ENOSYS
}
