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

//go:build linux
// +build linux

// Package sighandling reads the kernel's signal dispositions.
//
// Dispositions are only ever read here. Changing them is left to os/signal so
// that the Go runtime's bookkeeping stays consistent.
package sighandling

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

// Disposition returns the action currently installed for sig.
func Disposition(sig linux.Signal) (linux.SigAction, error) {
	var sa linux.SigAction
	if !sig.IsValid() {
		return sa, errors.InvalidSignal("sigaction")
	}
	if _, _, e := unix.RawSyscall6(unix.SYS_RT_SIGACTION, uintptr(sig), 0, uintptr(unsafe.Pointer(&sa)), linux.SignalSetSize, 0, 0); e != 0 {
		return sa, errors.New("sigaction", e)
	}
	return sa, nil
}

// Supported reports whether Disposition works on this platform.
func Supported() bool {
	return true
}
