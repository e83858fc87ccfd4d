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

package sigmask

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
)

// procmask calls rt_sigprocmask. A nil set only queries.
func procmask(how int, set *linux.SignalSet) (linux.SignalSet, unix.Errno) {
	var old linux.SignalSet
	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGPROCMASK, uintptr(how), uintptr(unsafe.Pointer(set)), uintptr(unsafe.Pointer(&old)), linux.SignalSetSize, 0, 0)
	return old, errno
}

func pending() (linux.SignalSet, unix.Errno) {
	var set linux.SignalSet
	_, _, errno := unix.RawSyscall(unix.SYS_RT_SIGPENDING, uintptr(unsafe.Pointer(&set)), linux.SignalSetSize, 0)
	return set, errno
}
