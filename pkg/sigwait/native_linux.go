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

package sigwait

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigmask"
)

const nativeSupported = true

// Native waits with rt_sigtimedwait on the calling thread.
type Native struct{}

// Name implements Strategy.Name.
func (Native) Name() string { return StrategyNative }

// Wait implements Strategy.Wait.
func (Native) Wait(set linux.SignalSet, deadline Deadline) Outcome {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// The set must be blocked, otherwise the signals are delivered to the
	// runtime's handler instead of being returned by the wait.
	saved, err := sigmask.BlockSaved("wait", set)
	if err != nil {
		return failed(err)
	}
	out := timedWait(set, deadline)
	if err := saved.Restore(); err != nil {
		log.Warningf("Failed to restore signal mask after wait: %v", err)
	}
	return out
}

// timedWait calls rt_sigtimedwait until it returns something other than
// EINTR. Each retry gets the time remaining until deadline.
func timedWait(set linux.SignalSet, deadline Deadline) Outcome {
	for {
		var ts *unix.Timespec
		if !deadline.IsForever() {
			t := unix.NsecToTimespec(deadline.Remaining().Nanoseconds())
			ts = &t
		}
		r, _, errno := unix.Syscall6(unix.SYS_RT_SIGTIMEDWAIT, uintptr(unsafe.Pointer(&set)), 0, uintptr(unsafe.Pointer(ts)), linux.SignalSetSize, 0, 0)
		switch errno {
		case 0:
			return signalled(linux.Signal(r))
		case unix.EAGAIN:
			return timedOut()
		case unix.EINTR:
			retryMetric.Increment()
			retryLog.Debugf("Signal wait for %v interrupted, resuming with %v left", set, deadline)
		default:
			return failed(errors.New("wait", errno))
		}
	}
}
