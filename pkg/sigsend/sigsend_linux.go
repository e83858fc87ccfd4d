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

package sigsend

import (
	"runtime"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

// Raise sends sig to the calling thread.
func Raise(sig linux.Signal) error {
	if err := check("raise", sig); err != nil {
		return err
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return errors.FromErrno("raise", unix.Tgkill(unix.Getpid(), unix.Gettid(), unix.Signal(sig)))
}

// RaiseThread sends sig to thread tid of the calling process.
func RaiseThread(tid int, sig linux.Signal) error {
	if err := check("raise", sig); err != nil {
		return err
	}
	return errors.FromErrno("raise", unix.Tgkill(unix.Getpid(), tid, unix.Signal(sig)))
}

// Alarm arranges for SIGALRM to be sent after seconds, replacing any earlier
// alarm. Zero cancels. It returns the seconds left on the earlier alarm,
// rounded to the nearest second, and never reports a pending alarm as zero.
func Alarm(seconds uint32) (uint32, error) {
	old, err := unix.Setitimer(unix.ItimerReal, unix.Itimerval{
		Value: unix.NsecToTimeval(int64(seconds) * 1e9),
	})
	if err != nil {
		return 0, errors.FromErrno("alarm", err)
	}
	remaining := uint32(old.Value.Sec)
	if old.Value.Usec >= 500000 || (remaining == 0 && old.Value.Usec > 0) {
		remaining++
	}
	return remaining, nil
}
