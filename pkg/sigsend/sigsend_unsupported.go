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

//go:build !linux
// +build !linux

package sigsend

import (
	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

// Raise sends sig to the calling process. There is no portable way to direct
// a signal at a single thread here.
func Raise(sig linux.Signal) error {
	if err := check("raise", sig); err != nil {
		return err
	}
	return errors.FromErrno("raise", unix.Kill(unix.Getpid(), unix.Signal(sig)))
}

// RaiseThread is not supported on this platform.
func RaiseThread(tid int, sig linux.Signal) error {
	return errors.New("raise", unix.ENOSYS)
}

// Alarm is not supported on this platform.
func Alarm(seconds uint32) (uint32, error) {
	return 0, errors.New("alarm", unix.ENOSYS)
}
