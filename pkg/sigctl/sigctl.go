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

// Package sigctl is the entry point for controlling signals: the calling
// thread's mask, synchronous waits with a timeout, and one-shot operations
// such as kill and raise.
//
// A Module holds the chosen wait strategy and, while open, keeps the SIGCHLD
// shim armed so that SIGCHLD can be waited for. Close the module when done;
// the shim is restored when the last open module closes.
package sigctl

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigchld"
	"gvisor.dev/sigctl/pkg/sigmask"
	"gvisor.dev/sigctl/pkg/sigsend"
	"gvisor.dev/sigctl/pkg/sigwait"
)

// shim is the SIGCHLD shim shared by all modules.
var shim = sigchld.Global()

// Options configures a Module.
type Options struct {
	// Strategy names the wait strategy: "auto" (or empty), "native" or
	// "threaded".
	Strategy string

	// DisableSigchldShim leaves SIGCHLD alone.
	DisableSigchldShim bool
}

// Module is an open handle on the signal subsystem. It is safe for concurrent
// use.
type Module struct {
	strategy sigwait.Strategy
	shimmed  bool
	closed   atomic.Bool
}

// Open returns a new module.
func Open(opts Options) (*Module, error) {
	strategy, err := sigwait.NewStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	m := &Module{strategy: strategy}
	if !opts.DisableSigchldShim {
		if err := shim.Acquire(); err != nil {
			// A shim that cannot inspect SIGCHLD only loses SIGCHLD
			// waits; everything else still works.
			log.Warningf("SIGCHLD shim unavailable: %v", err)
		} else {
			m.shimmed = true
		}
	}
	runtime.SetFinalizer(m, func(m *Module) {
		if !m.closed.Load() {
			log.Warningf("sigctl module was not closed, releasing it from finalizer")
			m.Close()
		}
	})
	log.Debugf("Opened signal module, strategy %s, SIGCHLD shim %s", strategy.Name(), shim.State())
	return m, nil
}

// Close releases the module. Closing twice is a no-op.
func (m *Module) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(m, nil)
	if m.shimmed {
		if err := shim.Release(); err != nil {
			return fmt.Errorf("releasing SIGCHLD shim: %w", err)
		}
	}
	return nil
}

// Strategy returns the wait strategy in use.
func (m *Module) Strategy() sigwait.Strategy {
	return m.strategy
}

// Block adds signals to the calling thread's mask.
func (m *Module) Block(signals ...linux.Signal) error {
	return sigmask.Block(signals...)
}

// Unblock removes signals from the calling thread's mask.
func (m *Module) Unblock(signals ...linux.Signal) error {
	return sigmask.Unblock(signals...)
}

// BlockAll blocks every usable signal on the calling thread.
func (m *Module) BlockAll() error {
	return sigmask.BlockAll()
}

// UnblockAll unblocks every usable signal on the calling thread.
func (m *Module) UnblockAll() error {
	return sigmask.UnblockAll()
}

// IsBlocked reports whether all of signals are blocked on the calling thread,
// and lists the ones that are not.
func (m *Module) IsBlocked(signals ...linux.Signal) (bool, []linux.Signal, error) {
	return sigmask.IsBlocked(signals...)
}

// Wait waits for one of signals, or for any pending signal if none are given.
// See sigwait.Wait.
func (m *Module) Wait(timeout sigwait.Timeout, signals ...linux.Signal) sigwait.Outcome {
	return sigwait.Wait(m.strategy, timeout, signals...)
}

// Raise sends sig to the calling thread.
func (m *Module) Raise(sig linux.Signal) error {
	return sigsend.Raise(sig)
}

// Kill sends sig to pid, or to the calling process if pid is 0.
func (m *Module) Kill(pid int, sig linux.Signal) error {
	return sigsend.Kill(pid, sig)
}

// Killpg sends sig to process group pgid, or to the caller's group if pgid
// is 0.
func (m *Module) Killpg(pgid int, sig linux.Signal) error {
	return sigsend.Killpg(pgid, sig)
}

// Alarm schedules SIGALRM and returns the seconds left on the previous alarm.
func (m *Module) Alarm(seconds uint32) (uint32, error) {
	return sigsend.Alarm(seconds)
}

// Ignore ignores sig.
func (m *Module) Ignore(sig linux.Signal) error {
	return sigsend.Ignore(sig)
}

// Default restores the default behavior of sig.
func (m *Module) Default(sig linux.Signal) error {
	return sigsend.Default(sig)
}
