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

package linux

import (
	"math/bits"
)

const (
	// SignalMaximum is the highest valid signal number.
	SignalMaximum = 64

	// NSIG is one past the highest valid signal number, as in <signal.h>.
	NSIG = SignalMaximum + 1

	// FirstStdSignal is the lowest standard signal number.
	FirstStdSignal = 1

	// LastStdSignal is the highest standard signal number.
	LastStdSignal = 31

	// FirstRTSignal is the lowest real-time signal number.
	//
	// 32 (SIGCANCEL) and 33 (SIGSETXID) are used internally by glibc.
	FirstRTSignal = 32

	// LastRTSignal is the highest real-time signal number.
	LastRTSignal = 64

	// SIGCANCEL is reserved by glibc for thread cancellation.
	SIGCANCEL = Signal(32)

	// SIGSETXID is reserved by glibc for set*id broadcasts.
	SIGSETXID = Signal(33)
)

// Signal is a signal number.
type Signal int

// IsValid returns true if s is a valid standard or realtime signal. (0 is not
// considered valid; interfaces special-casing signal number 0 should check for
// 0 first before asserting validity.)
func (s Signal) IsValid() bool {
	return s > 0 && s <= SignalMaximum
}

// IsReserved returns true if s is one of the realtime signals reserved by the
// C library. sigaddset(3) refuses these, and so do we.
func (s Signal) IsReserved() bool {
	return s == SIGCANCEL || s == SIGSETXID
}

// IsUsable returns true if s may be placed in a signal set.
func (s Signal) IsUsable() bool {
	return s.IsValid() && !s.IsReserved()
}

// IsStandard returns true if s is a standard signal.
//
// Preconditions: s.IsValid().
func (s Signal) IsStandard() bool {
	return s <= LastStdSignal
}

// IsRealtime returns true if s is a realtime signal.
//
// Preconditions: s.IsValid().
func (s Signal) IsRealtime() bool {
	return s >= FirstRTSignal
}

// Index returns the index for signal s into arrays of both standard and
// realtime signals (e.g. signal masks).
//
// Preconditions: s.IsValid().
func (s Signal) Index() int {
	return int(s - 1)
}

// Signals.
const (
	SIGABRT   = Signal(6)
	SIGALRM   = Signal(14)
	SIGBUS    = Signal(7)
	SIGCHLD   = Signal(17)
	SIGCLD    = Signal(17)
	SIGCONT   = Signal(18)
	SIGFPE    = Signal(8)
	SIGHUP    = Signal(1)
	SIGILL    = Signal(4)
	SIGINT    = Signal(2)
	SIGIO     = Signal(29)
	SIGIOT    = Signal(6)
	SIGKILL   = Signal(9)
	SIGPIPE   = Signal(13)
	SIGPOLL   = Signal(29)
	SIGPROF   = Signal(27)
	SIGPWR    = Signal(30)
	SIGQUIT   = Signal(3)
	SIGSEGV   = Signal(11)
	SIGSTKFLT = Signal(16)
	SIGSTOP   = Signal(19)
	SIGSYS    = Signal(31)
	SIGTERM   = Signal(15)
	SIGTRAP   = Signal(5)
	SIGTSTP   = Signal(20)
	SIGTTIN   = Signal(21)
	SIGTTOU   = Signal(22)
	SIGURG    = Signal(23)
	SIGUSR1   = Signal(10)
	SIGUSR2   = Signal(12)
	SIGVTALRM = Signal(26)
	SIGWINCH  = Signal(28)
	SIGXCPU   = Signal(24)
	SIGXFSZ   = Signal(25)
)

// SignalSet is a signal mask with a bit corresponding to each signal.
type SignalSet uint64

// SignalSetSize is the size in bytes of a SignalSet.
const SignalSetSize = 8

// FullSignalSet contains every usable signal. This is what sigfillset(3)
// produces: the glibc-reserved realtime signals are left out.
const FullSignalSet = ^SignalSet(0) &^ (SignalSet(1)<<uint(SIGCANCEL-1) | SignalSet(1)<<uint(SIGSETXID-1))

// UnblockableSignals contains the signals the kernel never allows to be
// blocked.
const UnblockableSignals = SignalSet(1)<<uint(SIGKILL-1) | SignalSet(1)<<uint(SIGSTOP-1)

// MakeSignalSet returns SignalSet with the bit corresponding to each of the
// given signals set.
func MakeSignalSet(sigs ...Signal) SignalSet {
	var set SignalSet
	for _, sig := range sigs {
		set |= SignalSetOf(sig)
	}
	return set
}

// SignalSetOf returns a SignalSet with a single signal set.
func SignalSetOf(sig Signal) SignalSet {
	return SignalSet(1) << uint(sig.Index())
}

// ForEachSignal invokes f for each signal set in the given mask, in
// increasing order.
func ForEachSignal(mask SignalSet, f func(sig Signal)) {
	m := uint64(mask)
	for m != 0 {
		i := bits.TrailingZeros64(m)
		m &^= uint64(1) << uint(i)
		f(Signal(i + 1))
	}
}

// Contains returns true if sig is a member of s.
func (s SignalSet) Contains(sig Signal) bool {
	return sig.IsValid() && s&SignalSetOf(sig) != 0
}

// Empty returns true if no signal is set.
func (s SignalSet) Empty() bool {
	return s == 0
}

// Len returns the number of signals in s.
func (s SignalSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Signals returns the members of s in increasing order.
func (s SignalSet) Signals() []Signal {
	sigs := make([]Signal, 0, s.Len())
	ForEachSignal(s, func(sig Signal) {
		sigs = append(sigs, sig)
	})
	return sigs
}

// 'how' values for rt_sigprocmask(2).
const (
	// SIG_BLOCK blocks the signals in the set.
	SIG_BLOCK = 0

	// SIG_UNBLOCK unblocks the signals in the set.
	SIG_UNBLOCK = 1

	// SIG_SETMASK sets the signal mask to set.
	SIG_SETMASK = 2
)

// Signal actions for rt_sigaction(2), from uapi/asm-generic/signal-defs.h.
const (
	// SIG_DFL performs the default action.
	SIG_DFL = 0

	// SIG_IGN ignores the signal.
	SIG_IGN = 1
)

// Signal action flags for rt_sigaction(2), from uapi/asm-generic/signal.h
const (
	SA_NOCLDSTOP = 0x00000001
	SA_NOCLDWAIT = 0x00000002
	SA_SIGINFO   = 0x00000004
	SA_RESTORER  = 0x04000000
	SA_ONSTACK   = 0x08000000
	SA_RESTART   = 0x10000000
	SA_NODEFER   = 0x40000000
	SA_RESETHAND = 0x80000000
	SA_NOMASK    = SA_NODEFER
	SA_ONESHOT   = SA_RESETHAND
)

// SigAction has the layout the rt_sigaction(2) system call expects, which is
// not the layout of the C library's struct sigaction.
type SigAction struct {
	Handler  uint64
	Flags    uint64
	Restorer uint64
	Mask     SignalSet
}

// IsDefaultOrIgnored returns true if the action is SIG_DFL or SIG_IGN, i.e.
// no handler function is installed.
func (a *SigAction) IsDefaultOrIgnored() bool {
	return a.Handler == SIG_DFL || a.Handler == SIG_IGN
}
