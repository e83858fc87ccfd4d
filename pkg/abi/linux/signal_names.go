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
	"fmt"
	"strconv"
	"strings"
)

// signalNames maps each named signal to its canonical name, without the
// "SIG" prefix.
var signalNames = map[Signal]string{
	SIGABRT:   "ABRT",
	SIGALRM:   "ALRM",
	SIGBUS:    "BUS",
	SIGCHLD:   "CHLD",
	SIGCONT:   "CONT",
	SIGFPE:    "FPE",
	SIGHUP:    "HUP",
	SIGILL:    "ILL",
	SIGINT:    "INT",
	SIGIO:     "IO",
	SIGKILL:   "KILL",
	SIGPIPE:   "PIPE",
	SIGPROF:   "PROF",
	SIGPWR:    "PWR",
	SIGQUIT:   "QUIT",
	SIGSEGV:   "SEGV",
	SIGSTKFLT: "STKFLT",
	SIGSTOP:   "STOP",
	SIGSYS:    "SYS",
	SIGTERM:   "TERM",
	SIGTRAP:   "TRAP",
	SIGTSTP:   "TSTP",
	SIGTTIN:   "TTIN",
	SIGTTOU:   "TTOU",
	SIGURG:    "URG",
	SIGUSR1:   "USR1",
	SIGUSR2:   "USR2",
	SIGVTALRM: "VTALRM",
	SIGWINCH:  "WINCH",
	SIGXCPU:   "XCPU",
	SIGXFSZ:   "XFSZ",
}

// signalAliases are accepted by ParseSignal but never printed.
var signalAliases = map[string]Signal{
	"CLD":  SIGCLD,
	"IOT":  SIGIOT,
	"POLL": SIGPOLL,
}

// String implements fmt.Stringer.String.
func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return "SIG" + name
	}
	if s.IsValid() && s.IsRealtime() {
		return fmt.Sprintf("SIGRTMIN+%d", int(s-FirstRTSignal))
	}
	return fmt.Sprintf("signal %d", int(s))
}

// Name returns the short name of s ("USR1"), or its number if it has none.
func (s Signal) Name() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return strconv.Itoa(int(s))
}

// ParseSignal parses a signal given by number ("10"), by name ("USR1") or by
// full name ("SIGUSR1"). Names are case-insensitive.
func ParseSignal(s string) (Signal, error) {
	if n, err := strconv.Atoi(s); err == nil {
		sig := Signal(n)
		if !sig.IsValid() {
			return 0, fmt.Errorf("signal %d out of range [1, %d]", n, SignalMaximum)
		}
		return sig, nil
	}
	name := strings.TrimPrefix(strings.ToUpper(s), "SIG")
	for sig, n := range signalNames {
		if n == name {
			return sig, nil
		}
	}
	if sig, ok := signalAliases[name]; ok {
		return sig, nil
	}
	return 0, fmt.Errorf("unknown signal %q", s)
}

// NamedSignals returns every named signal in increasing order.
func NamedSignals() []Signal {
	var set SignalSet
	for sig := range signalNames {
		set |= SignalSetOf(sig)
	}
	return set.Signals()
}

// String implements fmt.Stringer.String.
func (s SignalSet) String() string {
	if s == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	first := true
	ForEachSignal(s, func(sig Signal) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(sig.String())
	})
	b.WriteByte('}')
	return b.String()
}
