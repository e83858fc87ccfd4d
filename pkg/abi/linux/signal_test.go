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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSignalValidity(t *testing.T) {
	for _, tc := range []struct {
		sig    Signal
		valid  bool
		usable bool
	}{
		{0, false, false},
		{SIGHUP, true, true},
		{SIGUSR1, true, true},
		{SIGCANCEL, true, false},
		{SIGSETXID, true, false},
		{34, true, true},
		{SignalMaximum, true, true},
		{NSIG, false, false},
		{-1, false, false},
	} {
		if got := tc.sig.IsValid(); got != tc.valid {
			t.Errorf("Signal(%d).IsValid() = %v, wanted %v", tc.sig, got, tc.valid)
		}
		if got := tc.sig.IsUsable(); got != tc.usable {
			t.Errorf("Signal(%d).IsUsable() = %v, wanted %v", tc.sig, got, tc.usable)
		}
	}
}

func TestSignalSetMembers(t *testing.T) {
	set := MakeSignalSet(SIGUSR2, SIGHUP, SIGUSR1, 64)
	want := []Signal{SIGHUP, SIGUSR1, SIGUSR2, 64}
	if diff := cmp.Diff(want, set.Signals()); diff != "" {
		t.Errorf("Signals() mismatch (-want +got):\n%s", diff)
	}
	if got := set.Len(); got != len(want) {
		t.Errorf("Len() = %d, wanted %d", got, len(want))
	}
	if !set.Contains(SIGUSR1) || set.Contains(SIGTERM) {
		t.Errorf("Contains reported wrong membership for %v", set)
	}
	if set.Contains(0) || set.Contains(NSIG) {
		t.Errorf("Contains accepted an invalid signal")
	}
}

func TestFullSignalSet(t *testing.T) {
	if FullSignalSet.Contains(SIGCANCEL) || FullSignalSet.Contains(SIGSETXID) {
		t.Errorf("FullSignalSet contains a reserved signal: %v", FullSignalSet)
	}
	if got, want := FullSignalSet.Len(), SignalMaximum-2; got != want {
		t.Errorf("FullSignalSet.Len() = %d, wanted %d", got, want)
	}
	if !FullSignalSet.Contains(SIGKILL) {
		t.Errorf("FullSignalSet is missing SIGKILL")
	}
}

func TestParseSignal(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Signal
		ok   bool
	}{
		{"10", SIGUSR1, true},
		{"USR1", SIGUSR1, true},
		{"sigusr2", SIGUSR2, true},
		{"SIGTERM", SIGTERM, true},
		{"cld", SIGCHLD, true},
		{"64", 64, true},
		{"0", 0, false},
		{"65", 0, false},
		{"NOPE", 0, false},
	} {
		got, err := ParseSignal(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseSignal(%q) error = %v, wanted ok=%v", tc.in, err, tc.ok)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSignal(%q) = %v, wanted %v", tc.in, got, tc.want)
		}
	}
}

func TestSignalString(t *testing.T) {
	for sig, want := range map[Signal]string{
		SIGUSR1: "SIGUSR1",
		34:      "SIGRTMIN+2",
		0:       "signal 0",
	} {
		if got := sig.String(); got != want {
			t.Errorf("Signal(%d).String() = %q, wanted %q", int(sig), got, want)
		}
	}
	if got, want := MakeSignalSet(SIGINT, SIGHUP).String(), "{SIGHUP, SIGINT}"; got != want {
		t.Errorf("SignalSet.String() = %q, wanted %q", got, want)
	}
}
