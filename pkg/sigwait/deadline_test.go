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

package sigwait

import (
	"math"
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	for _, tc := range []struct {
		name    string
		timeout Timeout
		forever bool
		want    time.Duration
	}{
		{"forever", Forever, true, 0},
		{"zero", Timeout{}, false, 0},
		{"negative", After(-time.Second), false, 0},
		{"after", After(250 * time.Millisecond), false, 250 * time.Millisecond},
		{"seconds", Seconds(1.5), false, 1500 * time.Millisecond},
		{"seconds-negative", Seconds(-3), false, 0},
		{"seconds-nan", Seconds(math.NaN()), false, 0},
		{"seconds-inf", Seconds(math.Inf(1)), true, 0},
		{"seconds-huge", Seconds(1e300), true, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.timeout.IsForever(); got != tc.forever {
				t.Fatalf("IsForever() = %t, want %t", got, tc.forever)
			}
			if !tc.forever && tc.timeout.Duration() != tc.want {
				t.Errorf("Duration() = %v, want %v", tc.timeout.Duration(), tc.want)
			}
		})
	}
}

func TestDeadline(t *testing.T) {
	if d := Forever.Deadline(); !d.IsForever() || d.Expired() {
		t.Errorf("Forever deadline: IsForever = %t, Expired = %t", d.IsForever(), d.Expired())
	}

	poll := After(0).Deadline()
	if !poll.Expired() || poll.Remaining() != 0 {
		t.Errorf("poll deadline: Expired = %t, Remaining = %v", poll.Expired(), poll.Remaining())
	}

	d := After(time.Hour).Deadline()
	if r := d.Remaining(); r <= 59*time.Minute || r > time.Hour {
		t.Errorf("Remaining() = %v, want just under an hour", r)
	}
	if d.Expired() {
		t.Errorf("hour deadline already expired")
	}
}

func TestDeadlineDoesNotMove(t *testing.T) {
	d := After(200 * time.Millisecond).Deadline()
	first := d.Remaining()
	time.Sleep(50 * time.Millisecond)
	if second := d.Remaining(); second > first-50*time.Millisecond {
		t.Errorf("Remaining() went from %v to %v after 50ms", first, second)
	}
}

func TestRemainingForeverPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Remaining on infinite deadline did not panic")
		}
	}()
	Forever.Deadline().Remaining()
}

func TestOutcomeString(t *testing.T) {
	for _, tc := range []struct {
		out  Outcome
		want string
	}{
		{signalled(10), "signal USR1"},
		{timedOut(), "timeout"},
		{noPending(), "nothing pending"},
	} {
		if got := tc.out.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

func TestNewStrategy(t *testing.T) {
	for _, name := range []string{"", StrategyAuto, StrategyThreaded} {
		s, err := NewStrategy(name)
		if err != nil {
			t.Fatalf("NewStrategy(%q): %v", name, err)
		}
		if name == StrategyThreaded && s.Name() != StrategyThreaded {
			t.Errorf("NewStrategy(%q).Name() = %q", name, s.Name())
		}
	}
	for _, name := range []string{"", StrategyAuto} {
		s, err := NewStrategy(name)
		if err != nil {
			t.Fatalf("NewStrategy(%q): %v", name, err)
		}
		if s.Name() != StrategyThreaded {
			t.Errorf("NewStrategy(%q).Name() = %q, want %q", name, s.Name(), StrategyThreaded)
		}
	}
	if _, err := NewStrategy("bogus"); err == nil {
		t.Errorf("NewStrategy(bogus) succeeded")
	}
}
