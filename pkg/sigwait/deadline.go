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
	"fmt"
	"math"
	"time"
)

// Timeout is the duration a caller is willing to wait. The zero value polls.
type Timeout struct {
	d       time.Duration
	forever bool
}

// Forever waits indefinitely.
var Forever = Timeout{forever: true}

// After waits at most d. A non-positive d polls: the wait returns immediately
// if nothing is pending.
func After(d time.Duration) Timeout {
	if d < 0 {
		d = 0
	}
	return Timeout{d: d}
}

// Seconds converts a fractional number of seconds. +Inf means Forever; NaN and
// non-positive values poll.
func Seconds(s float64) Timeout {
	switch {
	case math.IsInf(s, 1):
		return Forever
	case math.IsNaN(s) || s <= 0:
		return Timeout{}
	case s >= math.MaxInt64/float64(time.Second):
		return Forever
	}
	return Timeout{d: time.Duration(s * float64(time.Second))}
}

// IsForever reports whether t never expires.
func (t Timeout) IsForever() bool {
	return t.forever
}

// Duration returns the requested duration. It is meaningless for Forever.
func (t Timeout) Duration() time.Duration {
	return t.d
}

func (t Timeout) String() string {
	if t.forever {
		return "forever"
	}
	return t.d.String()
}

// Deadline converts t to an absolute deadline relative to now.
func (t Timeout) Deadline() Deadline {
	if t.forever {
		return Deadline{forever: true}
	}
	return Deadline{at: time.Now().Add(t.d)}
}

// Deadline is an absolute point in monotonic time. Remaining time is always
// derived from it, so retries and spurious wakeups never extend a wait.
type Deadline struct {
	forever bool

	// at carries a monotonic clock reading (from time.Now).
	at time.Time
}

// IsForever reports whether d never expires.
func (d Deadline) IsForever() bool {
	return d.forever
}

// Remaining returns the time left until d, or zero if it has passed.
//
// Precondition: !d.IsForever().
func (d Deadline) Remaining() time.Duration {
	if d.forever {
		panic("Remaining called on an infinite deadline")
	}
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether d has passed.
func (d Deadline) Expired() bool {
	return !d.forever && d.Remaining() == 0
}

func (d Deadline) String() string {
	if d.forever {
		return "forever"
	}
	return fmt.Sprintf("in %v", d.Remaining())
}
