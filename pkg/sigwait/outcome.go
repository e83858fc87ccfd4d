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

	"gvisor.dev/sigctl/pkg/abi/linux"
)

// Kind identifies the variant of an Outcome.
type Kind int

const (
	// NoPending means no signals were requested and none were pending, so
	// no wait took place.
	NoPending Kind = iota

	// Signalled means a signal from the set was consumed.
	Signalled

	// TimedOut means the deadline passed first. It is not an error.
	TimedOut

	// Failed means the wait could not be carried out.
	Failed
)

// kindNames double as metric field values.
var kindNames = [...]string{
	NoPending: "nopending",
	Signalled: "signalled",
	TimedOut:  "timedout",
	Failed:    "failed",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Outcome is the result of exactly one wait call.
type Outcome struct {
	Kind Kind

	// Signal is set iff Kind == Signalled.
	Signal linux.Signal

	// Err is set iff Kind == Failed. It is always an *errors.Error.
	Err error
}

func noPending() Outcome {
	return Outcome{Kind: NoPending}
}

func signalled(sig linux.Signal) Outcome {
	return Outcome{Kind: Signalled, Signal: sig}
}

func timedOut() Outcome {
	return Outcome{Kind: TimedOut}
}

func failed(err error) Outcome {
	return Outcome{Kind: Failed, Err: err}
}

func (o Outcome) String() string {
	switch o.Kind {
	case Signalled:
		return "signal " + o.Signal.Name()
	case TimedOut:
		return "timeout"
	case NoPending:
		return "nothing pending"
	case Failed:
		return fmt.Sprintf("failed: %v", o.Err)
	}
	return o.Kind.String()
}
