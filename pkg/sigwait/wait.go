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
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigmask"
)

// Wait waits for one of signals using s. The deadline is fixed when Wait is
// entered.
//
// If signals is empty, the signals currently pending are waited for instead.
// If none are pending either, Wait returns a NoPending outcome without
// waiting.
func Wait(s Strategy, timeout Timeout, signals ...linux.Signal) Outcome {
	deadline := timeout.Deadline()
	set, out, ok := precheck(signals)
	if ok {
		log.Debugf("Waiting for %v, strategy %s, timeout %v", set, s.Name(), timeout)
		out = s.Wait(set, deadline)
	}
	outcomeMetric.Increment(out.Kind.String())
	log.Debugf("Wait for %v: %v", set, out)
	return out
}

// precheck resolves the set to wait on. ok is false when out is already the
// final outcome.
func precheck(signals []linux.Signal) (set linux.SignalSet, out Outcome, ok bool) {
	var err error
	if len(signals) == 0 {
		set, err = sigmask.Pending("wait")
	} else {
		set, err = sigmask.BuildSet("wait", signals...)
	}
	switch {
	case err != nil:
		return 0, failed(err), false
	case set.Empty():
		return 0, noPending(), false
	}
	return set, Outcome{}, true
}
