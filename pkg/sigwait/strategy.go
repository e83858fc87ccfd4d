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

// Package sigwait waits synchronously for signals with an optional timeout.
//
// Two strategies are provided. Native uses rt_sigtimedwait on the calling
// thread and sees only signals directed at that thread or already pending.
// Threaded receives signals through os/signal, so it also catches signals sent
// to the process as a whole, such as SIGCHLD. Each signal received by a
// threaded wait is consumed by exactly one waiting call.
package sigwait

import (
	"fmt"
	"runtime"

	"gvisor.dev/sigctl/pkg/abi/linux"
)

// Strategy waits for one signal out of a non-empty set.
type Strategy interface {
	// Name returns the name used on the command line and in logs.
	Name() string

	// Wait blocks until a member of set is consumed or deadline passes.
	// The caller's signal mask is the same before and after.
	Wait(set linux.SignalSet, deadline Deadline) Outcome
}

// Strategy names accepted by NewStrategy.
const (
	StrategyAuto     = "auto"
	StrategyNative   = "native"
	StrategyThreaded = "threaded"
)

// Auto returns the default strategy. In a Go process a signal sent to the
// process is taken by whichever thread leaves it unblocked, so only Threaded
// reliably sees it.
func Auto() Strategy {
	return Threaded{}
}

// NewStrategy returns the strategy with the given name. The empty name is the
// same as "auto".
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyAuto:
		return Auto(), nil
	case StrategyNative:
		if !nativeSupported {
			return nil, fmt.Errorf("native signal wait is not supported on %s", runtime.GOOS)
		}
		return Native{}, nil
	case StrategyThreaded:
		return Threaded{}, nil
	}
	return nil, fmt.Errorf("invalid wait strategy %q, must be %q, %q or %q", name, StrategyAuto, StrategyNative, StrategyThreaded)
}
