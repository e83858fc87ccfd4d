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
	"sync/atomic"
	"time"

	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/metric"
)

var (
	outcomeMetric = metric.MustCreateNewUint64Metric("/sigctl/wait/outcomes", "Number of signal waits, by outcome.",
		metric.NewField("outcome", kindNames[:]...))

	retryMetric = metric.MustCreateNewUint64Metric("/sigctl/wait/retries", "Number of times a native wait was interrupted and resumed.")

	// liveWaiters counts forwarder goroutines of threaded waits that have
	// started and not yet exited.
	liveWaiters atomic.Int64

	// retryLog reports interrupted native waits without flooding the log.
	retryLog = log.BasicRateLimitedLogger(time.Second)
)

func init() {
	metric.MustRegisterCustomUint64Metric("/sigctl/wait/threaded_waiters", false /* cumulative */, "Number of live signal forwarders of threaded waits.",
		func(...string) uint64 { return uint64(liveWaiters.Load()) })
}

// LiveWaiters returns the number of forwarder goroutines currently running.
// It drops to zero once no threaded wait is in progress.
func LiveWaiters() int64 {
	return liveWaiters.Load()
}

// OutcomeCount returns how many waits have ended with k.
func OutcomeCount(k Kind) uint64 {
	return outcomeMetric.Value(k.String())
}
