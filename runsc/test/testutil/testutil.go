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

// Package testutil contains utility functions for sigctl tests.
package testutil

import (
	"context"
	"runtime"
	"time"

	"github.com/cenkalti/backoff"
	"golang.org/x/sync/errgroup"
)

// Poll is a shorthand function to poll for something with given timeout.
func Poll(cb func() error, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return PollContext(ctx, cb)
}

// PollContext is like Poll, but takes a context instead of a timeout.
func PollContext(ctx context.Context, cb func() error) error {
	b := backoff.WithContext(backoff.NewConstantBackOff(10*time.Millisecond), ctx)
	return backoff.Retry(cb, b)
}

// OnLockedThread runs fn on a goroutine locked to a fresh OS thread and
// returns its error. The goroutine exits without unlocking, so the runtime
// terminates the thread and whatever signal mask fn left behind goes with it.
func OnLockedThread(fn func() error) error {
	var g errgroup.Group
	g.Go(func() error {
		runtime.LockOSThread()
		return fn()
	})
	return g.Wait()
}

// OnLockedThreads runs each fn concurrently, each on its own throwaway locked
// thread, and returns the first error.
func OnLockedThreads(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			runtime.LockOSThread()
			return fn(ctx)
		})
	}
	return g.Wait()
}

