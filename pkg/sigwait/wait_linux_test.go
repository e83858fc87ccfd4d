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

//go:build linux
// +build linux

package sigwait

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
	"gvisor.dev/sigctl/pkg/sigmask"
	"gvisor.dev/sigctl/runsc/test/testutil"
)

// slack bounds how late a timed out wait may return.
const slack = 250 * time.Millisecond

var strategies = []Strategy{Native{}, Threaded{}}

// sameMask runs fn and checks that the calling thread's mask is unchanged.
func sameMask(fn func() error) error {
	before, err := sigmask.Current("test")
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	after, err := sigmask.Current("test")
	if err != nil {
		return err
	}
	if before != after {
		return fmt.Errorf("mask changed from %v to %v", before, after)
	}
	return nil
}

func TestNothingPending(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			err := testutil.OnLockedThread(func() error {
				if out := Wait(s, After(time.Second)); out.Kind != NoPending {
					return fmt.Errorf("Wait with nothing pending = %v, want nothing pending", out)
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestInvalidSignal(t *testing.T) {
	out := Wait(Native{}, After(0), linux.SIGUSR1, 32)
	if out.Kind != Failed || !stderrors.Is(out.Err, errors.ErrInvalidSignal) {
		t.Fatalf("Wait with reserved signal = %v, want invalid signal", out)
	}
	var e *errors.Error
	if !stderrors.As(out.Err, &e) || e.Op() != "wait.sigaddset" {
		t.Errorf("error %v has wrong op", out.Err)
	}
}

func TestPendingSignalPoll(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			err := testutil.OnLockedThread(func() error {
				if err := sigmask.Block(linux.SIGUSR1); err != nil {
					return err
				}
				if err := unix.Tgkill(unix.Getpid(), unix.Gettid(), unix.SIGUSR1); err != nil {
					return err
				}
				return sameMask(func() error {
					if out := Wait(s, After(0), linux.SIGUSR1); out.Kind != Signalled || out.Signal != linux.SIGUSR1 {
						return fmt.Errorf("Wait(0, USR1) = %v, want signal USR1", out)
					}
					return nil
				})
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestUsePendingSet(t *testing.T) {
	err := testutil.OnLockedThread(func() error {
		if err := sigmask.Block(linux.SIGWINCH); err != nil {
			return err
		}
		if err := unix.Tgkill(unix.Getpid(), unix.Gettid(), unix.SIGWINCH); err != nil {
			return err
		}
		if out := Wait(Native{}, After(0)); out.Kind != Signalled || out.Signal != linux.SIGWINCH {
			return fmt.Errorf("Wait(0) with WINCH pending = %v, want signal WINCH", out)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestTimeoutBounds(t *testing.T) {
	const timeout = 100 * time.Millisecond
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			before := OutcomeCount(TimedOut)
			err := testutil.OnLockedThread(func() error {
				return sameMask(func() error {
					start := time.Now()
					out := Wait(s, After(timeout), linux.SIGUSR1)
					elapsed := time.Since(start)
					if out.Kind != TimedOut {
						return fmt.Errorf("Wait(%v, USR1) = %v, want timeout", timeout, out)
					}
					if elapsed < timeout || elapsed > timeout+slack {
						return fmt.Errorf("Wait(%v, USR1) returned after %v", timeout, elapsed)
					}
					return nil
				})
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := OutcomeCount(TimedOut); got != before+1 {
				t.Errorf("timed out count = %d, want %d", got, before+1)
			}
		})
	}
}

// TestNativeThreadDirected has a second thread signal the waiting thread,
// which has the signal blocked beforehand.
func TestNativeThreadDirected(t *testing.T) {
	tids := make(chan int, 1)
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return testutil.OnLockedThread(func() error {
			if err := sigmask.Block(linux.SIGUSR2); err != nil {
				return err
			}
			tids <- unix.Gettid()
			return sameMask(func() error {
				if out := Wait(Native{}, Forever, linux.SIGUSR2); out.Kind != Signalled || out.Signal != linux.SIGUSR2 {
					return fmt.Errorf("Wait(forever, USR2) = %v, want signal USR2", out)
				}
				return nil
			})
		})
	})
	g.Go(func() error {
		select {
		case tid := <-tids:
			return unix.Tgkill(unix.Getpid(), tid, unix.SIGUSR2)
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// TestNativeRetryKeepsDeadline interrupts a native wait with signals outside
// its set. The wait must resume and still end at the original deadline.
func TestNativeRetryKeepsDeadline(t *testing.T) {
	const timeout = 300 * time.Millisecond
	retriesBefore := retryMetric.Value()
	tids := make(chan int, 1)
	var g errgroup.Group
	g.Go(func() error {
		return testutil.OnLockedThread(func() error {
			tids <- unix.Gettid()
			start := time.Now()
			out := Wait(Native{}, After(timeout), linux.SIGUSR1)
			elapsed := time.Since(start)
			if out.Kind != TimedOut {
				return fmt.Errorf("interrupted Wait = %v, want timeout", out)
			}
			if elapsed < timeout || elapsed > timeout+slack {
				return fmt.Errorf("interrupted Wait returned after %v, want about %v", elapsed, timeout)
			}
			return nil
		})
	})
	g.Go(func() error {
		tid := <-tids
		for i := 0; i < 4; i++ {
			time.Sleep(50 * time.Millisecond)
			// The runtime tolerates spurious SIGURG.
			if err := unix.Tgkill(unix.Getpid(), tid, unix.SIGURG); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if retryMetric.Value() == retriesBefore {
		t.Errorf("no interrupted waits were resumed")
	}
}

// TestThreadedProcessDirected sends the signal to the whole process, which
// only the threaded strategy can observe from another thread.
func TestThreadedProcessDirected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	err := testutil.OnLockedThreads(ctx,
		func(context.Context) error {
			defer close(done)
			return sameMask(func() error {
				if out := Wait(Threaded{}, After(5*time.Second), linux.SIGUSR2); out.Kind != Signalled || out.Signal != linux.SIGUSR2 {
					return fmt.Errorf("Wait(5s, USR2) = %v, want signal USR2", out)
				}
				return nil
			})
		},
		func(ctx context.Context) error {
			// Signals sent before the waiter listens are dropped by the
			// runtime, so keep sending until the wait returns.
			for {
				if err := unix.Kill(unix.Getpid(), unix.SIGUSR2); err != nil {
					return err
				}
				select {
				case <-done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(20 * time.Millisecond):
				}
			}
		})
	if err != nil {
		t.Fatal(err)
	}
}

func TestThreadedTimeoutJoinsWaiters(t *testing.T) {
	const n = 8
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if out := Wait(Threaded{}, After(50*time.Millisecond), linux.SIGUSR1); out.Kind != TimedOut {
				return fmt.Errorf("Wait = %v, want timeout", out)
			}
			if live := LiveWaiters(); live < 0 || live >= n {
				return fmt.Errorf("LiveWaiters() = %d during test", live)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if live := LiveWaiters(); live != 0 {
		t.Errorf("LiveWaiters() = %d after all waits returned, want 0", live)
	}
}

// TestThreadedThreadDirected signals the waiting thread itself while a
// threaded wait is in progress.
func TestThreadedThreadDirected(t *testing.T) {
	tids := make(chan int, 1)
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return testutil.OnLockedThread(func() error {
			tids <- unix.Gettid()
			return sameMask(func() error {
				if out := Wait(Threaded{}, After(5*time.Second), linux.SIGUSR2); out.Kind != Signalled || out.Signal != linux.SIGUSR2 {
					return fmt.Errorf("Wait(5s, USR2) = %v, want signal USR2", out)
				}
				return nil
			})
		})
	})
	g.Go(func() error {
		var tid int
		select {
		case tid = <-tids:
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := testutil.PollContext(ctx, func() error {
			if n := dispatch.waiting(); n != 1 {
				return fmt.Errorf("%d waits registered", n)
			}
			return nil
		}); err != nil {
			return err
		}
		return unix.Tgkill(unix.Getpid(), tid, unix.SIGUSR2)
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// TestThreadedConsumesOnce has two waits for the same signal and sends it
// once. Only one of them may receive it.
func TestThreadedConsumesOnce(t *testing.T) {
	const n = 2
	outcomes := make(chan Outcome, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			outcomes <- Wait(Threaded{}, After(time.Second), linux.SIGUSR1)
			return nil
		})
	}
	if err := testutil.Poll(func() error {
		if got := dispatch.waiting(); got != n {
			return fmt.Errorf("%d waits registered, want %d", got, n)
		}
		return nil
	}, 5*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := unix.Kill(unix.Getpid(), unix.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	close(outcomes)

	counts := make(map[Kind]int)
	for out := range outcomes {
		counts[out.Kind]++
		if out.Kind == Signalled && out.Signal != linux.SIGUSR1 {
			t.Errorf("Wait received %v, want USR1", out.Signal)
		}
	}
	if counts[Signalled] != 1 || counts[TimedOut] != 1 {
		t.Errorf("outcomes = %v, want one signalled and one timed out", counts)
	}
}

func TestDispatcherOrder(t *testing.T) {
	d := &dispatcher{forwarders: make(map[linux.Signal]*forwarder)}
	usr1 := newWaiterState(linux.MakeSignalSet(linux.SIGUSR1))
	gone := newWaiterState(linux.MakeSignalSet(linux.SIGUSR2))
	first := newWaiterState(linux.MakeSignalSet(linux.SIGUSR1, linux.SIGUSR2))
	second := newWaiterState(linux.MakeSignalSet(linux.SIGUSR2))
	d.waiters = []*waiterState{usr1, gone, first, second}
	gone.cancel()

	d.deliver(linux.SIGUSR2)
	if finished, sig := first.cancel(); !finished || sig != linux.SIGUSR2 {
		t.Errorf("first waiter got %t, %v, want true, SIGUSR2", finished, sig)
	}
	d.deliver(linux.SIGUSR2)
	if finished, sig := second.cancel(); !finished || sig != linux.SIGUSR2 {
		t.Errorf("second waiter got %t, %v, want true, SIGUSR2", finished, sig)
	}
	// Nobody is left for a third one.
	d.deliver(linux.SIGUSR2)
	if finished, _ := usr1.cancel(); finished {
		t.Errorf("USR1 waiter received SIGUSR2")
	}
	if finished, _ := gone.cancel(); finished {
		t.Errorf("cancelled waiter received a signal")
	}
	if got := len(d.waiters); got != 2 {
		t.Errorf("%d waiters left, want 2", got)
	}
}

func TestWaiterStateCancelled(t *testing.T) {
	s := newWaiterState(linux.MakeSignalSet(linux.SIGUSR1))
	if finished, _ := s.cancel(); finished {
		t.Fatalf("fresh state reported finished")
	}
	if s.record(linux.SIGUSR1) {
		t.Errorf("record after cancel succeeded")
	}
	select {
	case <-s.done:
		t.Fatalf("record after cancel closed done")
	default:
	}
	if finished, _ := s.cancel(); finished {
		t.Errorf("record after cancel was kept")
	}
}

func TestWaiterStateRecorded(t *testing.T) {
	s := newWaiterState(linux.MakeSignalSet(linux.SIGUSR2))
	if !s.record(linux.SIGUSR2) {
		t.Fatalf("record on a fresh state failed")
	}
	if s.record(linux.SIGUSR2) {
		t.Errorf("second record succeeded")
	}
	<-s.done
	finished, sig := s.cancel()
	if !finished || sig != linux.SIGUSR2 {
		t.Errorf("cancel() = %t, %v, want true, SIGUSR2", finished, sig)
	}
}
