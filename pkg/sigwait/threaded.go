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
	stderrors "errors"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigmask"
)

// releaseGrace is the minimum time given to signals that were already pending
// on the calling thread to reach the dispatcher once unblocked, even when
// polling.
const releaseGrace = 100 * time.Millisecond

// Threaded waits through os/signal. Each call registers with the process-wide
// dispatcher, unblocks its set on the calling thread and waits for the
// dispatcher to hand it a signal or for the deadline.
type Threaded struct{}

// Name implements Strategy.Name.
func (Threaded) Name() string { return StrategyThreaded }

// waiterState is shared between one waiting call and the dispatcher. Every
// field is guarded by mu.
type waiterState struct {
	mu sync.Mutex

	// set is the signals the call waits for. Immutable.
	set linux.SignalSet

	// cancelled is set by the caller once it stops waiting. Nothing is
	// recorded after that.
	cancelled bool

	// finished is set when a signal has been recorded.
	finished bool
	signo    linux.Signal

	// done is closed when finished is set.
	done chan struct{}

	// registered is the part of set the dispatcher holds references for.
	// Guarded by the dispatcher's mu, not by this mu.
	registered linux.SignalSet
}

func newWaiterState(set linux.SignalSet) *waiterState {
	return &waiterState{set: set, done: make(chan struct{})}
}

// record stores sig and reports whether it was taken. A cancelled or already
// finished state takes nothing.
func (s *waiterState) record(sig linux.Signal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.finished {
		return false
	}
	s.finished = true
	s.signo = sig
	close(s.done)
	return true
}

// cancel marks s cancelled and returns whatever was recorded.
func (s *waiterState) cancel() (finished bool, sig linux.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
	return s.finished, s.signo
}

// forwarder owns the os/signal registration of one signal.
type forwarder struct {
	// refs is the number of waiting calls that include the signal.
	refs int

	ch     chan os.Signal
	stop   chan struct{}
	exited chan struct{}
}

// dispatcher hands every received signal to exactly one waiting call: the
// earliest registered one whose set contains it.
type dispatcher struct {
	mu sync.Mutex

	// waiters is in registration order.
	waiters []*waiterState

	// forwarders has an entry for every signal some waiter includes.
	forwarders map[linux.Signal]*forwarder
}

// dispatch is shared by all threaded waits in the process.
var dispatch = &dispatcher{forwarders: make(map[linux.Signal]*forwarder)}

// subscribe registers s and starts listening for every signal in s.set. On
// error s may be partly registered; unsubscribe undoes it.
func (d *dispatcher) subscribe(s *waiterState) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waiters = append(d.waiters, s)
	for _, sig := range s.set.Signals() {
		f, ok := d.forwarders[sig]
		if !ok {
			f = &forwarder{
				ch:     make(chan os.Signal, 8),
				stop:   make(chan struct{}),
				exited: make(chan struct{}),
			}
			if err := listen(f.ch, sig); err != nil {
				return err
			}
			d.forwarders[sig] = f
			liveWaiters.Add(1)
			go d.forward(sig, f)
		}
		f.refs++
		s.registered |= linux.SignalSetOf(sig)
	}
	return nil
}

// unsubscribe removes s and stops the forwarders nobody needs any more. It
// returns after they have exited.
func (d *dispatcher) unsubscribe(s *waiterState) {
	var stopped []*forwarder
	d.mu.Lock()
	if i := slices.Index(d.waiters, s); i >= 0 {
		d.waiters = slices.Delete(d.waiters, i, i+1)
	}
	linux.ForEachSignal(s.registered, func(sig linux.Signal) {
		f := d.forwarders[sig]
		f.refs--
		if f.refs == 0 {
			delete(d.forwarders, sig)
			signal.Stop(f.ch)
			close(f.stop)
			stopped = append(stopped, f)
		}
	})
	s.registered = 0
	d.mu.Unlock()

	for _, f := range stopped {
		<-f.exited
	}
}

// waiting returns the number of registered calls.
func (d *dispatcher) waiting() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}

func (d *dispatcher) forward(sig linux.Signal, f *forwarder) {
	defer close(f.exited)
	defer liveWaiters.Add(-1)
	for {
		select {
		case <-f.ch:
			d.deliver(sig)
		case <-f.stop:
			return
		}
	}
}

// deliver gives sig to the earliest waiter that takes it.
func (d *dispatcher) deliver(sig linux.Signal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.waiters {
		if s.set.Contains(sig) && s.record(sig) {
			d.waiters = slices.Delete(d.waiters, i, i+1)
			return
		}
	}
	log.Debugf("Dropped %v, no wait took it", sig)
}

// listen registers ch for sig. A panic while registering is reported as a
// failure to start the waiter.
func listen(ch chan<- os.Signal, sig linux.Signal) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warningf("Signal waiter failed to start: %v", r)
			err = errors.ThreadSpawn("wait.pthread_create", unix.EAGAIN)
		}
	}()
	signal.Notify(ch, syscall.Signal(sig))
	return nil
}

// Wait implements Strategy.Wait.
func (Threaded) Wait(set linux.SignalSet, deadline Deadline) Outcome {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s := newWaiterState(set)
	// Runs after the mask is restored, so that a signal aimed at this
	// thread after the wait stays pending instead of being dropped.
	defer dispatch.unsubscribe(s)

	saved, err := sigmask.BlockSaved("wait", set)
	switch {
	case err == nil:
		defer func() {
			if err := saved.Restore(); err != nil {
				log.Warningf("Failed to restore signal mask after wait: %v", err)
			}
		}()
	case stderrors.Is(err, unix.ENOSYS):
		// No per-thread masks here; the runtime already routes every
		// signal to os/signal.
		saved = nil
	default:
		return failed(err)
	}

	if err := dispatch.subscribe(s); err != nil {
		return failed(err)
	}

	var released linux.SignalSet
	if saved != nil {
		// Now that the set is registered, let signals aimed at this
		// thread through, including the ones already pending.
		if pending, err := sigmask.Pending("wait"); err == nil {
			released = pending & set
		}
		if err := sigmask.Unblock(set.Signals()...); err != nil {
			log.Warningf("Failed to unblock %v for threaded wait: %v", set, err)
			released = 0
		}
	}

	var timeout <-chan time.Time
	if !deadline.IsForever() {
		remaining := deadline.Remaining()
		if !released.Empty() {
			log.Debugf("Released pending signals %v to waiter", released)
			if remaining < releaseGrace {
				remaining = releaseGrace
			}
		}
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-s.done:
	case <-timeout:
	}

	// The result is read under the same lock that stops the dispatcher from
	// recording, so a signal is either returned here or left for another
	// wait.
	if finished, sig := s.cancel(); finished {
		return signalled(sig)
	}
	return timedOut()
}
