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

package sigchld

import (
	"testing"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
)

// fakeKernel stands in for the kernel's SIGCHLD disposition.
type fakeKernel struct {
	handler uint64
	calls   int
	err     error
}

func (k *fakeKernel) disposition(sig linux.Signal) (linux.SigAction, error) {
	k.calls++
	if sig != linux.SIGCHLD {
		panic("unexpected signal")
	}
	return linux.SigAction{Handler: k.handler}, k.err
}

// newFakeShim returns a shim whose kernel reports handler until Notify is
// called, and goHandler afterwards.
func newFakeShim(handler, goHandler uint64) (*Shim, *fakeKernel) {
	k := &fakeKernel{handler: handler}
	s := New()
	s.disposition = func(sig linux.Signal) (linux.SigAction, error) {
		sa, err := k.disposition(sig)
		if s.ch != nil && k.handler == handler {
			// Notify has been called since the first lookup.
			k.handler = goHandler
			sa.Handler = goHandler
		}
		return sa, err
	}
	return s, k
}

func TestArmRestoreDefault(t *testing.T) {
	s, _ := newFakeShim(linux.SIG_DFL, 0x1000)
	armed, err := s.Arm()
	if err != nil || !armed {
		t.Fatalf("Arm() = %t, %v, want true, nil", armed, err)
	}
	if got := s.State(); got != Armed {
		t.Fatalf("State() = %v, want armed", got)
	}
	if armed, _ := s.Arm(); armed {
		t.Errorf("second Arm() armed again")
	}

	restored, err := s.Restore()
	if err != nil || !restored {
		t.Fatalf("Restore() = %t, %v, want true, nil", restored, err)
	}
	if got := s.State(); got != Restored {
		t.Errorf("State() = %v, want restored", got)
	}
	if s.ch != nil {
		t.Errorf("channel still registered after Restore")
	}
}

func TestForeignHandlerNeverOverwritten(t *testing.T) {
	s, k := newFakeShim(0xdead, 0x1000)
	armed, err := s.Arm()
	if err != nil || armed {
		t.Fatalf("Arm() = %t, %v, want false, nil", armed, err)
	}
	if got := s.State(); got != Unarmed {
		t.Fatalf("State() = %v, want unarmed", got)
	}

	// Even if the foreign handler goes away, the shim stays unarmed.
	k.handler = linux.SIG_DFL
	calls := k.calls
	if armed, _ := s.Arm(); armed {
		t.Errorf("Arm() armed after finding a foreign handler")
	}
	if k.calls != calls {
		t.Errorf("Arm() inspected the disposition again")
	}
	if restored, _ := s.Restore(); restored {
		t.Errorf("Restore() on unarmed shim restored something")
	}
	if got := s.State(); got != Unarmed {
		t.Errorf("State() = %v after Restore, want unarmed", got)
	}
}

func TestReplacedHandlerNotRestored(t *testing.T) {
	s, k := newFakeShim(linux.SIG_DFL, 0x1000)
	if armed, err := s.Arm(); err != nil || !armed {
		t.Fatalf("Arm() = %t, %v", armed, err)
	}
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ch != nil {
			s.undoLocked()
		}
	}()

	// Someone else installs a handler.
	k.handler = 0xbeef
	restored, err := s.Restore()
	if err != nil || restored {
		t.Fatalf("Restore() = %t, %v, want false, nil", restored, err)
	}
	if got := s.State(); got != Restored {
		t.Errorf("State() = %v, want restored", got)
	}
}

func TestArmError(t *testing.T) {
	s, k := newFakeShim(linux.SIG_DFL, 0x1000)
	k.err = unix.ENOSYS
	if _, err := s.Arm(); err == nil {
		t.Fatalf("Arm() succeeded with failing disposition lookup")
	}
	if got := s.State(); got != Unarmed {
		t.Errorf("State() = %v, want unarmed", got)
	}
}

func TestAcquireRelease(t *testing.T) {
	s, _ := newFakeShim(linux.SIG_DFL, 0x1000)
	for i := 0; i < 3; i++ {
		if err := s.Acquire(); err != nil {
			t.Fatalf("Acquire #%d: %v", i, err)
		}
	}
	if got := s.State(); got != Armed {
		t.Fatalf("State() = %v after Acquire, want armed", got)
	}
	for i := 0; i < 2; i++ {
		if err := s.Release(); err != nil {
			t.Fatalf("Release #%d: %v", i, err)
		}
		if got := s.State(); got != Armed {
			t.Fatalf("State() = %v with users left, want armed", got)
		}
	}
	if err := s.Release(); err != nil {
		t.Fatalf("last Release: %v", err)
	}
	if got := s.State(); got != Restored {
		t.Errorf("State() = %v after last Release, want restored", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("unbalanced Release did not panic")
		}
	}()
	s.Release()
}

func TestRearmAfterRestore(t *testing.T) {
	s, k := newFakeShim(linux.SIG_DFL, 0x1000)
	if _, err := s.Arm(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Restore(); err != nil {
		t.Fatal(err)
	}
	k.handler = linux.SIG_DFL
	armed, err := s.Arm()
	if err != nil || !armed {
		t.Fatalf("Arm() after Restore = %t, %v, want true, nil", armed, err)
	}
	if _, err := s.Restore(); err != nil {
		t.Fatal(err)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Unarmed: "unarmed", Armed: "armed", Restored: "restored", State(7): "State(7)"} {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
