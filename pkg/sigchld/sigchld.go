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

// Package sigchld makes SIGCHLD observable by synchronous waits.
//
// A SIGCHLD left at its default or ignored disposition is discarded by the
// kernel before it can become pending, so it can never be waited for. The
// shim installs a handler in that case and puts the old disposition back once
// the last user releases it. It never replaces a handler that someone else
// installed.
//
// In a Go program the handler is the runtime's own, obtained through
// os/signal. The runtime installs it at startup, so the shim only has work to
// do when SIGCHLD has been ignored (signal.Ignore, or a program that embeds Go
// as a library).
package sigchld

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sighandling"
)

// State is the shim's lifecycle state.
type State int

const (
	// Unarmed means no handler was installed by the shim.
	Unarmed State = iota

	// Armed means the shim's handler is installed.
	Armed

	// Restored means the shim was armed and has since been torn down.
	Restored
)

func (s State) String() string {
	switch s {
	case Unarmed:
		return "unarmed"
	case Armed:
		return "armed"
	case Restored:
		return "restored"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Shim tracks the handler installed for SIGCHLD.
type Shim struct {
	mu sync.Mutex

	// state is the current state.
	state State

	// inspected is set once an Unarmed shim has found a foreign handler.
	// Such a shim never arms.
	inspected bool

	// refs counts Acquire calls not yet matched by Release.
	refs int

	// prior is the disposition found when arming: SIG_DFL or SIG_IGN.
	prior uint64

	// installed is the handler address the kernel reported right after
	// arming.
	installed uint64

	// ch is registered with os/signal while armed. Nothing reads it.
	ch chan os.Signal

	// disposition is sighandling.Disposition, replaced in tests.
	disposition func(linux.Signal) (linux.SigAction, error)
}

// global is the process-wide shim.
var global = New()

// Global returns the process-wide shim.
func Global() *Shim {
	return global
}

// New returns an unarmed shim. Only one shim should be armed at a time.
func New() *Shim {
	return &Shim{disposition: sighandling.Disposition}
}

// State returns the current state.
func (s *Shim) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Arm installs the shim's handler if SIGCHLD is at its default or ignored
// disposition. It returns true if it did.
//
// An unarmed shim that finds a foreign handler stays unarmed for good. A
// restored shim may be armed again.
func (s *Shim) Arm() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armLocked()
}

func (s *Shim) armLocked() (bool, error) {
	switch {
	case s.state == Armed:
		return false, nil
	case s.state == Unarmed && s.inspected:
		return false, nil
	}

	sa, err := s.disposition(linux.SIGCHLD)
	if err != nil {
		return false, err
	}
	if !sa.IsDefaultOrIgnored() {
		log.Infof("SIGCHLD already has handler %#x, shim not armed", sa.Handler)
		s.state = Unarmed
		s.inspected = true
		return false, nil
	}

	s.prior = sa.Handler
	s.ch = make(chan os.Signal, 1)
	signal.Notify(s.ch, unix.SIGCHLD)

	cur, err := s.disposition(linux.SIGCHLD)
	if err != nil {
		s.undoLocked()
		return false, err
	}
	s.installed = cur.Handler
	s.state = Armed
	log.Infof("SIGCHLD shim armed, handler %#x replaces %s", s.installed, dispositionName(s.prior))
	return true, nil
}

// Restore puts back the disposition recorded by Arm, provided the shim's
// handler is still the one installed. It returns true if it did. An armed
// shim becomes Restored either way; other states are left alone.
func (s *Shim) Restore() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreLocked()
}

func (s *Shim) restoreLocked() (bool, error) {
	if s.state != Armed {
		return false, nil
	}
	s.state = Restored

	cur, err := s.disposition(linux.SIGCHLD)
	if err != nil {
		log.Warningf("Cannot inspect SIGCHLD, leaving it alone: %v", err)
		return false, err
	}
	if cur.Handler != s.installed {
		log.Infof("SIGCHLD handler changed to %#x since the shim was armed, not restoring", cur.Handler)
		return false, nil
	}
	s.undoLocked()
	log.Infof("SIGCHLD restored to %s", dispositionName(s.prior))
	return true, nil
}

// undoLocked unregisters the shim and reinstates the prior disposition.
//
// Once nothing is registered, the runtime drops SIGCHLD, which matches the
// default action. SIG_IGN must be set explicitly.
func (s *Shim) undoLocked() {
	signal.Stop(s.ch)
	s.ch = nil
	if s.prior == linux.SIG_IGN {
		signal.Ignore(unix.SIGCHLD)
	}
}

// Acquire registers a user of the shim, arming it on the first one.
func (s *Shim) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		if _, err := s.armLocked(); err != nil {
			return err
		}
	}
	s.refs++
	return nil
}

// Release drops a user of the shim, restoring it when the last one leaves.
func (s *Shim) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs <= 0 {
		panic("sigchld: Release without Acquire")
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	_, err := s.restoreLocked()
	return err
}

func dispositionName(h uint64) string {
	switch h {
	case linux.SIG_DFL:
		return "SIG_DFL"
	case linux.SIG_IGN:
		return "SIG_IGN"
	default:
		return fmt.Sprintf("handler %#x", h)
	}
}
