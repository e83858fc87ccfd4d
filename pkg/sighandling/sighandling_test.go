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

package sighandling

import (
	stderrors "errors"
	"testing"

	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/errors"
)

func TestDisposition(t *testing.T) {
	// SIGKILL can never have a handler.
	sa, err := Disposition(linux.SIGKILL)
	if err != nil {
		t.Fatalf("Disposition(SIGKILL): %v", err)
	}
	if sa.Handler != linux.SIG_DFL {
		t.Errorf("SIGKILL handler = %#x, want SIG_DFL", sa.Handler)
	}

	// The runtime handles SIGURG for preemption.
	if sa, err = Disposition(linux.SIGURG); err != nil {
		t.Fatalf("Disposition(SIGURG): %v", err)
	}
	if sa.IsDefaultOrIgnored() {
		t.Errorf("SIGURG handler = %#x, want the runtime's", sa.Handler)
	}
}

func TestDispositionInvalid(t *testing.T) {
	for _, sig := range []linux.Signal{0, 65} {
		if _, err := Disposition(sig); !stderrors.Is(err, errors.ErrInvalidSignal) {
			t.Errorf("Disposition(%d) got err %v, want invalid signal", sig, err)
		}
	}
}
