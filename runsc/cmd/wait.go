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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"math"
	"slices"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/sigwait"
	"gvisor.dev/sigctl/runsc/cmd/util"
	"gvisor.dev/sigctl/runsc/config"
)

// Exit codes of the wait command.
const (
	waitSignalled = 0
	waitTimedOut  = 1
	waitNoPending = 2
)

// Wait implements subcommands.Command for the "wait" command.
type Wait struct {
	timeout float64
	alarm   uint
}

// Name implements subcommands.Command.Name.
func (*Wait) Name() string {
	return "wait"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Wait) Synopsis() string {
	return "wait for a signal to arrive"
}

// Usage implements subcommands.Command.Usage.
func (*Wait) Usage() string {
	return `wait [flags] [signal...] - waits for one of the signals and prints its name.

With no signals, waits for any signal already pending. Exits with 0 when a
signal arrived, 1 on timeout and 2 when nothing was pending.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (wt *Wait) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&wt.timeout, "timeout", math.Inf(1), "seconds to wait for; 0 polls, inf waits forever.")
	f.UintVar(&wt.alarm, "alarm", 0, "schedule SIGALRM this many seconds from now and wait for it too.")
}

// Execute implements subcommands.Command.Execute.
func (wt *Wait) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	sigs, err := parseSignals(f.Args())
	if err != nil {
		f.Usage()
		return util.Errorf("%v", err)
	}
	conf := args[0].(*config.Config)
	waitStatus := args[1].(*unix.WaitStatus)

	m, err := openModule(conf)
	if err != nil {
		return util.Errorf("%v", err)
	}
	defer m.Close()

	if wt.alarm > 0 {
		// The alarm is what the caller waits for, with or without other
		// signals.
		if !slices.Contains(sigs, linux.SIGALRM) {
			sigs = append(sigs, linux.SIGALRM)
		}
		if _, err := m.Alarm(uint32(wt.alarm)); err != nil {
			return util.Errorf("scheduling alarm: %v", err)
		}
	}

	outcome := m.Wait(sigwait.Seconds(wt.timeout), sigs...)
	switch outcome.Kind {
	case sigwait.Signalled:
		fmt.Println(outcome.Signal.Name())
		*waitStatus = exitWith(waitSignalled)
	case sigwait.TimedOut:
		util.Infof("No signal after %s", sigwait.Seconds(wt.timeout))
		*waitStatus = exitWith(waitTimedOut)
	case sigwait.NoPending:
		util.Infof("No signal pending")
		*waitStatus = exitWith(waitNoPending)
	default:
		return util.Errorf("waiting for %v: %v", sigs, outcome.Err)
	}
	return subcommands.ExitSuccess
}
