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
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/subcommands"
	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/runsc/cmd/util"
	"gvisor.dev/sigctl/runsc/config"
)

// Kill implements subcommands.Command for the "kill" command.
type Kill struct {
	group bool
	wait  time.Duration
}

// Name implements subcommands.Command.Name.
func (*Kill) Name() string {
	return "kill"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Kill) Synopsis() string {
	return "sends a signal to a process or process group"
}

// Usage implements subcommands.Command.Usage.
func (*Kill) Usage() string {
	return `kill [flags] <pid> [signal] - signal defaults to TERM. A pid of 0 means
the calling process, or its process group with -pg.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (k *Kill) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&k.group, "pg", false, "treat pid as a process group ID and signal the whole group.")
	f.DurationVar(&k.wait, "wait", 0, "after signalling, wait up to this long for the target to exit.")
}

// Execute implements subcommands.Command.Execute.
func (k *Kill) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 || f.NArg() > 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	pid, err := strconv.Atoi(f.Arg(0))
	if err != nil || pid < 0 {
		f.Usage()
		return util.Errorf("invalid pid %q", f.Arg(0))
	}
	signal := f.Arg(1)
	if signal == "" {
		signal = "TERM"
	}
	sig, err := linux.ParseSignal(signal)
	if err != nil {
		return util.Errorf("%v", err)
	}
	conf := args[0].(*config.Config)

	m, err := openModule(conf)
	if err != nil {
		return util.Errorf("%v", err)
	}
	defer m.Close()

	if k.group {
		err = m.Killpg(pid, sig)
	} else {
		err = m.Kill(pid, sig)
	}
	if err != nil {
		return util.Errorf("sending %v to %d: %v", sig, pid, err)
	}
	if k.wait > 0 && pid != 0 {
		if err := waitForExit(ctx, pid, k.group, k.wait); err != nil {
			return util.Errorf("%v", err)
		}
	}
	return subcommands.ExitSuccess
}

// waitForExit polls until pid (or process group pid) no longer exists.
func waitForExit(ctx context.Context, pid int, group bool, timeout time.Duration) error {
	target := pid
	if group {
		target = -pid
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = timeout
	op := func() error {
		switch err := unix.Kill(target, 0); err {
		case unix.ESRCH:
			return nil
		case nil, unix.EPERM:
			return fmt.Errorf("%d still exists", pid)
		default:
			return backoff.Permanent(err)
		}
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("waiting for %d to exit: %w", pid, err)
	}
	log.Debugf("Process %d exited", pid)
	return nil
}
