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
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"gvisor.dev/sigctl/pkg/procstatus"
	"gvisor.dev/sigctl/runsc/cmd/util"
)

// Status implements subcommands.Command for the "status" command.
type Status struct {
	thread int
}

// Name implements subcommands.Command.Name.
func (*Status) Name() string {
	return "status"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Status) Synopsis() string {
	return "prints the signal state of a process"
}

// Usage implements subcommands.Command.Usage.
func (*Status) Usage() string {
	return `status [flags] [pid] - pid defaults to sigctl itself.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Status) SetFlags(f *flag.FlagSet) {
	f.IntVar(&s.thread, "thread", 0, "print the state of this thread of sigctl instead of a process.")
}

// Execute implements subcommands.Command.Execute.
func (s *Status) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() > 1 || (s.thread != 0 && f.NArg() != 0) {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var (
		st  *procstatus.Status
		err error
	)
	if s.thread != 0 {
		st, err = procstatus.ReadThread(s.thread)
	} else {
		pid := f.Arg(0)
		if pid == "" {
			pid = "self"
		}
		st, err = procstatus.Read(pid)
	}
	if err != nil {
		return util.Errorf("%v", err)
	}
	if err := writeStatus(os.Stdout, st); err != nil {
		return util.Errorf("writing status: %v", err)
	}
	return subcommands.ExitSuccess
}

func writeStatus(w io.Writer, st *procstatus.Status) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", st.Name)
	fmt.Fprintf(tw, "Pid:\t%d\n", st.Pid)
	fmt.Fprintf(tw, "Threads:\t%d\n", st.Threads)
	fmt.Fprintf(tw, "Queued:\t%d/%d\n", st.Queued, st.QueueLimit)
	for _, l := range st.Lines() {
		fmt.Fprintf(tw, "%s:\t%s\t%v\n", l.Key, l.Description, l.Set)
	}
	return tw.Flush()
}
