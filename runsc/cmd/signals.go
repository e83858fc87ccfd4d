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
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/sighandling"
	"gvisor.dev/sigctl/runsc/cmd/util"
)

// Signals implements subcommands.Command for the "signals" command.
type Signals struct {
	all bool
}

// Name implements subcommands.Command.Name.
func (*Signals) Name() string {
	return "signals"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Signals) Synopsis() string {
	return "lists signals and their current disposition"
}

// Usage implements subcommands.Command.Usage.
func (*Signals) Usage() string {
	return `signals [flags]
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Signals) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.all, "all", false, "include realtime signals.")
}

// Execute implements subcommands.Command.Execute.
func (s *Signals) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sigs := linux.NamedSignals()
	if s.all {
		sigs = sigs[:0]
		for sig := linux.Signal(1); sig <= linux.SignalMaximum; sig++ {
			if sig.IsUsable() {
				sigs = append(sigs, sig)
			}
		}
	}
	if err := writeSignals(os.Stdout, sigs); err != nil {
		return util.Errorf("%v", err)
	}
	return subcommands.ExitSuccess
}

func dispositionString(act linux.SigAction) string {
	switch act.Handler {
	case linux.SIG_DFL:
		return "default"
	case linux.SIG_IGN:
		return "ignored"
	default:
		return fmt.Sprintf("handler %#x", act.Handler)
	}
}

func writeSignals(w io.Writer, sigs []linux.Signal) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "NUM\tNAME\tDISPOSITION\n")
	for _, sig := range sigs {
		disposition := "unknown"
		if sighandling.Supported() {
			act, err := sighandling.Disposition(sig)
			if err != nil {
				return fmt.Errorf("querying %v: %w", sig, err)
			}
			disposition = dispositionString(act)
		}
		fmt.Fprintf(tw, "%d\t%v\t%s\n", int(sig), sig, disposition)
	}
	return tw.Flush()
}
