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

	"github.com/google/subcommands"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/runsc/cmd/util"
	"gvisor.dev/sigctl/runsc/config"
)

// Raise implements subcommands.Command for the "raise" command.
type Raise struct {
	ignore bool
	reset  bool
}

// Name implements subcommands.Command.Name.
func (*Raise) Name() string {
	return "raise"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Raise) Synopsis() string {
	return "sends a signal to the calling process"
}

// Usage implements subcommands.Command.Usage.
func (*Raise) Usage() string {
	return `raise [flags] <signal> - the signal's default action applies, so raising
TERM terminates sigctl itself unless -ignore is given.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *Raise) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.ignore, "ignore", false, "ignore the signal before raising it.")
	f.BoolVar(&r.reset, "default", false, "restore the default action of the signal before raising it.")
}

// Execute implements subcommands.Command.Execute.
func (r *Raise) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 || (r.ignore && r.reset) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sig, err := linux.ParseSignal(f.Arg(0))
	if err != nil {
		return util.Errorf("%v", err)
	}
	conf := args[0].(*config.Config)

	m, err := openModule(conf)
	if err != nil {
		return util.Errorf("%v", err)
	}
	defer m.Close()

	switch {
	case r.ignore:
		err = m.Ignore(sig)
	case r.reset:
		err = m.Default(sig)
	}
	if err != nil {
		return util.Errorf("changing disposition of %v: %v", sig, err)
	}
	if err := m.Raise(sig); err != nil {
		return util.Errorf("raising %v: %v", sig, err)
	}
	return subcommands.ExitSuccess
}
