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

// Package cmd holds implementations of the sigctl commands.
package cmd

import (
	"fmt"

	"golang.org/x/sys/unix"
	"gvisor.dev/sigctl/pkg/abi/linux"
	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigctl"
	"gvisor.dev/sigctl/runsc/config"
)

// parseSignals parses every argument as a signal.
func parseSignals(args []string) ([]linux.Signal, error) {
	sigs := make([]linux.Signal, 0, len(args))
	for _, arg := range args {
		sig, err := linux.ParseSignal(arg)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// openModule opens a signal module configured from conf.
func openModule(conf *config.Config) (*sigctl.Module, error) {
	m, err := sigctl.Open(sigctl.Options{
		Strategy:           conf.Strategy,
		DisableSigchldShim: !conf.SigchldShim,
	})
	if err != nil {
		return nil, fmt.Errorf("opening signal module: %w", err)
	}
	log.Debugf("Using %s wait strategy", m.Strategy().Name())
	return m, nil
}

// exitWith returns a wait status that makes the process exit with code.
func exitWith(code int) unix.WaitStatus {
	return unix.WaitStatus(code << 8)
}
