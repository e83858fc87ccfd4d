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

// Package config provides basic infrastructure to set configuration settings
// for sigctl. Each setting that can be changed from the command line must
// have a corresponding flag name, and may also be set from a TOML file passed
// with --config.
package config

import (
	"fmt"

	"gvisor.dev/sigctl/pkg/log"
	"gvisor.dev/sigctl/pkg/sigwait"
)

// Config holds configuration that is not part of a single command's flags.
//
// Follow these steps to add a new flag:
//  1. Create a new field in Config.
//  2. Add a field tag with the flag name, and a toml tag with the key used in
//     configuration files.
//  3. Register a new flag in flags.go, with name and description.
//  4. Add any necessary validation into validate().
type Config struct {
	// ConfigFile is a TOML file with settings. Flags given on the command
	// line take precedence over it.
	ConfigFile string `flag:"config" toml:"-"`

	// LogFilename is the filename to log errors to, in JSON format.
	LogFilename string `flag:"log" toml:"log"`

	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug" toml:"debug"`

	// LogFormat is the log format for stderr: "text", "json" or "json-k8s".
	LogFormat string `flag:"log-format" toml:"log_format"`

	// DebugLog is the path to log debug information to, if not empty.
	DebugLog string `flag:"debug-log" toml:"debug_log"`

	// DebugLogFormat is the log format for DebugLog.
	DebugLogFormat string `flag:"debug-log-format" toml:"debug_log_format"`

	// AlsoLogToStderr allows to send log messages to stderr in addition to
	// DebugLog.
	AlsoLogToStderr bool `flag:"alsologtostderr" toml:"alsologtostderr"`

	// Strategy is the signal wait strategy: "auto", "native" or "threaded".
	Strategy string `flag:"strategy" toml:"strategy"`

	// SigchldShim arms the SIGCHLD shim so that SIGCHLD can be waited for.
	SigchldShim bool `flag:"sigchld-shim" toml:"sigchld_shim"`

	// Metrics prints metrics in Prometheus format to stderr on exit.
	Metrics bool `flag:"metrics" toml:"metrics"`
}

func validateLogFormat(name, format string) error {
	if _, err := log.NewEmitter(format, &log.Writer{}); err != nil {
		return fmt.Errorf("invalid --%s: %w", name, err)
	}
	return nil
}

func (c *Config) validate() error {
	if err := validateLogFormat("log-format", c.LogFormat); err != nil {
		return err
	}
	if err := validateLogFormat("debug-log-format", c.DebugLogFormat); err != nil {
		return err
	}
	if _, err := sigwait.NewStrategy(c.Strategy); err != nil {
		return fmt.Errorf("invalid --strategy: %w", err)
	}
	return nil
}
