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

// Package util groups a bunch of common helper functions used by commands.
package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"gvisor.dev/sigctl/pkg/log"
)

// ErrorLogger is where error messages should be written to. These messages are
// consumed by tools driving the CLI, and they expect the format to be JSON.
var ErrorLogger io.Writer

type jsonError struct {
	Msg   string    `json:"msg"`
	Level string    `json:"level"`
	Time  time.Time `json:"time"`
}

// Writef writes a message to the writer w in JSON format.
func Writef(w io.Writer, level, format string, args ...any) error {
	e := jsonError{
		Msg:   fmt.Sprintf(format, args...),
		Level: level,
		Time:  time.Now(),
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Errorf logs error to the error log (--log), to stderr, and debug logs. It
// returns subcommands.ExitFailure for convenience with subcommand.Execute()
// methods:
//
//	return Errorf("Danger! Danger!")
func Errorf(format string, args ...any) subcommands.ExitStatus {
	// Whoever drives the CLI might not read stderr, so log a serious-looking
	// warning in addition to writing to stderr.
	log.Warningf("FATAL ERROR: "+format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	if ErrorLogger != nil {
		_ = Writef(ErrorLogger, "error", format, args...)
	}
	return subcommands.ExitFailure
}

// Fatalf logs the same way as Errorf() does, plus *exits* the process.
func Fatalf(format string, args ...any) {
	Errorf(format, args...)
	// Exit status 128 does not collide with wait's exit codes.
	os.Exit(128)
}

// Infof writes an info message to the debug logs and to ErrorLogger.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
	if ErrorLogger != nil {
		_ = Writef(ErrorLogger, "info", format, args...)
	}
}
