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

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileOpts contains options for opening a log file.
type FileOpts interface {
	// Build constructs the log file path based on the given pattern.
	Build(logPattern string) string
}

// Substitutions replaces %TIMESTAMP%, %PID% and %COMMAND% in a log pattern.
type Substitutions struct {
	// Command is the subcommand being run.
	Command string

	// Now is used for %TIMESTAMP%. Zero means time.Now().
	Now time.Time
}

// Build implements FileOpts.Build.
func (s Substitutions) Build(logPattern string) string {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}
	return strings.NewReplacer(
		"%TIMESTAMP%", fmt.Sprintf("%d", now.UnixNano()),
		"%PID%", fmt.Sprintf("%d", pid),
		"%COMMAND%", s.Command,
	).Replace(logPattern)
}

// OpenFile opens a log file using the specified flags. It uses `opts` to
// construct the log file path based on the given pattern. It returns nil
// and no error if logPattern is empty.
func OpenFile(logPattern string, flags int, opts FileOpts) (*os.File, error) {
	if len(logPattern) == 0 {
		return nil, nil
	}

	logPath := opts.Build(logPattern)

	// Create parent directory if it doesn't exist.
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0775); err != nil {
		return nil, fmt.Errorf("error creating dir %q: %v", dir, err)
	}

	f, err := os.OpenFile(logPath, flags, 0664)
	if err != nil {
		return nil, fmt.Errorf("error opening file %q: %v", logPath, err)
	}
	return f, nil
}
