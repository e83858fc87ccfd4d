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

// Package procstatus reads the signal state of a process or thread from
// /proc.
package procstatus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gvisor.dev/sigctl/pkg/abi/linux"
)

// Status is the signal-related part of /proc/<pid>/status.
type Status struct {
	// Name is the command name.
	Name string

	// Pid is the thread group id.
	Pid int

	// Threads is the number of threads in the process.
	Threads int

	// Queued and QueueLimit come from SigQ: queued signals for the real
	// user id, and the limit on them.
	Queued     int
	QueueLimit int

	// Pending is SigPnd, the signals pending for this thread.
	Pending linux.SignalSet

	// SharedPending is ShdPnd, the signals pending for the process.
	SharedPending linux.SignalSet

	// Blocked is SigBlk.
	Blocked linux.SignalSet

	// Ignored is SigIgn.
	Ignored linux.SignalSet

	// Caught is SigCgt, the signals with a handler installed.
	Caught linux.SignalSet
}

// Read reads the status of pid, which may be "self".
func Read(pid string) (*Status, error) {
	return readFile(filepath.Join("/proc", pid, "status"))
}

// ReadThread reads the status of thread tid in the calling process. Unlike
// Read, the Pending and Blocked sets are those of that thread.
func ReadThread(tid int) (*Status, error) {
	return readFile(filepath.Join("/proc/self/task", strconv.Itoa(tid), "status"))
}

func readFile(path string) (*Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return s, nil
}

// Parse decodes a status file.
func Parse(r io.Reader) (*Status, error) {
	s := &Status{}
	sets := map[string]*linux.SignalSet{
		"SigPnd": &s.Pending,
		"ShdPnd": &s.SharedPending,
		"SigBlk": &s.Blocked,
		"SigIgn": &s.Ignored,
		"SigCgt": &s.Caught,
	}
	found := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// Format: Key:\tvalue
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "Name":
			s.Name = value
		case "Pid":
			s.Pid, err = strconv.Atoi(value)
		case "Threads":
			s.Threads, err = strconv.Atoi(value)
		case "SigQ":
			s.Queued, s.QueueLimit, err = parseSigQ(value)
		default:
			set, ok := sets[key]
			if !ok {
				continue
			}
			var v uint64
			v, err = strconv.ParseUint(value, 16, 64)
			*set = linux.SignalSet(v)
			found++
		}
		if err != nil {
			return nil, fmt.Errorf("invalid %s line %q: %w", key, scanner.Text(), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if found == 0 {
		return nil, fmt.Errorf("no signal lines found")
	}
	return s, nil
}

// parseSigQ parses "queued/limit".
func parseSigQ(value string) (int, int, error) {
	q, l, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0, fmt.Errorf("missing '/'")
	}
	queued, err := strconv.Atoi(q)
	if err != nil {
		return 0, 0, err
	}
	limit, err := strconv.Atoi(l)
	if err != nil {
		return 0, 0, err
	}
	return queued, limit, nil
}

// Lines returns the signal sets as named lines, in /proc order.
func (s *Status) Lines() []Line {
	return []Line{
		{"SigPnd", "pending (thread)", s.Pending},
		{"ShdPnd", "pending (process)", s.SharedPending},
		{"SigBlk", "blocked", s.Blocked},
		{"SigIgn", "ignored", s.Ignored},
		{"SigCgt", "caught", s.Caught},
	}
}

// Line is one decoded signal line.
type Line struct {
	Key         string
	Description string
	Set         linux.SignalSet
}
