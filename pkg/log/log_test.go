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
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	expected := []string{
		"line 1\n",
		"line 2\n",
		"\n*** Dropped 2 log messages ***\n",
	}
	if diff := cmp.Diff(expected, tw.lines); diff != "" {
		t.Errorf("Writer lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	w := Writer{Next: &buf}
	w.Emit(0, Info, time.Now(), "hello %d", 7)
	if got, want := buf.String(), "hello 7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGoogleEmitterFormat(t *testing.T) {
	var buf bytes.Buffer
	e := GoogleEmitter{&Writer{Next: &buf}}
	ts := time.Date(2024, time.May, 3, 4, 5, 6, 7000, time.UTC)
	e.Emit(0, Warning, ts, "blocked %s", "SIGUSR1")

	line := buf.String()
	if !strings.HasPrefix(line, "W0503 04:05:06.000007 ") {
		t.Errorf("unexpected prefix in %q", line)
	}
	if !strings.Contains(line, "log_test.go:") {
		t.Errorf("missing caller in %q", line)
	}
	if !strings.HasSuffix(line, "] blocked SIGUSR1\n") {
		t.Errorf("unexpected suffix in %q", line)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := &BasicLogger{Level: Info, Emitter: &Writer{Next: &buf}}
	l.Debugf("debug")
	l.Infof("info")
	l.Warningf("warning")
	if got, want := buf.String(), "info\nwarning\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	l.SetLevel(Debug)
	if !l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = false after SetLevel(Debug)")
	}
}

func TestMultiEmitter(t *testing.T) {
	var a, b bytes.Buffer
	m := MultiEmitter{&Writer{Next: &a}, &Writer{Next: &b}}
	m.Emit(0, Info, time.Now(), "x")
	if a.String() != "x\n" || b.String() != "x\n" {
		t.Errorf("got %q and %q, want both %q", a.String(), b.String(), "x\n")
	}
}

func TestRateLimited(t *testing.T) {
	var buf bytes.Buffer
	l := &BasicLogger{Level: Info, Emitter: &Writer{Next: &buf}}
	rl := RateLimitedLogger(l, time.Hour)
	for i := 0; i < 5; i++ {
		rl.Warningf("retry %d", i)
	}
	if got, want := buf.String(), "retry 0\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := rl.Dropped(); got != 4 {
		t.Errorf("Dropped() = %d, want 4", got)
	}

	// Messages below the level don't consume tokens.
	rl.Debugf("ignored")
	if got := rl.Dropped(); got != 4 {
		t.Errorf("Dropped() = %d after filtered Debugf, want 4", got)
	}
}

func TestSubstitutions(t *testing.T) {
	s := Substitutions{Command: "wait", Now: time.Unix(0, 42)}
	if got, want := s.Build("/tmp/sigctl/%TIMESTAMP%.%COMMAND%.log"), "/tmp/sigctl/42.wait.log"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}
