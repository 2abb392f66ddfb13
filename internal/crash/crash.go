/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns unrecoverable player failures into a crash report
// under the cassette's log directory and a non-zero exit.
package crash

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "github.com/yuu-eguci/dialog-framework/internal/log"
	"github.com/yuu-eguci/dialog-framework/internal/version"
)

// LogDirName is the cassette sub directory that receives crash reports.
const LogDirName = "log"

// ExitCode is the process status after a crash.
const ExitCode = 2

// Swapped by tests.
var (
	exitFn           = os.Exit
	stderr io.Writer = os.Stderr
	now              = time.Now
)

// report is the content of one crash file.
type report struct {
	Kind   string // "Panic" or "Error"
	Detail any
	Trace  []byte
	Root   string
	At     time.Time
}

func (r report) fileName() string {
	return "crash-" + r.At.Format("20060102-150405") + ".log"
}

func (r report) render() []byte {
	var b bytes.Buffer
	b.WriteString("Dialog Frame Crash Report\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", r.At.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version: %s\n", version.String())
	fmt.Fprintf(&b, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if r.Root != "" {
		fmt.Fprintf(&b, "Cassette: %s\n", r.Root)
	}
	fmt.Fprintf(&b, "\n%s: %v\n\nTrace:\n", r.Kind, r.Detail)
	b.Write(r.Trace)
	b.WriteByte('\n')
	return b.Bytes()
}

// Recover captures a panic, writes a crash report and exits.
//
// Usage: defer crash.Recover(root)
func Recover(root string) {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	applog.WithComponent("crash").Error("panic", slog.Any("value", v), slog.String("stack", string(stack)))
	die(report{Kind: "Panic", Detail: v, Trace: stack, Root: root, At: now()})
}

// Fatal reports err the same way Recover reports a panic. A nil error is a no-op.
func Fatal(root string, err error) {
	if err == nil {
		return
	}
	applog.WithComponent("crash").Error("fatal", slog.Any("err", err))
	die(report{Kind: "Error", Detail: err, Trace: unwrapChain(err), Root: root, At: now()})
}

func die(r report) {
	path, err := save(r)
	if err != nil {
		applog.WithComponent("crash").Error("crash report not written", slog.String("path", path), slog.Any("err", err))
		fmt.Fprintf(stderr, "A fatal error occurred and the crash report could not be written: %v\n", err)
	} else {
		fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", path)
	}
	fmt.Fprintf(stderr, "%s: %v\n", r.Kind, r.Detail)
	exitFn(ExitCode)
}

// unwrapChain lists every wrapped layer of err, outermost first.
func unwrapChain(err error) []byte {
	var b bytes.Buffer
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&b, "#%d %T: %v\n", depth, err, err)
		err = errors.Unwrap(err)
	}
	return b.Bytes()
}

// save writes r under <root>/log, or the temp dir when no cassette is known.
func save(r report) (string, error) {
	dir := os.TempDir()
	if r.Root != "" {
		dir = filepath.Join(r.Root, LogDirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dir, err
		}
	}
	path := filepath.Join(dir, r.fileName())
	return path, os.WriteFile(path, r.render(), 0o644)
}
