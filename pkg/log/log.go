// Copyright 2025 walteh LLC
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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	editIndent  = 4  // spaces to indent edit entries
	kindWidth   = 8  // Width for edit kind
	targetWidth = 30 // Width for edit target
	detailWidth = 40 // Width for edit detail
)

// 🏷️ EditKind is the kind of edit made to a bridge file
type EditKind string

const (
	EditImport EditKind = "import"
	EditField  EditKind = "field"
)

// 🎯 Edit represents one edit for logging
type Edit struct {
	Kind    EditKind // import or field
	Target  string   // import path or message name
	Detail  string   // appended line or import status
	Applied bool     // Whether the document changed
	Failed  bool     // Whether the edit could not be made
}

// 📦 FileOperation represents the edits to one bridge file
type FileOperation struct {
	Path    string   // Bridge file path
	Modules []string // Module files registered into it
	DryRun  bool     // Whether nothing will be written
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *FileOperation
	edits     []Edit
}

// 🏭 New creates a new logger. Every console line is mirrored to zlog at debug level.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEdit formats an edit for display
func (l *Logger) formatEdit(e Edit) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case e.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case e.Applied:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	kindColor := color.FgBlue
	if e.Kind == EditImport {
		kindColor = color.FgMagenta
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", editIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, e.Kind)),
		fmt.Sprintf("%-*s", targetWidth, e.Target),
		fmt.Sprintf("%-*s", detailWidth, e.Detail))
}

// 📝 LogEdit logs an edit
func (l *Logger) LogEdit(ctx context.Context, e Edit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.edits = append(l.edits, e)

	fmt.Fprintln(l.console, l.formatEdit(e))

	l.zlog.Debug().
		Str("kind", string(e.Kind)).
		Str("target", e.Target).
		Str("detail", e.Detail).
		Bool("applied", e.Applied).
		Bool("failed", e.Failed).
		Msg("edit")
}

// 📝 StartFileOperation starts the edits of a bridge file
func (l *Logger) StartFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.edits = nil

	verb := "editing"
	if op.DryRun {
		verb = "planning"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(op.Path))

	l.zlog.Debug().
		Str("bridge", op.Path).
		Strs("modules", op.Modules).
		Bool("dry_run", op.DryRun).
		Msg("starting bridge operation")
}

// 📝 EndFileOperation ends the current bridge operation and returns its edits
func (l *Logger) EndFileOperation(ctx context.Context) []Edit {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	edits := l.edits
	l.zlog.Debug().
		Str("bridge", l.currentOp.Path).
		Int("edits", len(edits)).
		Msg("bridge operation complete")

	l.currentOp = nil
	l.edits = nil
	return edits
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("protobridge")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Print writes a line as is
func (l *Logger) Print(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Str("severity", "warning").Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Str("severity", "error").Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
