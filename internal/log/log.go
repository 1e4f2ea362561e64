// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "NODECTL_LOG"

// Trace lines are apex debug entries carrying this prefix.
const tracePrefix = "TRACE: "

var traceEnabled bool

var levels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

var letters = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// InitLogger installs the nodectl handler on stderr at the level named by
// NODECTL_LOG. Record output owns stdout.
func InitLogger() {
	InitLoggerWith(os.Getenv(EnvLevel), os.Stderr)
}

// InitLoggerWith installs the handler writing to w.
func InitLoggerWith(level string, w io.Writer) {
	lvl, trace := ParseLevel(level)
	traceEnabled = trace
	log.SetHandler(&Handler{Writer: w})
	log.SetLevel(lvl)
}

// ParseLevel maps a level name to an apex level. "trace" is debug with
// Tracef switched on. Anything unrecognised is error.
func ParseLevel(level string) (log.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "trace" {
		return log.DebugLevel, true
	}
	if lvl, ok := levels[name]; ok {
		return lvl, false
	}
	return log.ErrorLevel, false
}

// Handler writes one "<time> <letter> <message> [k=v ...]" line per entry.
type Handler struct {
	Writer io.Writer

	mu  sync.Mutex
	now func() time.Time
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	clock := h.now
	if clock == nil {
		clock = time.Now
	}

	letter, ok := letters[e.Level]
	if !ok {
		letter = "?"
	}
	msg, traced := strings.CutPrefix(e.Message, tracePrefix)
	if traced {
		letter = "T"
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%s %s %s", clock().Format(time.DateTime), letter, msg)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&line, " %s=%v", name, e.Fields.Get(name))
	}
	line.WriteByte('\n')

	out := h.Writer
	if out == nil {
		out = os.Stderr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(out, line.String())
	return err
}

// Tracef logs below debug. It is silent unless the level is "trace".
func Tracef(format string, args ...interface{}) {
	if !traceEnabled {
		return
	}
	log.Debug(tracePrefix + fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }

func Infof(format string, args ...interface{}) { log.Infof(format, args...) }

func Warnf(format string, args ...interface{}) { log.Warnf(format, args...) }

func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

func Debug(msg string) { log.Debug(msg) }

// WithError starts an entry carrying err as its "error" field.
func WithError(err error) *log.Entry { return log.WithError(err) }
