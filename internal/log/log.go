// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// InitLogger sets up Apex with a custom handler and a log level from the
// AWSSWEEP_LOG env variable. Progress lines are the tool's primary output, so
// the default level is info.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("AWSSWEEP_LOG"))
	if envLevel == "" {
		envLevel = "info"
	}
	traceEnabled = envLevel == "trace"
	log.SetHandler(NewHandler(os.Stdout, os.Stderr))
	log.SetLevel(ParseLevel(envLevel))
}

// ParseLevel maps an AWSSWEEP_LOG value to an apex level. Unknown values fall
// back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Handler formats log messages as single lines. Info and below go to out,
// warnings and above go to errOut.
type Handler struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// NewHandler returns a Handler writing to the given streams.
func NewHandler(out, errOut io.Writer) *Handler {
	return &Handler{out: out, errOut: errOut, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *Handler) HandleLog(e *log.Entry) error {
	timestamp := h.now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	w := h.out
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
			w = h.errOut
		case log.ErrorLevel:
			level = "E"
			w = h.errOut
		case log.FatalLevel:
			level = "F"
			w = h.errOut
		}
	}

	// Fields are appended in key order so lines are stable across runs.
	names := e.Fields.Names()
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(message)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s %s %s\n", timestamp, level, b.String())
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
