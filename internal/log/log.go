// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// DOCDASH_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("DOCDASH_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{})

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.SetLevel(log.ErrorLevel)
		log.WithError(err).Errorf("unknown DOCDASH_LOG level %q", level)
		return
	}
	log.SetLevel(lvl)
}

// CustomHandler formats log messages and writes them to Out, stderr when
// unset, so they never mix with command output.
type CustomHandler struct {
	Out io.Writer
	Now func() time.Time
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	timestamp := now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	message := e.Message

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		message += fmt.Sprintf(" %s=%v", name, e.Fields[name])
	}

	fmt.Fprintf(out, "%s %.1s %s\n", timestamp, level, message)
	return nil
}
