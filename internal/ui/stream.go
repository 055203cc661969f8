package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// LogFormatter parses zerolog JSON lines and writes compact colored lines
// to dest. It implements io.Writer. Lines that are not JSON pass through.
type LogFormatter struct {
	prefix string
	dest   io.Writer
	mu     *sync.Mutex
	buf    []byte
}

// NewLogFormatter creates a LogFormatter that prefixes output with [name].
func NewLogFormatter(name string, dest io.Writer, mu *sync.Mutex) *LogFormatter {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &LogFormatter{
		prefix: TaskPrefix(name) + " ",
		dest:   dest,
		mu:     mu,
	}
}

func (lf *LogFormatter) Write(p []byte) (int, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	lf.buf = append(lf.buf, p...)
	for {
		idx := -1
		for i, b := range lf.buf {
			if b == '\n' {
				idx = i
				break
			}
		}
		if idx == -1 {
			break
		}
		line := string(lf.buf[:idx])
		lf.buf = lf.buf[idx+1:]
		lf.processLine(line)
	}
	return len(p), nil
}

// skippedFields are rendered separately or dropped.
var skippedFields = map[string]bool{
	"level":     true,
	"message":   true,
	"timestamp": true,
	"time":      true,
	"caller":    true,
	"pid":       true,
	"error":     true,
}

func (lf *LogFormatter) processLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if !gjson.Valid(line) {
		lf.writeLine(line)
		return
	}

	entry := gjson.Parse(line)
	level := entry.Get("level").String()

	var fields []string
	entry.ForEach(func(key, value gjson.Result) bool {
		if !skippedFields[key.String()] {
			fields = append(fields, key.String()+"="+value.String())
		}
		return true
	})
	sort.Strings(fields)

	text := levelTag(level) + " " + entry.Get("message").String()
	if len(fields) > 0 {
		text += " " + Dim(strings.Join(fields, " "))
	}
	if errText := entry.Get("error").String(); errText != "" {
		text += " " + Red(errText)
	}
	lf.writeLine(text)
}

func levelTag(level string) string {
	switch level {
	case "trace", "debug":
		return Dim(strings.ToUpper(level[:3]))
	case "info":
		return Cyan("INF")
	case "warn":
		return Yellow("WRN")
	case "error", "fatal", "panic":
		return BoldRed(strings.ToUpper(level[:3]))
	}
	return Dim("???")
}

func (lf *LogFormatter) writeLine(text string) {
	fmt.Fprintf(lf.dest, "  %s%s\n", lf.prefix, text)
}
