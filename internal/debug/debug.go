// Package debug provides the opt-in diagnostic log for rd.
//
// Nothing is written unless RAINDROP_DEBUG is set or --verbose is passed.
// When RAINDROP_LOG_FILE names a path, output goes to that file (rotated by
// size) instead of stderr, which keeps stdout and stderr clean for callers
// parsing the envelope.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	enabled     = os.Getenv("RAINDROP_DEBUG") != ""
	verboseMode = false
	logMutex    sync.Mutex
	sink        io.Writer
	requestID   string
)

// Log file rotation limits.
const (
	maxLogSizeMB  = 5
	maxLogBackups = 3
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetRequestID tags every subsequent line with the invocation's request id.
func SetRequestID(id string) {
	logMutex.Lock()
	defer logMutex.Unlock()
	requestID = id
}

// SetOutput redirects debug output. A nil writer restores the default.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	sink = w
}

// ConfigureFile routes debug output to a size-rotated log file.
func ConfigureFile(path string) {
	if path == "" {
		return
	}
	SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	})
	// Asking for a log file is asking for the log.
	enabled = true
}

func output() io.Writer {
	if sink != nil {
		return sink
	}
	return os.Stderr
}

func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	prefix := time.Now().UTC().Format("15:04:05.000")
	if requestID != "" {
		prefix += " " + requestID[:min(8, len(requestID))]
	}
	fmt.Fprintf(output(), "[rd %s] "+format, append([]interface{}{prefix}, args...)...)
}
