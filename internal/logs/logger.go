package logs

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/labstack/gommon/log"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, log.INFO)
)

func newLogger(w io.Writer, level log.Lvl) *log.Logger {
	l := log.New("engagement")
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetHeader(`{"time":"${time_rfc3339}","severity":"${level}","prefix":"${prefix}"}`)
	return l
}

// ParseLevel maps DEBUG, INFO, WARN, ERROR and OFF (any case) to a level.
// Unknown names fall back to INFO.
func ParseLevel(name string) log.Lvl {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return log.DEBUG
	case "WARN", "WARNING":
		return log.WARN
	case "ERROR":
		return log.ERROR
	case "OFF":
		return log.OFF
	}
	return log.INFO
}

// Init replaces the process logger.
func Init(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, ParseLevel(level))
}

// Logger returns the process logger; it also satisfies echo.Logger.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// LogJSON writes one JSON line with the given severity ("DEBUG", "INFO",
// "WARN" or "ERROR"), message and fields.
func LogJSON(level, message string, fields map[string]interface{}) {
	entry := log.JSON{"message": message}
	for k, v := range fields {
		entry[k] = v
	}
	l := Logger()
	switch strings.ToUpper(level) {
	case "DEBUG":
		l.Debugj(entry)
	case "WARN":
		l.Warnj(entry)
	case "ERROR", "FATAL":
		l.Errorj(entry)
	default:
		l.Infoj(entry)
	}
}
