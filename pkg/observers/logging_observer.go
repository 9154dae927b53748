// Package observers provides observers for monitoring traffic lights
package observers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/anggasct/phaselight"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LogError logs only errors
	LogError LogLevel = iota
	// LogWarning logs errors and warnings
	LogWarning
	// LogInfo logs errors, warnings, and info
	LogInfo
	// LogDebug logs errors, warnings, info, and debug
	LogDebug
)

// LoggingObserver logs traffic light events
type LoggingObserver struct {
	level     LogLevel
	prefix    string
	mutex     sync.RWMutex
	formatter LogFormatter
	out       io.Writer
}

// LogFormatter formats log messages
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter provides default log formatting
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	levelStr := "INFO"
	switch level {
	case LogError:
		levelStr = "ERROR"
	case LogWarning:
		levelStr = "WARN"
	case LogInfo:
		levelStr = "INFO"
	case LogDebug:
		levelStr = "DEBUG"
	}

	return fmt.Sprintf("[%s] %s", levelStr, fmt.Sprintf(format, args...))
}

// NewLoggingObserver creates a new logging observer writing to stdout
func NewLoggingObserver(level LogLevel, prefix string) *LoggingObserver {
	return &LoggingObserver{
		level:     level,
		prefix:    prefix,
		formatter: DefaultLogFormatter,
		out:       os.Stdout,
	}
}

// NewDefaultLoggingObserver logs info-level lines prefixed "TrafficLight" to stdout
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(LogInfo, "TrafficLight")
}

// SetFormatter sets the log formatter
func (o *LoggingObserver) SetFormatter(formatter LogFormatter) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.formatter = formatter
}

// SetOutput redirects log lines to w
func (o *LoggingObserver) SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.out = w
}

// SetLevel changes the maximum level that is logged
func (o *LoggingObserver) SetLevel(level LogLevel) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.level = level
}

// log logs a message at the specified level
func (o *LoggingObserver) log(level LogLevel, format string, args ...interface{}) {
	// write lock: concurrent lights may share one writer
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if level > o.level {
		return
	}

	prefix := ""
	if o.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", o.prefix)
	}

	message := ""
	if o.formatter != nil {
		message = o.formatter(level, format, args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}

	fmt.Fprintf(o.out, "%s%s\n", prefix, message)
}

// OnPhaseChange logs a flip
func (o *LoggingObserver) OnPhaseChange(change phaselight.PhaseChange) {
	o.log(LogInfo, "Light %s: %s -> %s after %v (held %v)", change.LightID, change.From, change.To, change.Elapsed, change.Interval)
}

// OnSend traces a queued phase
func (o *LoggingObserver) OnSend(lightID string, phase phaselight.Phase) {
	o.log(LogDebug, "   Message %s has been sent to the queue", phase)
}

// OnCycleStarted logs the start of the cycle loop
func (o *LoggingObserver) OnCycleStarted(lightID string) {
	o.log(LogInfo, "Light %s: cycle started", lightID)
}

// OnCycleStopped logs the end of the cycle loop
func (o *LoggingObserver) OnCycleStopped(lightID string) {
	o.log(LogInfo, "Light %s: cycle stopped", lightID)
}

// OnError logs errors
func (o *LoggingObserver) OnError(lightID string, err error) {
	o.log(LogError, "Light %s: error: %v", lightID, err)
}
