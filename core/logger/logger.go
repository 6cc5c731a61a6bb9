package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures request handling events for the gateway.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports events in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogRecorder creates a Logger that discards all events.
func NewNopLogRecorder() *Logger {
	return &Logger{Record: func(le *LogEntry) error { return nil }}
}

// LogEntry is one record in the request event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	RequestID       string `json:"request_id,omitempty"`

	RequestHandled    *RequestHandled    `json:"request_handled,omitempty"`
	CommandRun        *CommandRun        `json:"command_run,omitempty"`
	SpawnFailure      *SpawnFailure      `json:"spawn_failure,omitempty"`
	RoutingMiss       *RoutingMiss       `json:"routing_miss,omitempty"`
	StdinWriteFailure *StdinWriteFailure `json:"stdin_write_failure,omitempty"`
}

// RequestHandled records the outcome of one inbound request.
type RequestHandled struct {
	Method         string `json:"method"`
	Pattern        string `json:"pattern"`
	Status         int    `json:"status"`
	DurationMicros int64  `json:"duration_micros"`
}

// CommandRun records a subordinate process run to completion.
type CommandRun struct {
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
	Stderr   string `json:"stderr,omitempty"`
}

// SpawnFailure records a subordinate process that could not be started.
type SpawnFailure struct {
	Command      string `json:"command"`
	ErrorMessage string `json:"error_message"`
}

// RoutingMiss records a resolved request with no bound command.
type RoutingMiss struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// StdinWriteFailure records a partial or failed body delivery to a
// subordinate process.
type StdinWriteFailure struct {
	ErrorMessage string `json:"error_message"`
}

func nowMicros() int64 {
	return time.Now().UnixNano() / int64(time.Microsecond)
}

func (l *Logger) record(requestID string, le *LogEntry) error {
	le.TimestampMicros = nowMicros()
	le.RequestID = requestID
	return l.Record(le)
}

// NewRequest creates a logger with an attached request ID.
func (l *Logger) NewRequest() *RequestLogger {
	return &RequestLogger{logger: l, requestID: fmt.Sprintf("%d", rand.Uint64())}
}

// RequestLogger logs events with a shared request ID.
type RequestLogger struct {
	logger    *Logger
	requestID string
}

func (r *RequestLogger) RequestHandled(e *RequestHandled) error {
	return r.logger.record(r.requestID, &LogEntry{RequestHandled: e})
}

func (r *RequestLogger) CommandRun(e *CommandRun) error {
	return r.logger.record(r.requestID, &LogEntry{CommandRun: e})
}

func (r *RequestLogger) SpawnFailure(e *SpawnFailure) error {
	return r.logger.record(r.requestID, &LogEntry{SpawnFailure: e})
}

func (r *RequestLogger) RoutingMiss(e *RoutingMiss) error {
	return r.logger.record(r.requestID, &LogEntry{RoutingMiss: e})
}

func (r *RequestLogger) StdinWriteFailure(e *StdinWriteFailure) error {
	return r.logger.record(r.requestID, &LogEntry{StdinWriteFailure: e})
}

// ReadJSONLinesLog parses a newline delimited JSON event log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}
		handler(&logEntry)
	}
	return nil
}
