package logger

import "fmt"

// NewReport creates an empty request log report.
func NewReport() *Report {
	return &Report{
		Requests:       make(map[string]*RouteStats),
		SpawnFailures:  make(map[string]int),
		RoutingMisses:  make(map[string]int),
		FailedCommands: make(map[string]int),
	}
}

// Report aggregates the request event log for `events report`.
type Report struct {
	LogEntries int `json:"log_entries"`

	// Requests maps "METHOD /pattern" to per-route stats.
	Requests map[string]*RouteStats `json:"requests"`

	// SpawnFailures maps command -> count of failed spawns.
	SpawnFailures map[string]int `json:"spawn_failures,omitempty"`

	// RoutingMisses maps "METHOD /pattern" -> count of unbound lookups.
	RoutingMisses map[string]int `json:"routing_misses,omitempty"`

	// FailedCommands maps command -> count of non-zero exits.
	FailedCommands map[string]int `json:"failed_commands,omitempty"`

	StdinWriteFailures int `json:"stdin_write_failures,omitempty"`
}

// RouteStats summarizes the requests served by one route.
type RouteStats struct {
	Count    int         `json:"count"`
	Statuses map[int]int `json:"statuses"`
}

// Update folds one log entry into the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.RequestHandled != nil:
		key := fmt.Sprintf("%s %s", le.RequestHandled.Method, le.RequestHandled.Pattern)
		stats := r.Requests[key]
		if stats == nil {
			stats = &RouteStats{Statuses: make(map[int]int)}
			r.Requests[key] = stats
		}
		stats.Count++
		stats.Statuses[le.RequestHandled.Status]++
	case le.CommandRun != nil:
		if le.CommandRun.ExitCode != 0 {
			r.FailedCommands[le.CommandRun.Command]++
		}
	case le.SpawnFailure != nil:
		r.SpawnFailures[le.SpawnFailure.Command]++
	case le.RoutingMiss != nil:
		key := fmt.Sprintf("%s %s", le.RoutingMiss.Method, le.RoutingMiss.Pattern)
		r.RoutingMisses[key]++
	case le.StdinWriteFailure != nil:
		r.StdinWriteFailures++
	}
}
