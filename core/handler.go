package core

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sherut/sherut/core/logger"
	"github.com/sherut/sherut/core/shell"
)

// handle runs the request-to-process pipeline: route lookup, path parameter
// substitution, script building, execution, and response synthesis.
func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	events := g.events.NewRequest()

	pattern := matchedPattern(r)
	method := r.Method

	logger.Debugf("Handling %s request for: %s", method, pattern)

	command, ok := g.routes.Lookup(method, pattern)
	if !ok {
		logger.Errorf("Route config missing for: %s %s", method, pattern)
		events.RoutingMiss(&logger.RoutingMiss{Method: method, Pattern: pattern})
		g.finish(w, events, method, pattern, start, http.StatusInternalServerError, "Config Error")
		return
	}

	command = substituteParams(command, mux.Vars(r))

	script, extraEnv := shell.Build(
		g.dialect,
		g.headerFormat, flattenHeaders(r),
		g.queryFormat, flattenQuery(r.URL.Query()),
		command,
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warnf("Failed to read request body: %v", err)
	}

	result, err := Execute(g.dialect, script, extraEnv, body, events)
	if err != nil {
		events.SpawnFailure(&logger.SpawnFailure{Command: command, ErrorMessage: err.Error()})
		g.finish(w, events, method, pattern, start, http.StatusInternalServerError, err.Error())
		return
	}

	events.CommandRun(&logger.CommandRun{
		Command:  command,
		ExitCode: result.ExitCode,
		Stderr:   string(result.Stderr),
	})

	if !result.Success() {
		stderr := string(result.Stderr)
		logger.Warnf("Command failed. Stderr: %s", stderr)
		g.finish(w, events, method, pattern, start, http.StatusInternalServerError, "Error:\n"+stderr)
		return
	}

	resp := Synthesize(string(result.Stdout))
	for _, h := range resp.Headers {
		w.Header().Add(h.Name, h.Value)
	}
	w.WriteHeader(resp.Status)
	io.WriteString(w, resp.Body)

	events.RequestHandled(&logger.RequestHandled{
		Method:         method,
		Pattern:        pattern,
		Status:         resp.Status,
		DurationMicros: time.Since(start).Microseconds(),
	})
}

// finish writes a plain text error response and records the request event.
func (g *Gateway) finish(w http.ResponseWriter, events *logger.RequestLogger, method, pattern string, start time.Time, status int, body string) {
	writePlain(w, status, body)
	events.RequestHandled(&logger.RequestHandled{
		Method:         method,
		Pattern:        pattern,
		Status:         status,
		DurationMicros: time.Since(start).Microseconds(),
	})
}

// notFoundHandler answers entirely unmatched paths.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writePlain(w, http.StatusNotFound, "Route not found")
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// matchedPattern returns the normalized path pattern the router matched.
func matchedPattern(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}
	pattern, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return pattern
}

// substituteParams replaces every :name placeholder in the command with the
// captured path parameter value, escaping single quotes so values can't
// break out of quoting in the template. Placeholders with no matching
// parameter stay verbatim so commands may contain literal colons.
//
// Replacement order across parameters is unspecified; a parameter whose name
// is a prefix of another may substitute into the longer placeholder.
func substituteParams(command string, params map[string]string) string {
	for name, value := range params {
		command = strings.ReplaceAll(command, ":"+name, shell.EscapeSingleQuotes(value))
	}
	return command
}

// flattenHeaders lowers header names and keeps one value per name. Which
// value survives a repeated header is unspecified. The Host header lives on
// the request rather than the header map and is folded back in so commands
// see it like any other header.
func flattenHeaders(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		for _, value := range values {
			out[strings.ToLower(name)] = value
		}
	}
	if r.Host != "" {
		out["host"] = r.Host
	}
	return out
}

// flattenQuery keeps the last value of each query parameter.
func flattenQuery(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for name, values := range query {
		if len(values) > 0 {
			out[name] = values[len(values)-1]
		}
	}
	return out
}
