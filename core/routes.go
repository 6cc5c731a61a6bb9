package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sherut/sherut/core/logger"
)

// knownMethods are the tokens recognized as methods in a route spec. "ANY"
// binds the route to every method.
var knownMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
	"ANY":     true,
}

// paramPattern matches :name path parameter placeholders.
var paramPattern = regexp.MustCompile(`:([a-zA-Z0-9_]+)`)

// RouteEntry binds an HTTP method and a normalized path pattern to a command
// template. Entries are built once at startup and immutable afterwards.
type RouteEntry struct {
	Method  string
	Path    string
	Command string
}

// RouteSpec is one operator-supplied route binding before normalization.
type RouteSpec struct {
	Spec    string
	Command string
}

// ParseRouteSpec splits a route specification like "GET /hello/:name" into
// its method and path. A missing or unrecognized method token means the
// whole spec is the path and the method defaults to ANY, so paths whose
// first space-separated token isn't a method still work.
func ParseRouteSpec(spec string) (method, path string) {
	spec = strings.TrimSpace(spec)
	parts := strings.SplitN(spec, " ", 2)

	if len(parts) == 2 {
		method := strings.ToUpper(parts[0])
		if knownMethods[method] {
			return method, parts[1]
		}
	}
	return "ANY", spec
}

// NormalizePath rewrites every :name placeholder to the {name} form used by
// the routing layer, leaving all other characters untouched.
func NormalizePath(path string) string {
	return paramPattern.ReplaceAllString(path, "{$1}")
}

// ParseRoutes normalizes operator-supplied route specs into route entries.
// An empty or whitespace-only command is an operator configuration error and
// aborts startup.
func ParseRoutes(specs []RouteSpec) ([]RouteEntry, error) {
	var routes []RouteEntry
	for _, spec := range specs {
		if strings.TrimSpace(spec.Command) == "" {
			return nil, fmt.Errorf("command for route %q is empty", spec.Spec)
		}

		method, rawPath := ParseRouteSpec(spec.Spec)
		routes = append(routes, RouteEntry{
			Method:  method,
			Path:    NormalizePath(rawPath),
			Command: spec.Command,
		})
		logger.Infof("Registered route: %s %s -> `%s`", method, rawPath, spec.Command)
	}
	return routes, nil
}

type routeKey struct {
	method string
	path   string
}

// RouteTable resolves a method and normalized path pattern to the bound
// command template. Read-only after construction.
type RouteTable struct {
	commands map[routeKey]string
	entries  []RouteEntry
}

// NewRouteTable builds a lookup table from route entries.
func NewRouteTable(entries []RouteEntry) *RouteTable {
	commands := make(map[routeKey]string, len(entries))
	for _, e := range entries {
		commands[routeKey{method: e.Method, path: e.Path}] = e.Command
	}
	return &RouteTable{commands: commands, entries: entries}
}

// Lookup returns the command bound to method and path, falling back to an
// ANY binding for the same path.
func (t *RouteTable) Lookup(method, path string) (string, bool) {
	if command, ok := t.commands[routeKey{method: method, path: path}]; ok {
		return command, true
	}
	command, ok := t.commands[routeKey{method: "ANY", path: path}]
	return command, ok
}

// Entries returns the normalized route entries in registration order.
func (t *RouteTable) Entries() []RouteEntry {
	return t.entries
}
