package shell

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Environment variables exposing request metadata to commands when the JSON
// format is selected. Part of the gateway's contract with the commands it
// runs, don't change.
const (
	EnvHeadersJSON = "HEADERS_JSON"
	EnvQueryJSON   = "QUERY_JSON"
)

// EscapeSingleQuotes escapes every single quote in value so that it can't
// break out of a single-quoted shell string.
func EscapeSingleQuotes(value string) string {
	return strings.ReplaceAll(value, "'", `'\''`)
}

// Build produces the script text to execute for command and the extra
// environment entries (KEY=value) to apply to the subordinate process.
//
// For the assoc format a HEADERS (or QUERY) associative array preamble is
// prepended to the command when the dialect supports it; dialects without
// associative arrays get no preamble. For the json format the map is instead
// serialized into the HEADERS_JSON (or QUERY_JSON) environment entry.
func Build(d Dialect, headerFormat Format, headers map[string]string, queryFormat Format, query map[string]string, command string) (script string, env []string) {
	var prefix strings.Builder

	if headerFormat == FormatAssoc {
		writeAssocPreamble(&prefix, d, "HEADERS", headers)
	}
	if queryFormat == FormatAssoc {
		writeAssocPreamble(&prefix, d, "QUERY", query)
	}

	if headerFormat == FormatJSON {
		env = append(env, EnvHeadersJSON+"="+marshalEnvJSON(headers))
	}
	if queryFormat == FormatJSON {
		env = append(env, EnvQueryJSON+"="+marshalEnvJSON(query))
	}

	return prefix.String() + command, env
}

// writeAssocPreamble emits a one-line associative array declaration for the
// dialect. Iteration order over values is unspecified.
func writeAssocPreamble(b *strings.Builder, d Dialect, name string, values map[string]string) {
	if !d.SupportsAssocArrays() {
		return
	}

	var defs strings.Builder
	for key, value := range values {
		fmt.Fprintf(&defs, "[%s]='%s' ", key, EscapeSingleQuotes(value))
	}

	switch d {
	case Bash:
		fmt.Fprintf(b, "declare -A %s=(%s); ", name, defs.String())
	case Zsh:
		fmt.Fprintf(b, "typeset -A %s; %s=(%s); ", name, name, defs.String())
	}
}

func marshalEnvJSON(values map[string]string) string {
	if values == nil {
		values = map[string]string{}
	}
	out, err := json.Marshal(values)
	if err != nil {
		// Marshaling map[string]string can't fail.
		panic(err)
	}
	return string(out)
}
