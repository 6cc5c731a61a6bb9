// Package shell models the supported shell dialects and builds the script
// text handed to the interpreter for each request.
package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/sherut/sherut/core/logger"
)

// Dialect identifies the interpreter used to run bound commands.
type Dialect string

const (
	Bash Dialect = "bash"
	Zsh  Dialect = "zsh"
	Fish Dialect = "fish"
	Sh   Dialect = "sh"
)

// Dialects lists every supported dialect.
var Dialects = []Dialect{Bash, Zsh, Fish, Sh}

// ParseDialect converts a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	for _, d := range Dialects {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown shell %q, expected one of: bash, zsh, fish, sh", name)
}

// Executable returns the interpreter binary name for the dialect.
func (d Dialect) Executable() string {
	return string(d)
}

// SupportsAssocArrays reports whether the dialect can declare associative
// arrays. Only bash and zsh can.
func (d Dialect) SupportsAssocArrays() bool {
	return d == Bash || d == Zsh
}

// DetectDefault picks a dialect from the $SHELL environment variable,
// falling back to bash when $SHELL is unset or names an unknown shell.
func DetectDefault() Dialect {
	shellPath, ok := os.LookupEnv("SHELL")
	if !ok {
		logger.Warnf("$SHELL not set, defaulting to bash")
		return Bash
	}

	name := shellPath
	if idx := strings.LastIndex(shellPath, "/"); idx >= 0 {
		name = shellPath[idx+1:]
	}
	if d, err := ParseDialect(name); err == nil {
		return d
	}
	logger.Warnf("Unknown shell %q, defaulting to bash", name)
	return Bash
}

// Format selects how request headers or query parameters are exposed to the
// subordinate command.
type Format string

const (
	// FormatAssoc declares a shell associative array (bash/zsh only).
	FormatAssoc Format = "assoc"
	// FormatJSON exports a JSON object through an environment variable.
	FormatJSON Format = "json"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatAssoc:
		return FormatAssoc, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q, expected one of: assoc, json", name)
}

// DefaultFormat returns the format used when none is configured: associative
// arrays where the dialect supports them, JSON otherwise.
func DefaultFormat(d Dialect) Format {
	if d.SupportsAssocArrays() {
		return FormatAssoc
	}
	return FormatJSON
}
