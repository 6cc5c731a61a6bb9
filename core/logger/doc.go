// Package logger provides the gateway's logging:
//
//   - Leveled operational messages (Debugf through Errorf) written to stderr
//     and gated by a verbosity level set from configuration.
//   - A structured request event log written as newline delimited JSON, one
//     entry per event, consumed by `sherut events report`.
package logger
