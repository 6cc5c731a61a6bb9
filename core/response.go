package core

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sherut/sherut/core/logger"
)

// Magic prefixes recognized in command output. Lines starting with one of
// these carry response metadata instead of body content. Part of the
// gateway's contract with the commands it runs, don't change.
const (
	headerPrefix = "@header:"
	statusPrefix = "@status:"
)

// Header is one response header; repeated names are allowed.
type Header struct {
	Name  string
	Value string
}

// SynthesizedResponse is the HTTP response assembled from a successful
// command's standard output.
type SynthesizedResponse struct {
	Status  int
	Headers []Header
	Body    string
}

type lineKind int

const (
	// lineBody is ordinary output appended to the response body.
	lineBody lineKind = iota
	// lineHeader adds a response header.
	lineHeader
	// lineStatus sets the response status code.
	lineStatus
	// lineIgnored is a malformed control line, dropped silently.
	lineIgnored
)

// outputLine is one classified line of command output.
type outputLine struct {
	kind  lineKind
	name  string // header name, for lineHeader
	value string // header value, for lineHeader
	code  int    // status code, for lineStatus
	text  string // body text, for lineBody
}

// parseLine classifies a single line of command output.
func parseLine(line string) outputLine {
	if rest := strings.TrimPrefix(line, headerPrefix); rest != line {
		// Syntax: @header: Content-Type: application/json
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			return outputLine{kind: lineIgnored}
		}
		return outputLine{
			kind:  lineHeader,
			name:  strings.TrimSpace(parts[0]),
			value: strings.TrimSpace(parts[1]),
		}
	}

	if rest := strings.TrimPrefix(line, statusPrefix); rest != line {
		// Syntax: @status: 404
		code, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 16)
		if err != nil {
			return outputLine{kind: lineIgnored}
		}
		return outputLine{kind: lineStatus, code: int(code)}
	}

	return outputLine{kind: lineBody, text: line}
}

// validStatusCode reports whether code maps to a usable HTTP status code.
func validStatusCode(code int) bool {
	return code >= 100 && code <= 999
}

// splitLines splits on line feeds, dropping the empty segment a trailing
// newline would otherwise produce. Carriage returns are not treated
// specially.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// Synthesize builds the response for a successful command from its standard
// output. Control lines set the status (last valid value wins) and add
// headers (duplicates survive); everything else becomes the body, each line
// newline terminated. When no control line declared a content type, one is
// inferred from the body.
func Synthesize(stdout string) *SynthesizedResponse {
	resp := &SynthesizedResponse{Status: http.StatusOK}
	var body strings.Builder
	contentTypeSet := false

	for _, raw := range splitLines(stdout) {
		line := parseLine(raw)
		switch line.kind {
		case lineHeader:
			if strings.EqualFold(line.name, "content-type") {
				contentTypeSet = true
			}
			resp.Headers = append(resp.Headers, Header{Name: line.name, Value: line.value})
			logger.Debugf("Set header: %s -> %s", line.name, line.value)
		case lineStatus:
			if validStatusCode(line.code) {
				resp.Status = line.code
				logger.Debugf("Set status: %d", line.code)
			}
		case lineBody:
			body.WriteString(line.text)
			body.WriteByte('\n')
		}
	}

	resp.Body = body.String()

	if !contentTypeSet {
		detected := DetectContentType(resp.Body)
		resp.Headers = append(resp.Headers, Header{Name: "Content-Type", Value: detected})
		logger.Debugf("Auto-detected content type: %s", detected)
	}

	return resp
}

// DetectContentType classifies a response body as JSON, HTML, XML or plain
// text. The HTML check runs before the generic XML fallback so that
// "<html..." bodies aren't misclassified.
func DetectContentType(body string) string {
	trimmed := strings.TrimSpace(body)

	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		if json.Valid([]byte(trimmed)) {
			return "application/json"
		}
	}

	if strings.HasPrefix(trimmed, "<") {
		lower := strings.ToLower(trimmed)

		if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
			return "text/html"
		}

		if strings.HasPrefix(trimmed, "<?xml") ||
			strings.HasPrefix(trimmed, "<!DOCTYPE") ||
			(strings.HasSuffix(trimmed, ">") && strings.Contains(trimmed, "</")) {
			return "application/xml"
		}
	}

	return "text/plain"
}
