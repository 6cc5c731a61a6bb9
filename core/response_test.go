package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLineBody(t *testing.T) {
	line := parseLine("plain output")
	assert.Equal(t, lineBody, line.kind)
	assert.Equal(t, "plain output", line.text)
}

func TestParseLineHeader(t *testing.T) {
	line := parseLine("@header: Content-Type: application/json")
	assert.Equal(t, lineHeader, line.kind)
	assert.Equal(t, "Content-Type", line.name)
	assert.Equal(t, "application/json", line.value)
}

func TestParseLineHeaderSplitsOnFirstColon(t *testing.T) {
	line := parseLine("@header: Location: http://example.com/path")
	assert.Equal(t, lineHeader, line.kind)
	assert.Equal(t, "Location", line.name)
	assert.Equal(t, "http://example.com/path", line.value)
}

func TestParseLineHeaderWithoutColonIgnored(t *testing.T) {
	line := parseLine("@header: nonsense")
	assert.Equal(t, lineIgnored, line.kind)
}

func TestParseLineStatus(t *testing.T) {
	line := parseLine("@status: 404")
	assert.Equal(t, lineStatus, line.kind)
	assert.Equal(t, 404, line.code)
}

func TestParseLineStatusUnparseableIgnored(t *testing.T) {
	assert.Equal(t, lineIgnored, parseLine("@status: nope").kind)
	assert.Equal(t, lineIgnored, parseLine("@status: -1").kind)
	assert.Equal(t, lineIgnored, parseLine("@status: 123456").kind)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n\n"))
	assert.Empty(t, splitLines(""))
}

func TestSynthesizeDefaults(t *testing.T) {
	resp := Synthesize("hello\n")

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "hello\n", resp.Body)
	assert.Equal(t, []Header{{Name: "Content-Type", Value: "text/plain"}}, resp.Headers)
}

func TestSynthesizeReintroducesTrailingNewline(t *testing.T) {
	// The final body line gets a newline even when stdout had none.
	resp := Synthesize("no newline")
	assert.Equal(t, "no newline\n", resp.Body)
}

func TestSynthesizeStatus(t *testing.T) {
	resp := Synthesize("@status: 404\nNot found here\n")

	assert.Equal(t, 404, resp.Status)
	assert.Equal(t, "Not found here\n", resp.Body)
}

func TestSynthesizeLastValidStatusWins(t *testing.T) {
	resp := Synthesize("@status: 301\n@status: 99999\n@status: 202\nbody\n")
	assert.Equal(t, 202, resp.Status)
}

func TestSynthesizeInvalidStatusIgnored(t *testing.T) {
	resp := Synthesize("@status: 0\n@status: abc\nbody\n")
	assert.Equal(t, 200, resp.Status)
}

func TestSynthesizeHeaders(t *testing.T) {
	resp := Synthesize("@header: X-Custom: yes\n@header: Content-Type: application/json\nbody\n")

	assert.Equal(t, []Header{
		{Name: "X-Custom", Value: "yes"},
		{Name: "Content-Type", Value: "application/json"},
	}, resp.Headers)
}

func TestSynthesizeDuplicateHeadersSurvive(t *testing.T) {
	resp := Synthesize("@header: Set-Cookie: a=1\n@header: Set-Cookie: b=2\n")

	var cookies []string
	for _, h := range resp.Headers {
		if h.Name == "Set-Cookie" {
			cookies = append(cookies, h.Value)
		}
	}
	assert.Equal(t, []string{"a=1", "b=2"}, cookies)
}

func TestSynthesizeContentTypeNotInferredWhenSet(t *testing.T) {
	// Case-insensitive match on the header name.
	resp := Synthesize("@header: content-type: text/csv\na,b\n")

	assert.Equal(t, []Header{{Name: "content-type", Value: "text/csv"}}, resp.Headers)
}

func TestSynthesizeControlOnlyOutput(t *testing.T) {
	resp := Synthesize("@status: 204\n@header: X-Done: 1\n")

	assert.Equal(t, 204, resp.Status)
	assert.Equal(t, "", resp.Body)
}

func TestSynthesizeEmptyOutput(t *testing.T) {
	resp := Synthesize("")

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "", resp.Body)
	assert.Equal(t, []Header{{Name: "Content-Type", Value: "text/plain"}}, resp.Headers)
}

func TestDetectContentType(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                                "application/json",
		`{"name": "test", "value": 123}`:         "application/json",
		`[1,2,3]`:                                "application/json",
		"\n  {\n    \"name\": \"test\"\n  }\n  ": "application/json",
		`{not valid json}`:                       "text/plain",
		`<?xml version="1.0"?><root/>`:           "application/xml",
		`<!DOCTYPE note><note></note>`:           "application/xml",
		`<root><child>value</child></root>`:      "application/xml",
		`<!DOCTYPE html><html></html>`:           "text/html",
		`<html><body>Hello</body></html>`:        "text/html",
		"Hello, World!":                          "text/plain",
		"":                                       "text/plain",
		"   \n\t  ":                              "text/plain",
	}

	for body, want := range cases {
		assert.Equal(t, want, DetectContentType(body), "body: %q", body)
	}
}
