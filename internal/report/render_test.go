package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_PlainSections(t *testing.T) {
	r := New("example.com", []string{"headers", "portscan"})
	r.Add("headers", Success(500*time.Millisecond, map[string]any{
		"status": "200 OK",
		"server": "nginx",
	}))
	r.Add("portscan", Failure("dial tcp: i/o timeout"))

	var buf bytes.Buffer
	NewRenderer(&buf, Style{Color: false}).Render(r)
	out := buf.String()

	assert.Contains(t, out, "[headers] (elapsed: 0.50s)")
	assert.Contains(t, out, "server: nginx\n")
	assert.Contains(t, out, "status: 200 OK\n")
	assert.Contains(t, out, "[portscan] ERROR")
	assert.Contains(t, out, "dial tcp: i/o timeout")
	assert.NotContains(t, out, "\x1b[")

	// Title underline matches title length.
	title := "[portscan] ERROR"
	assert.Contains(t, out, title+"\n"+strings.Repeat("-", len(title)))
}

func TestRenderer_MapKeysSorted(t *testing.T) {
	r := New("example.com", []string{"dns"})
	r.Add("dns", Success(time.Millisecond, map[string]any{"z": 1, "a": 2, "m": 3}))

	var buf bytes.Buffer
	NewRenderer(&buf, Style{}).Render(r)
	out := buf.String()

	assert.Less(t, strings.Index(out, "a:"), strings.Index(out, "m:"))
	assert.Less(t, strings.Index(out, "m:"), strings.Index(out, "z:"))
}

func TestRenderer_ScalarDataSingleLine(t *testing.T) {
	r := New("example.com", []string{"whois"})
	r.Add("whois", Success(time.Millisecond, "no registrar found"))

	var buf bytes.Buffer
	NewRenderer(&buf, Style{}).Render(r)
	assert.Contains(t, buf.String(), "no registrar found\n")
}

func TestRenderer_RequestOrderIncludingMissing(t *testing.T) {
	r := New("example.com", []string{"portscan", "dns"})
	r.Add("dns", Success(time.Millisecond, "ok"))
	// portscan never produced a result.

	var buf bytes.Buffer
	NewRenderer(&buf, Style{}).Render(r)
	out := buf.String()

	assert.Contains(t, out, "[portscan] ERROR")
	assert.Contains(t, out, "no result")
	assert.Less(t, strings.Index(out, "[portscan]"), strings.Index(out, "[dns]"))
}

func TestRenderer_ColorEscapes(t *testing.T) {
	r := New("example.com", []string{"dns"})
	r.Add("dns", Success(time.Millisecond, map[string]any{"a": "1.2.3.4"}))

	var buf bytes.Buffer
	NewRenderer(&buf, Style{Color: true}).Render(r)
	out := buf.String()

	assert.Contains(t, out, ansiGreen)
	assert.Contains(t, out, ansiYellow)
	assert.Contains(t, out, ansiReset)
}

func TestRenderer_RenderError(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, Style{Color: true}).RenderError("Failed to write output file: disk full")

	out := buf.String()
	assert.Contains(t, out, ansiRed)
	assert.Contains(t, out, "disk full")
}
