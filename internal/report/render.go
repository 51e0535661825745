package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ANSI escape sequences used by the renderer.
const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// Style is the explicit rendering configuration. There is no process-wide
// color toggle; callers construct the style they want and pass it in.
type Style struct {
	Color bool
	Quiet bool
}

func (s Style) green(v string) string {
	if !s.Color {
		return v
	}
	return ansiGreen + v + ansiReset
}

func (s Style) yellow(v string) string {
	if !s.Color {
		return v
	}
	return ansiYellow + v + ansiReset
}

func (s Style) red(v string) string {
	if !s.Color {
		return v
	}
	return ansiRed + v + ansiReset
}

// Renderer writes a report to a console stream.
type Renderer struct {
	Out   io.Writer
	Style Style
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, style Style) Renderer {
	return Renderer{Out: out, Style: style}
}

// Render prints one section per requested module, in request order. Failed
// modules get an error section, successful ones a titled data section.
func (rd Renderer) Render(r *Report) {
	for _, name := range r.Modules {
		o := r.Outcome(name)
		if !o.OK() {
			rd.section(fmt.Sprintf("[%s] ERROR", name), o.Err)
			continue
		}
		rd.section(fmt.Sprintf("[%s] (elapsed: %.2fs)", name, o.ElapsedSeconds()), o.Data)
	}
}

// section prints a titled block: maps as key/value lines, everything else on
// a single line.
func (rd Renderer) section(title string, data any) {
	fmt.Fprintln(rd.Out)
	fmt.Fprintln(rd.Out, rd.Style.green(title))
	fmt.Fprintln(rd.Out, strings.Repeat("-", len(title)))

	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(rd.Out, "%s %v\n", rd.Style.yellow(k+":"), v[k])
		}
	default:
		fmt.Fprintln(rd.Out, v)
	}
}

// RenderError prints a message on the error channel styling, used for
// persistence failures reported after the results.
func (rd Renderer) RenderError(msg string) {
	fmt.Fprintln(rd.Out, rd.Style.red(msg))
}
