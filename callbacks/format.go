package callbacks

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escape codes used by the formatter registers.
const (
	colorPurple    = "\033[95m"
	colorDarkCyan  = "\033[36m"
	colorBlue      = "\033[94m"
	colorRed       = "\033[91m"
	colorBold      = "\033[1m"
	colorUnderline = "\033[4m"
	colorItalics   = "\x1B[3m"
	colorEnd       = "\033[0m\x1B[0m"
)

// Formatter renders transcript lines to a sink. Two visual registers
// carry the semantics: "key information" (bold/teal) is always shown,
// "debug information" (blue) only when the handler is verbose. The
// zero Formatter is not usable; use NewFormatter.
type Formatter struct {
	w io.Writer
}

// NewFormatter returns a Formatter writing to w. A nil w means
// standard output.
func NewFormatter(w io.Writer) *Formatter {
	if w == nil {
		w = os.Stdout
	}
	return &Formatter{w: w}
}

// Heading prints a bold section heading naming an event kind.
func (f *Formatter) Heading(text string) {
	fmt.Fprintf(f.w, "%s%s%s\n", colorBold, text, colorEnd)
}

// KeyInfo prints primary content.
func (f *Formatter) KeyInfo(text string) {
	fmt.Fprintf(f.w, "%s%s%s%s\n", colorBold, colorDarkCyan, text, colorEnd)
}

// KeyInfoLabeled prints primary content under a bold label. When
// newlined is set, the contents are split and printed one line each,
// indented under the label.
func (f *Formatter) KeyInfoLabeled(label, contents string, newlined bool) {
	f.labeled(colorDarkCyan, label, contents, newlined)
}

// DebugInfo prints secondary diagnostic content.
func (f *Formatter) DebugInfo(text string) {
	fmt.Fprintf(f.w, "%s%s%s\n", colorBlue, text, colorEnd)
}

// DebugInfoLabeled prints secondary diagnostic content under a label.
func (f *Formatter) DebugInfoLabeled(label, contents string, newlined bool) {
	f.labeled(colorBlue, label, contents, newlined)
}

// LLMCall prints text on its way to a model.
func (f *Formatter) LLMCall(text string) {
	fmt.Fprintf(f.w, "%s%s%s\n", colorItalics, text, colorEnd)
}

// LLMOutput prints text received from a model.
func (f *Formatter) LLMOutput(text string) {
	fmt.Fprintf(f.w, "%s%s%s\n", colorUnderline, text, colorEnd)
}

// ToolCall prints input on its way to a tool or retriever.
func (f *Formatter) ToolCall(text string) {
	fmt.Fprintf(f.w, "%s%s%s%s\n", colorItalics, colorPurple, text, colorEnd)
}

// ToolOutput prints output received from a tool or retriever.
func (f *Formatter) ToolOutput(text string) {
	fmt.Fprintf(f.w, "%s%s%s%s\n", colorUnderline, colorPurple, text, colorEnd)
}

// DebugError prints a warning or error line.
func (f *Formatter) DebugError(text string) {
	fmt.Fprintf(f.w, "%s%s%s%s\n", colorBold, colorRed, text, colorEnd)
}

// Raw prints text with no register applied.
func (f *Formatter) Raw(text string) {
	fmt.Fprintln(f.w, text)
}

func (f *Formatter) labeled(color, label, contents string, newlined bool) {
	if newlined && strings.Contains(contents, "\n") {
		fmt.Fprintf(f.w, "%s%s%s: %s%s\n", colorBold, color, label, colorEnd, color)
		for _, line := range strings.Split(contents, "\n") {
			fmt.Fprintf(f.w, "  %s\n", line)
		}
		fmt.Fprint(f.w, colorEnd)
		return
	}
	fmt.Fprintf(f.w, "%s%s%s: %s%s%s%s\n", colorBold, color, label, colorEnd, color, contents, colorEnd)
}
