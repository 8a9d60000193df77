// ABOUTME: Terminal rendering: glamour markdown for replies, lipgloss-styled prefixes
// ABOUTME: Falls back to raw text when stdout is not a TTY

package chat

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	replyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	noticeStyle = lipgloss.NewStyle().Faint(true)
)

// Renderer formats assistant output for the terminal.
type Renderer struct {
	tty   bool
	width int
}

// NewRenderer probes stdout once for TTY-ness and width.
func NewRenderer() *Renderer {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return &Renderer{}
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = defaultWidth
	}
	return &Renderer{tty: true, width: width}
}

// Markdown renders a model reply. On a TTY the text goes through glamour
// with the terminal's width; otherwise it is returned untouched.
func (r *Renderer) Markdown(md string) string {
	if md == "" || !r.tty {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n ")
}

// Prompt returns the styled input prompt.
func (r *Renderer) Prompt() string {
	return r.style(promptStyle, "you> ")
}

// ReplyPrefix returns the styled prefix for an assistant reply. Tool-assisted
// replies are prefixed differently from direct ones.
func (r *Renderer) ReplyPrefix(toolAssisted bool) string {
	if toolAssisted {
		return r.style(replyStyle, "mcp> ")
	}
	return r.style(replyStyle, "llm> ")
}

// Notice styles an informational line (tool listings, command output).
func (r *Renderer) Notice(s string) string {
	return r.style(noticeStyle, s)
}

func (r *Renderer) style(st lipgloss.Style, s string) string {
	if !r.tty {
		return s
	}
	return st.Render(s)
}
