package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// The parser configuration never changes and goldmark parsers are safe to
// share, so build it once.
var (
	mdParser     goldmark.Markdown
	mdParserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	mdParserOnce.Do(func() {
		mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return mdParser
}

// renderMarkdown turns article markdown into styled terminal text wrapped
// to width. Soft line breaks become spaces so hard-wrapped source reflows
// at whatever width the viewport has.
func renderMarkdown(input string, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	source := []byte(input)
	doc := markdownParser().Parser().Parse(text.NewReader(source))

	// Force a color profile: this always renders into a bubbletea
	// viewport, and auto-detection yields bare text without a TTY.
	lr := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lr.SetColorProfile(termenv.ANSI256)

	md := &mdRenderer{source: source, width: width, lr: lr}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		md.block(node)
	}
	return strings.TrimRight(md.out.String(), "\n")
}

type mdRenderer struct {
	source []byte
	width  int
	lr     *lipgloss.Renderer
	out    strings.Builder
}

func (m *mdRenderer) style() lipgloss.Style {
	return m.lr.NewStyle()
}

func (m *mdRenderer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Heading:
		style := m.style().Bold(true)
		if n.Level <= 2 {
			style = style.Foreground(lipgloss.Color("212"))
		}
		m.out.WriteString(style.Render(m.inlines(n)) + "\n\n")

	case *ast.Paragraph, *ast.TextBlock:
		wrapped := ansi.Wrap(m.inlines(node), m.width, " ")
		m.out.WriteString(wrapped + "\n\n")

	case *ast.FencedCodeBlock:
		lang := string(n.Language(m.source))
		m.out.WriteString(m.codeBlock(m.rawLines(n), lang))

	case *ast.CodeBlock:
		m.out.WriteString(m.codeBlock(m.rawLines(n), ""))

	case *ast.List:
		m.list(n, 0)
		m.out.WriteString("\n")

	case *ast.Blockquote:
		quote := m.style().Foreground(lipgloss.Color("245"))
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			wrapped := ansi.Wrap(m.inlines(child), m.width-2, " ")
			for _, line := range strings.Split(wrapped, "\n") {
				m.out.WriteString(quote.Render("│ "+ansi.Strip(line)) + "\n")
			}
		}
		m.out.WriteString("\n")

	case *ast.ThematicBreak:
		rule := m.style().Foreground(lipgloss.Color("240"))
		m.out.WriteString(rule.Render(strings.Repeat("─", m.width)) + "\n\n")

	default:
		if content := m.inlines(node); content != "" {
			m.out.WriteString(ansi.Wrap(content, m.width, " ") + "\n\n")
		}
	}
}

func (m *mdRenderer) list(list *ast.List, depth int) {
	indent := strings.Repeat("  ", depth)
	counter := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := indent + "• "
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%s%d. ", indent, counter)
			counter++
		}
		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				m.list(nested, depth+1)
				continue
			}
			line := ansi.Wrap(m.inlines(child), m.width-len(bullet), " ")
			cont := strings.Repeat(" ", len(bullet))
			for i, part := range strings.Split(line, "\n") {
				if first && i == 0 {
					m.out.WriteString(bullet + part + "\n")
				} else {
					m.out.WriteString(cont + part + "\n")
				}
			}
			first = false
		}
	}
}

func (m *mdRenderer) codeBlock(code, lang string) string {
	var highlighted string
	if lang != "" {
		var buf strings.Builder
		if err := quick.Highlight(&buf, code, lang, "terminal256", "monokai"); err == nil {
			highlighted = buf.String()
		}
	}
	if highlighted == "" {
		highlighted = m.style().Foreground(lipgloss.Color("250")).Render(code)
	}

	var out strings.Builder
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		out.WriteString("  " + line + "\n")
	}
	out.WriteString("\n")
	return out.String()
}

// rawLines gathers the verbatim source lines of a code block.
func (m *mdRenderer) rawLines(node ast.Node) string {
	var buf strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(m.source))
	}
	return buf.String()
}

// inlines renders a block node's inline children to a styled string.
func (m *mdRenderer) inlines(node ast.Node) string {
	var buf strings.Builder
	m.walkInlines(node, &buf, m.style())
	return buf.String()
}

func (m *mdRenderer) walkInlines(node ast.Node, buf *strings.Builder, style lipgloss.Style) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.WriteString(style.Render(string(n.Segment.Value(m.source))))
			if n.SoftLineBreak() {
				buf.WriteString(" ")
			}
			if n.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.String:
			buf.WriteString(style.Render(string(n.Value)))
		case *ast.CodeSpan:
			code := m.style().Foreground(lipgloss.Color("215"))
			for grand := n.FirstChild(); grand != nil; grand = grand.NextSibling() {
				if t, ok := grand.(*ast.Text); ok {
					buf.WriteString(code.Render(string(t.Segment.Value(m.source))))
				}
			}
		case *ast.Emphasis:
			emphasized := style
			if n.Level >= 2 {
				emphasized = emphasized.Bold(true)
			} else {
				emphasized = emphasized.Italic(true)
			}
			m.walkInlines(n, buf, emphasized)
		case *ast.Link:
			m.walkInlines(n, buf, style)
			if dest := string(n.Destination); dest != "" {
				faint := m.style().Foreground(lipgloss.Color("245"))
				buf.WriteString(" " + faint.Render("("+dest+")"))
			}
		case *ast.AutoLink:
			faint := m.style().Foreground(lipgloss.Color("245"))
			buf.WriteString(faint.Render(string(n.URL(m.source))))
		case *ast.Image:
			faint := m.style().Foreground(lipgloss.Color("245"))
			m.walkInlines(n, buf, faint)
			if dest := string(n.Destination); dest != "" {
				buf.WriteString(" " + faint.Render("("+dest+")"))
			}
		default:
			m.walkInlines(child, buf, style)
		}
	}
}
