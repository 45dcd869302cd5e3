package physcalc

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed help/*.md
var helpFiles embed.FS

// HelpTopics returns the names of all help topics in sorted order.
func HelpTopics() []string {
	es, err := fs.ReadDir(helpFiles, "help")
	if err != nil {
		return nil
	}
	var topics []string
	for _, e := range es {
		topics = append(topics, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(topics)
	return topics
}

// Help returns the plain text of the given help topic.
// The empty topic yields an overview.
func Help(topic string) (string, error) {
	if topic == "" {
		return "Type expressions to compute them.\n" +
			"Type !help <topic> to get help on a specific topic.\n" +
			"Topics: " + strings.Join(HelpTopics(), ", "), nil
	}
	src, err := helpFiles.ReadFile("help/" + topic + ".md")
	if err != nil {
		return "", fmt.Errorf("no help for %q, topics: %s", topic, strings.Join(HelpTopics(), ", "))
	}
	return renderText(src), nil
}

// renderText renders Markdown as plain terminal text. Headings are underlined,
// list items get a "- " bullet and code blocks are indented.
func renderText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var buf bytes.Buffer
	blockEnd := func() {
		if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
	}
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Heading:
			if entering {
				return ast.WalkContinue, nil
			}
			title := lastLine(buf.String())
			buf.WriteString("\n" + strings.Repeat("=", len([]rune(title))) + "\n\n")
		case *ast.Paragraph:
			if !entering {
				blockEnd()
				if _, inList := n.Parent().(*ast.ListItem); !inList {
					buf.WriteByte('\n')
				}
			}
		case *ast.TextBlock:
			if !entering {
				blockEnd()
			}
		case *ast.List:
			if !entering {
				buf.WriteByte('\n')
			}
		case *ast.ListItem:
			if entering {
				buf.WriteString("- ")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.WriteString("    ")
					buf.Write(seg.Value(src))
				}
				blockEnd()
				buf.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(n.Segment.Value(src))
				if n.SoftLineBreak() || n.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(n.Value)
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
