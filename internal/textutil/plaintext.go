// ABOUTME: Flattens assistant markdown replies into plain post text
// ABOUTME: Drops markup and file_search citation markers while keeping paragraphs and lists
package textutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	// file_search annotations look like 【4:0†source】
	citationPattern   = regexp.MustCompile(`【[^】]*】`)
	spaceBeforePunct  = regexp.MustCompile(`[ \t]+([.,!?;:])(\s|$)`)
	repeatedSpace     = regexp.MustCompile(`[ \t]{2,}`)
	markdownConverter = goldmark.New()
)

// StripCitations removes citation markers and the spacing they leave behind.
func StripCitations(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	return tidy(s)
}

// PlainText renders markdown as plain text suitable for a social post.
// Paragraphs are separated by blank lines and list items become "- " or
// "N. " lines.
func PlainText(markdown string) string {
	source := []byte(citationPattern.ReplaceAllString(markdown, ""))
	doc := markdownConverter.Parser().Parse(text.NewReader(source))

	var (
		blocks     []block
		buf        strings.Builder
		itemPrefix string
	)

	flush := func(n ast.Node) {
		content := tidy(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		blocks = append(blocks, block{text: itemPrefix + content, list: outermostList(n)})
		itemPrefix = ""
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.ListItem:
			if entering {
				itemPrefix = listPrefix(node)
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if !entering {
				flush(n)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				flush(n)
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Value(source))
				switch {
				case node.HardLineBreak():
					buf.WriteByte('\n')
				case node.SoftLineBreak():
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		}
		return ast.WalkContinue, nil
	})

	var out strings.Builder
	for i, b := range blocks {
		if i > 0 {
			if b.list != nil && b.list == blocks[i-1].list {
				out.WriteByte('\n')
			} else {
				out.WriteString("\n\n")
			}
		}
		out.WriteString(b.text)
	}
	return out.String()
}

// block is one rendered paragraph; list is the outermost list containing it
type block struct {
	text string
	list ast.Node
}

func listPrefix(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	index := 0
	for sib := item.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
		index++
	}
	return fmt.Sprintf("%d. ", list.Start+index)
}

func outermostList(n ast.Node) ast.Node {
	var list ast.Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindList {
			list = p
		}
	}
	return list
}

// tidy trims each line and removes whitespace left in front of punctuation.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = spaceBeforePunct.ReplaceAllString(line, "$1$2")
		line = repeatedSpace.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
