// Package render turns a Markdown subset into a single-page PDF, and
// provides the basic no-template fallback renderer. Markdown parsing via
// goldmark, drawing via go-pdf/fpdf.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// block is one rendering primitive extracted from the parsed AST, in the
// supported subset: headings H1-H3, paragraphs, inline code, lists,
// tables, blockquotes, rules, hard breaks.
type block struct {
	kind    blockKind
	text    string
	level   int      // heading level; always 0 for list items (nested lists are flattened into their parent item's text)
	ordered bool     // list only
	header  bool     // table row only
	cells   []string // table row only
}

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
	blockTableRow
	blockBlockquote
	blockRule
)

// parseMarkdown walks the goldmark AST into a flat list of blocks.
func parseMarkdown(source []byte) []block {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []block
	var walk func(n ast.Node, quote bool)
	walk = func(n ast.Node, quote bool) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch v := child.(type) {
			case *ast.Heading:
				blocks = append(blocks, block{kind: blockHeading, level: v.Level, text: plainText(v, source)})
			case *ast.Paragraph:
				kind := blockParagraph
				if quote {
					kind = blockBlockquote
				}
				blocks = append(blocks, block{kind: kind, text: plainText(v, source)})
			case *ast.ThematicBreak:
				blocks = append(blocks, block{kind: blockRule})
			case *ast.Blockquote:
				walk(v, true)
			case *ast.List:
				depth := 0
				for item := v.FirstChild(); item != nil; item = item.NextSibling() {
					blocks = append(blocks, block{kind: blockListItem, ordered: v.IsOrdered(), level: depth, text: plainText(item, source)})
				}
			case *east.Table:
				for row := v.FirstChild(); row != nil; row = row.NextSibling() {
					_, isHeader := row.(*east.TableHeader)
					blocks = append(blocks, block{kind: blockTableRow, header: isHeader, cells: cellText(row, source)})
				}
			default:
				walk(child, quote)
			}
		}
	}
	walk(doc, false)
	return blocks
}

// cellText extracts the text of each cell in a table header/data row.
func cellText(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, plainText(cell, source))
	}
	return cells
}

func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if _, ok := node.(*ast.CodeSpan); ok {
			// Delimits the span on both entry and exit.
			buf.WriteByte('`')
			return ast.WalkContinue, nil
		}
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
