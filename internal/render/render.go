// Package render turns a fetched block tree into sanitized article HTML.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"marketing-site/internal/data"
	"marketing-site/internal/logger"
	"marketing-site/internal/slug"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer maps blocks to HTML nodes.
type Renderer struct {
	policy *bluemonday.Policy
	log    logger.Logger
}

// New creates a Renderer using the article sanitizing policy.
func New(log logger.Logger) *Renderer {
	return &Renderer{policy: Policy(), log: log}
}

// Render serializes blocks and sanitizes the result.
func (r *Renderer) Render(blocks []*data.Block) (template.HTML, error) {
	var buf bytes.Buffer
	for _, n := range r.Nodes(blocks) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render block html: %w", err)
		}
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Nodes maps blocks to HTML nodes in document order. Runs of consecutive list items of
// the same kind share one <ul> or <ol>. Blocks whose payload is missing or does not
// match their type are skipped; unknown types become a visible placeholder.
func (r *Renderer) Nodes(blocks []*data.Block) []*html.Node {
	nodes := []*html.Node{}
	var list *html.Node
	var listType data.BlockType

	for _, b := range blocks {
		if b == nil {
			continue
		}

		if b.Type == data.BlockBulletedListItem || b.Type == data.BlockNumberedListItem {
			item := r.listItem(b)
			if item == nil {
				continue
			}
			if list == nil || listType != b.Type {
				tag := atom.Ul
				if b.Type == data.BlockNumberedListItem {
					tag = atom.Ol
				}
				list = element(tag)
				listType = b.Type
				nodes = append(nodes, list)
			}
			list.AppendChild(item)
			continue
		}

		list = nil
		if n := r.block(b); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (r *Renderer) block(b *data.Block) *html.Node {
	if !b.Renderable() {
		r.malformed(b)
		return nil
	}

	switch b.Type {
	case data.BlockParagraph:
		return withChildren(element(atom.P), richText(textOf(b)))

	case data.BlockHeading1, data.BlockHeading2, data.BlockHeading3:
		spans := textOf(b)
		tag := []atom.Atom{atom.H1, atom.H2, atom.H3}[b.Type.HeadingLevel()-1]
		id := slug.Make(data.PlainText(spans))
		return withChildren(element(tag, attr("id", id)), richText(spans))

	case data.BlockQuote:
		quote := withChildren(element(atom.Blockquote), richText(textOf(b)))
		return withChildren(quote, r.Nodes(b.DisplayedChildren()))

	case data.BlockCallout:
		p := withChildren(element(atom.P), richText(textOf(b)))
		return withChildren(element(atom.Aside, attr("class", "notion-callout")), []*html.Node{p})

	case data.BlockToggle:
		summary := withChildren(element(atom.Summary), richText(textOf(b)))
		details := withChildren(element(atom.Details), []*html.Node{summary})
		return withChildren(details, r.Nodes(b.DisplayedChildren()))

	case data.BlockDivider:
		return element(atom.Hr)

	case data.BlockColumnList:
		columns := element(atom.Div, attr("class", "notion-columns"))
		for _, c := range b.DisplayedChildren() {
			col := element(atom.Div, attr("class", "notion-column"))
			columns.AppendChild(withChildren(col, r.Nodes(c.DisplayedChildren())))
		}
		return columns

	case data.BlockColumn:
		return withChildren(element(atom.Div, attr("class", "notion-column")), r.Nodes(b.DisplayedChildren()))

	case data.BlockImage:
		return r.image(b)

	case data.BlockCode:
		return r.code(b)

	case data.BlockTable:
		return r.table(b)
	}

	return unsupported(b.Type)
}

// unsupported is the visible stand-in for a block type the site cannot display, so
// authors notice the gap when reviewing the page.
func unsupported(t data.BlockType) *html.Node {
	div := element(atom.Div,
		attr("class", "notion-unsupported"),
		attr("data-block-type", string(t)))
	div.AppendChild(text("Unsupported block: " + string(t)))
	return div
}

func textOf(b *data.Block) []data.RichText {
	return b.Content.(data.TextContent).RichText
}

func (r *Renderer) malformed(b *data.Block) {
	r.log.With(map[string]interface{}{"block_id": b.ID, "block_type": string(b.Type)}).
		Debug("Skipping malformed block")
}

func (r *Renderer) listItem(b *data.Block) *html.Node {
	if !b.Renderable() {
		r.malformed(b)
		return nil
	}
	li := withChildren(element(atom.Li), richText(textOf(b)))
	return withChildren(li, r.Nodes(b.DisplayedChildren()))
}

func (r *Renderer) image(b *data.Block) *html.Node {
	img := b.Content.(data.ImageContent)
	caption := data.PlainText(img.Caption)
	figure := element(atom.Figure)
	figure.AppendChild(element(atom.Img,
		attr("src", img.URL),
		attr("alt", caption),
		attr("loading", "lazy")))
	if len(img.Caption) > 0 {
		figure.AppendChild(withChildren(element(atom.Figcaption), richText(img.Caption)))
	}
	return figure
}

func (r *Renderer) code(b *data.Block) *html.Node {
	cc := b.Content.(data.CodeContent)
	var attrs []html.Attribute
	if lang := CodeLanguage(cc.Language); lang != "" {
		attrs = append(attrs, attr("class", "language-"+lang))
	}
	code := element(atom.Code, attrs...)
	code.AppendChild(text(data.PlainText(cc.RichText)))
	return withChildren(element(atom.Pre), []*html.Node{code})
}

func (r *Renderer) table(b *data.Block) *html.Node {
	tc := b.Content.(data.TableContent)
	table := element(atom.Table)
	body := element(atom.Tbody)
	for i, row := range b.Children {
		if row == nil {
			continue
		}
		rc, ok := row.Content.(data.TableRowContent)
		if !ok {
			r.malformed(row)
			continue
		}

		tr := element(atom.Tr)
		for j, cell := range rc.Cells {
			tag := atom.Td
			if (tc.HasColumnHeader && i == 0) || (tc.HasRowHeader && j == 0) {
				tag = atom.Th
			}
			tr.AppendChild(withChildren(element(tag), richText(cell)))
		}

		if tc.HasColumnHeader && i == 0 {
			head := element(atom.Thead)
			head.AppendChild(tr)
			table.AppendChild(head)
			continue
		}
		body.AppendChild(tr)
	}
	table.AppendChild(body)
	return table
}

// richText renders spans. Annotations nest code, bold, italic, strikethrough and
// underline from the inside out, and a link wraps the styled span.
func richText(spans []data.RichText) []*html.Node {
	nodes := []*html.Node{}
	for _, s := range spans {
		if s.PlainText == "" {
			continue
		}

		var n *html.Node
		if s.Annotations.Code {
			n = element(atom.Code)
			n.AppendChild(text(s.PlainText))
		} else {
			n = element(atom.Span)
			for i, line := range strings.Split(s.PlainText, "\n") {
				if i > 0 {
					n.AppendChild(element(atom.Br))
				}
				if line != "" {
					n.AppendChild(text(line))
				}
			}
		}

		a := s.Annotations
		n = wrapIf(a.Bold, atom.Strong, n)
		n = wrapIf(a.Italic, atom.Em, n)
		n = wrapIf(a.Strikethrough, atom.S, n)
		n = wrapIf(a.Underline, atom.U, n)
		if a.Color != "" && a.Color != "default" {
			n = wrap(element(atom.Span, attr("class", "notion-"+strings.ReplaceAll(a.Color, "_", "-"))), n)
		}
		if s.Href != "" {
			n = wrap(element(atom.A, attr("href", s.Href)), n)
		}

		nodes = append(nodes, unwrapSpan(n)...)
	}
	return nodes
}

// unwrapSpan drops the plain <span> used to hold a multi-line text run when nothing
// else needs it.
func unwrapSpan(n *html.Node) []*html.Node {
	if n.DataAtom != atom.Span || len(n.Attr) > 0 {
		return []*html.Node{n}
	}
	var children []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		children = append(children, c)
		c = next
	}
	return children
}

func wrapIf(cond bool, tag atom.Atom, n *html.Node) *html.Node {
	if !cond {
		return n
	}
	return wrap(element(tag), n)
}

func wrap(outer, inner *html.Node) *html.Node {
	if inner.DataAtom == atom.Span && len(inner.Attr) == 0 {
		for _, c := range unwrapSpan(inner) {
			outer.AppendChild(c)
		}
		return outer
	}
	outer.AppendChild(inner)
	return outer
}

func withChildren(parent *html.Node, children []*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func element(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
