package notion

import (
	"marketing-site/internal/data"

	"github.com/jomei/notionapi"
)

// convertBlock maps an API block onto the site's block model. Types without a
// dedicated payload become UnsupportedContent and keep their raw type string.
func convertBlock(b notionapi.Block) *data.Block {
	out := &data.Block{
		ID:          string(b.GetID()),
		Type:        data.BlockType(b.GetType()),
		HasChildren: b.GetHasChildren(),
	}

	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		out.Content = data.TextContent{RichText: richText(v.Paragraph.RichText)}
	case *notionapi.Heading1Block:
		out.Content = data.TextContent{RichText: richText(v.Heading1.RichText)}
	case *notionapi.Heading2Block:
		out.Content = data.TextContent{RichText: richText(v.Heading2.RichText)}
	case *notionapi.Heading3Block:
		out.Content = data.TextContent{RichText: richText(v.Heading3.RichText)}
	case *notionapi.BulletedListItemBlock:
		out.Content = data.TextContent{RichText: richText(v.BulletedListItem.RichText)}
	case *notionapi.NumberedListItemBlock:
		out.Content = data.TextContent{RichText: richText(v.NumberedListItem.RichText)}
	case *notionapi.ToggleBlock:
		out.Content = data.TextContent{RichText: richText(v.Toggle.RichText)}
	case *notionapi.QuoteBlock:
		out.Content = data.TextContent{RichText: richText(v.Quote.RichText)}
	case *notionapi.CalloutBlock:
		out.Content = data.TextContent{RichText: richText(v.Callout.RichText)}
	case *notionapi.CodeBlock:
		out.Content = data.CodeContent{RichText: richText(v.Code.RichText), Language: v.Code.Language}
	case *notionapi.ImageBlock:
		out.Content = imageContent(v.Image)
	case *notionapi.TableBlock:
		out.Content = data.TableContent{
			Width:           v.Table.TableWidth,
			HasColumnHeader: v.Table.HasColumnHeader,
			HasRowHeader:    v.Table.HasRowHeader,
		}
	case *notionapi.TableRowBlock:
		cells := make([][]data.RichText, len(v.TableRow.Cells))
		for i, cell := range v.TableRow.Cells {
			cells[i] = richText(cell)
		}
		out.Content = data.TableRowContent{Cells: cells}
	case *notionapi.DividerBlock, *notionapi.ColumnListBlock, *notionapi.ColumnBlock:
		// structural only
	default:
		out.Content = data.UnsupportedContent{}
	}
	return out
}

func imageContent(img notionapi.Image) data.ImageContent {
	c := data.ImageContent{Caption: richText(img.Caption)}
	switch {
	case img.External != nil:
		c.Kind, c.URL = data.ImageExternal, img.External.URL
	case img.File != nil:
		c.Kind, c.URL = data.ImageFile, img.File.URL
	}
	return c
}

func richText(rt []notionapi.RichText) []data.RichText {
	if len(rt) == 0 {
		return nil
	}
	out := make([]data.RichText, 0, len(rt))
	for _, r := range rt {
		span := data.RichText{PlainText: r.PlainText, Href: r.Href}
		if a := r.Annotations; a != nil {
			span.Annotations = data.Annotations{
				Bold:          a.Bold,
				Italic:        a.Italic,
				Strikethrough: a.Strikethrough,
				Underline:     a.Underline,
				Code:          a.Code,
				Color:         string(a.Color),
			}
		}
		out = append(out, span)
	}
	return out
}
