package data

// BlockType is the discriminator Notion reports in a block's "type" field.
type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockImage            BlockType = "image"
	BlockCode             BlockType = "code"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToggle           BlockType = "toggle"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockDivider          BlockType = "divider"
	BlockColumnList       BlockType = "column_list"
	BlockColumn           BlockType = "column"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
)

// containerTypes are the block types whose children are fetched and rendered.
var containerTypes = map[BlockType]bool{
	BlockBulletedListItem: true,
	BlockNumberedListItem: true,
	BlockToggle:           true,
	BlockColumnList:       true,
	BlockColumn:           true,
	BlockTable:            true,
}

// IsContainer reports whether blocks of type t may carry children.
func (t BlockType) IsContainer() bool {
	return containerTypes[t]
}

// HeadingLevel returns 1-3 for heading types and 0 otherwise.
func (t BlockType) HeadingLevel() int {
	switch t {
	case BlockHeading1:
		return 1
	case BlockHeading2:
		return 2
	case BlockHeading3:
		return 3
	}
	return 0
}

// Block is one unit of page content.
//
// Children is nil until the tree fetch has visited the block. After a fetch every
// container-type block holds a non-nil slice, which is empty when the block had no
// children or when fetching them failed.
type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`
	Children    []*Block  `json:"children,omitempty"`
	Content     Content   `json:"-"`
}

// Renderable reports whether the block's payload fits its type. Blocks that are not
// renderable are left off the page together with their children. Unknown types are
// renderable as a placeholder.
func (b *Block) Renderable() bool {
	switch b.Type {
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3,
		BlockBulletedListItem, BlockNumberedListItem, BlockToggle, BlockQuote, BlockCallout:
		_, ok := b.Content.(TextContent)
		return ok
	case BlockImage:
		img, ok := b.Content.(ImageContent)
		return ok && img.URL != ""
	case BlockCode:
		_, ok := b.Content.(CodeContent)
		return ok
	case BlockTable:
		_, ok := b.Content.(TableContent)
		return ok
	case BlockTableRow:
		// rows are only displayed by their table
		return false
	}
	return true
}

// DisplayedChildren returns the children shown inside the block: nested blocks of list
// items, toggles, quotes and columns, and the columns of a column list. Table rows are
// laid out by the table itself and are not included. Nil for non-renderable blocks.
func (b *Block) DisplayedChildren() []*Block {
	if !b.Renderable() {
		return nil
	}
	switch b.Type {
	case BlockBulletedListItem, BlockNumberedListItem, BlockToggle, BlockQuote, BlockColumn:
		return b.Children
	case BlockColumnList:
		columns := make([]*Block, 0, len(b.Children))
		for _, c := range b.Children {
			if c != nil && c.Type == BlockColumn {
				columns = append(columns, c)
			}
		}
		return columns
	}
	return nil
}

// Content is the type-specific payload of a block. The set of implementations is closed.
type Content interface {
	isContent()
}

// TextContent carries the spans of paragraphs, headings, list items, quotes, toggles and callouts.
type TextContent struct {
	RichText []RichText
}

// ImageSourceKind tells whether an image is hosted by Notion or linked from elsewhere.
type ImageSourceKind string

const (
	ImageExternal ImageSourceKind = "external"
	ImageFile     ImageSourceKind = "file"
)

// ImageContent describes an image block. Exactly one source form is set per block.
type ImageContent struct {
	Kind    ImageSourceKind
	URL     string
	Caption []RichText
}

// CodeContent is the source text of a code block and its language tag.
type CodeContent struct {
	RichText []RichText
	Language string
}

// TableContent holds table-level layout flags; rows arrive as children.
type TableContent struct {
	Width           int
	HasColumnHeader bool
	HasRowHeader    bool
}

// TableRowContent holds one row of cells.
type TableRowContent struct {
	Cells [][]RichText
}

// UnsupportedContent marks a block type this site does not know how to display.
type UnsupportedContent struct{}

func (TextContent) isContent()        {}
func (ImageContent) isContent()       {}
func (CodeContent) isContent()        {}
func (TableContent) isContent()       {}
func (TableRowContent) isContent()    {}
func (UnsupportedContent) isContent() {}

// BlockPage is one page of a block's children listing.
type BlockPage struct {
	Results    []*Block
	NextCursor string // empty when there are no further pages
}
