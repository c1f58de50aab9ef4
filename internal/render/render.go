// Package render transforms a page's stored block list into a visual tree.
// Rendering is pure: malformed blocks become nothing, never errors, so a
// partially authored draft always produces a displayable document.
package render

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// Node is one element of the rendered tree. Type discriminates which of the
// attribute pointers is populated.
type Node struct {
	BlockID string
	Type    blocks.Type

	RichText   *RichTextNode
	Image      *ImageNode
	Gallery    *GalleryNode
	Carousel   *CarouselNode
	Hero       *HeroNode
	Button     *ButtonNode
	Form       *FormNode
	HTML       *HTMLNode
	Spacer     *SpacerNode
	Columns    *ColumnsNode
	Video      *VideoNode
	Background *BackgroundNode
}

// RichTextNode is sanitized block-level markup.
type RichTextNode struct {
	HTML  string
	Align string
}

// ImageNode is a single figure with optional caption and alignment.
type ImageNode struct {
	URL     string
	Alt     string
	Caption string
	Link    string
	Size    string
	Align   string
}

// GalleryNode is an image grid.
type GalleryNode struct {
	Images   []blocks.ImageRef
	Columns  int
	Spacing  int
	Lightbox bool
}

// CarouselNode carries the slide deck plus the timer configuration consumed
// by the live Carousel state machine.
type CarouselNode struct {
	Config blocks.CarouselProps
}

// HeroNode is a full-bleed banner.
type HeroNode struct {
	Title              string
	Subtitle           string
	BackgroundImage    string
	BackgroundColor    string
	BackgroundGradient string
	Overlay            blocks.Overlay
	Height             string
	Align              string
}

// ButtonNode is a single call-to-action link.
type ButtonNode struct {
	Label  string
	URL    string
	Target string
	Style  string
	Size   string
}

// FormNode is an embedded form definition.
type FormNode struct {
	Fields         []map[string]any
	SuccessMessage string
}

// HTMLNode is author-supplied markup. Raw unless the block opted in to
// sanitization.
type HTMLNode struct {
	HTML string
}

// SpacerNode is empty vertical space.
type SpacerNode struct {
	Height int
}

// ColumnsNode holds one rendered node list per column. This is the only
// place the tree recurses.
type ColumnsNode struct {
	Count   int
	Columns [][]Node
}

// VideoNode embeds as a responsive iframe.
type VideoNode struct {
	URL      string
	Autoplay bool
	Loop     bool
	Controls bool
}

// BackgroundNode sets a full-bleed background with no foreground content.
type BackgroundNode struct {
	Image    string
	Size     string
	Position string
	Overlay  blocks.Overlay
}

// Document is the rendered form of one page.
type Document struct {
	Title    string
	Slug     string
	Meta     pages.Meta
	Settings pages.Settings
	Nodes    []Node
}

// Renderer renders block lists. Safe for concurrent use.
type Renderer struct {
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
	logger    interfaces.Logger
}

// Option configures a renderer.
type Option func(*Renderer)

// WithSanitizerPolicy overrides the markup sanitization policy.
func WithSanitizerPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.sanitizer = policy
		}
	}
}

// WithMarkdown overrides the markdown converter used for richtext blocks
// stored in markdown format.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(r *Renderer) {
		if md != nil {
			r.markdown = md
		}
	}
}

// WithLogger overrides the renderer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer constructs a renderer with UGC sanitization defaults.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		sanitizer: bluemonday.UGCPolicy(),
		markdown:  goldmark.New(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderPage renders a full page into a document.
func (r *Renderer) RenderPage(page *pages.Page) *Document {
	if page == nil {
		return &Document{}
	}
	return &Document{
		Title:    page.Title,
		Slug:     page.Slug,
		Meta:     page.Meta,
		Settings: page.Settings,
		Nodes:    r.RenderBlocks(page.ContentBlocks),
	}
}

// RenderBlocks renders an ordered block list. Blocks are re-sorted by their
// order key first; ties keep their stored relative position.
func (r *Renderer) RenderBlocks(list []blocks.Block) []Node {
	sorted := blocks.Sorted(list)
	nodes := make([]Node, 0, len(sorted))
	for _, block := range sorted {
		node, ok := r.renderBlock(block)
		if !ok {
			r.logger.Debug("block skipped",
				"block_id", block.ID,
				"type", string(block.Type),
			)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (r *Renderer) renderBlock(block blocks.Block) (Node, bool) {
	node := Node{BlockID: block.ID, Type: block.Type}

	switch block.Type {
	case blocks.TypeRichText:
		props := blocks.DecodeRichText(block.Props)
		if strings.TrimSpace(props.Content) == "" {
			return Node{}, false
		}
		html := props.Content
		if props.Format == "markdown" {
			html = r.markdownToHTML(html)
		}
		node.RichText = &RichTextNode{
			HTML:  r.sanitizer.Sanitize(html),
			Align: props.Align,
		}

	case blocks.TypeImage:
		props := blocks.DecodeImage(block.Props)
		if props.URL == "" {
			return Node{}, false
		}
		node.Image = &ImageNode{
			URL:     props.URL,
			Alt:     props.Alt,
			Caption: props.Caption,
			Link:    props.Link,
			Size:    props.Size,
			Align:   props.Align,
		}

	case blocks.TypeGallery:
		props := blocks.DecodeGallery(block.Props)
		if len(props.Images) == 0 {
			return Node{}, false
		}
		node.Gallery = &GalleryNode{
			Images:   props.Images,
			Columns:  props.Columns,
			Spacing:  props.Spacing,
			Lightbox: props.Lightbox,
		}

	case blocks.TypeCarousel:
		props := blocks.DecodeCarousel(block.Props)
		if len(props.Slides) == 0 {
			return Node{}, false
		}
		node.Carousel = &CarouselNode{Config: props}

	case blocks.TypeHero:
		props := blocks.DecodeHero(block.Props)
		node.Hero = &HeroNode{
			Title:              props.Title,
			Subtitle:           props.Subtitle,
			BackgroundImage:    props.BackgroundImage,
			BackgroundColor:    props.BackgroundColor,
			BackgroundGradient: props.BackgroundGradient,
			Overlay:            props.Overlay,
			Height:             props.Height,
			Align:              props.Align,
		}

	case blocks.TypeButton:
		props := blocks.DecodeButton(block.Props)
		node.Button = &ButtonNode{
			Label:  props.Label,
			URL:    defaultString(props.URL, "#"),
			Target: props.Target,
			Style:  props.Style,
			Size:   props.Size,
		}

	case blocks.TypeForm:
		props := blocks.DecodeForm(block.Props)
		if len(props.Fields) == 0 {
			return Node{}, false
		}
		node.Form = &FormNode{
			Fields:         props.Fields,
			SuccessMessage: props.SuccessMessage,
		}

	case blocks.TypeHTML:
		props := blocks.DecodeHTML(block.Props)
		if strings.TrimSpace(props.Content) == "" {
			return Node{}, false
		}
		html := props.Content
		if props.Sanitize {
			html = r.sanitizer.Sanitize(html)
		}
		node.HTML = &HTMLNode{HTML: html}

	case blocks.TypeSpacer:
		props := blocks.DecodeSpacer(block.Props)
		node.Spacer = &SpacerNode{Height: props.Height}

	case blocks.TypeColumns:
		props := blocks.DecodeColumns(block.Props)
		if len(props.Content) == 0 {
			return Node{}, false
		}
		columns := make([][]Node, len(props.Content))
		for i, column := range props.Content {
			columns[i] = r.RenderBlocks(column.Blocks)
		}
		node.Columns = &ColumnsNode{Count: props.Columns, Columns: columns}

	case blocks.TypeVideo:
		props := blocks.DecodeVideo(block.Props)
		if props.URL == "" {
			return Node{}, false
		}
		node.Video = &VideoNode{
			URL:      props.URL,
			Autoplay: props.Autoplay,
			Loop:     props.Loop,
			Controls: props.Controls,
		}

	case blocks.TypeBackgroundImage:
		props := blocks.DecodeBackgroundImage(block.Props)
		if props.Image == "" {
			return Node{}, false
		}
		node.Background = &BackgroundNode{
			Image:    props.Image,
			Size:     props.Size,
			Position: props.Position,
			Overlay:  props.Overlay,
		}

	default:
		return Node{}, false
	}

	return node, true
}

func (r *Renderer) markdownToHTML(source string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
