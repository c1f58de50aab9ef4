package blocks

// Typed views over the per-type props bags. Each Decode* helper consumes the
// keys it understands and carries everything else in Extra, so round-tripping
// a document through the editor never strips fields written by a newer
// schema revision.

// RichTextProps configures a richtext block.
type RichTextProps struct {
	Content string
	Align   string
	Format  string // "html" (default) or "markdown"
	Extra   map[string]any
}

// DecodeRichText extracts richtext props.
func DecodeRichText(props map[string]any) RichTextProps {
	d := newDecoder(props)
	out := RichTextProps{
		Content: d.str("content", ""),
		Align:   d.str("align", "left"),
		Format:  d.str("format", "html"),
	}
	out.Extra = d.rest()
	return out
}

// ImageProps configures a single-image block.
type ImageProps struct {
	URL     string
	Alt     string
	Caption string
	Link    string
	Size    string // "full" or natural
	Align   string // left / center / right
	Extra   map[string]any
}

// DecodeImage extracts image props.
func DecodeImage(props map[string]any) ImageProps {
	d := newDecoder(props)
	out := ImageProps{
		URL:     d.str("url", ""),
		Alt:     d.str("alt", ""),
		Caption: d.str("caption", ""),
		Link:    d.str("link", ""),
		Size:    d.str("size", "full"),
		Align:   d.str("align", "center"),
	}
	out.Extra = d.rest()
	return out
}

// ImageRef is a gallery entry. Persisted entries may be bare URL strings or
// {url, alt} objects; both decode into this shape.
type ImageRef struct {
	URL string
	Alt string
}

// GalleryProps configures an image grid.
type GalleryProps struct {
	Images   []ImageRef
	Columns  int
	Spacing  int
	Lightbox bool
	Extra    map[string]any
}

// DecodeGallery extracts gallery props.
func DecodeGallery(props map[string]any) GalleryProps {
	d := newDecoder(props)
	out := GalleryProps{
		Images:   decodeImageRefs(d.list("images")),
		Columns:  d.integer("columns", 3),
		Spacing:  d.integer("spacing", 4),
		Lightbox: d.boolean("lightbox", true),
	}
	out.Extra = d.rest()
	return out
}

// Slide is one carousel entry.
type Slide struct {
	URL     string
	Alt     string
	Caption string
}

// CarouselProps configures the carousel block, including its autoplay timer.
type CarouselProps struct {
	Slides        []Slide
	Autoplay      bool
	AutoplaySpeed int // milliseconds between automatic advances
	Transition    string
	Loop          bool
	Arrows        bool
	Dots          bool
	SlideSpeed    int
	Extra         map[string]any
}

// DecodeCarousel extracts carousel props.
func DecodeCarousel(props map[string]any) CarouselProps {
	d := newDecoder(props)
	out := CarouselProps{
		Slides:        decodeSlides(d.list("slides")),
		Autoplay:      d.boolean("autoplay", true),
		AutoplaySpeed: d.integer("autoplaySpeed", 3000),
		Transition:    d.str("transition", "slide"),
		Loop:          d.boolean("loop", true),
		Arrows:        d.boolean("arrows", true),
		Dots:          d.boolean("dots", true),
		SlideSpeed:    d.integer("slideSpeed", 500),
	}
	if out.AutoplaySpeed <= 0 {
		out.AutoplaySpeed = 3000
	}
	out.Extra = d.rest()
	return out
}

// Overlay is a tinted layer drawn above hero and background imagery.
type Overlay struct {
	Enabled bool
	Color   string
	Opacity float64
}

// HeroProps configures a full-bleed banner.
type HeroProps struct {
	Title              string
	Subtitle           string
	BackgroundImage    string
	BackgroundColor    string
	BackgroundGradient string
	Overlay            Overlay
	Height             string
	Align              string
	Extra              map[string]any
}

// DecodeHero extracts hero props.
func DecodeHero(props map[string]any) HeroProps {
	d := newDecoder(props)
	out := HeroProps{
		Title:              d.str("title", ""),
		Subtitle:           d.str("subtitle", ""),
		BackgroundImage:    d.str("backgroundImage", ""),
		BackgroundColor:    d.str("backgroundColor", ""),
		BackgroundGradient: d.str("backgroundGradient", ""),
		Overlay:            decodeOverlay(d.object("overlay")),
		Height:             d.str("height", "100vh"),
		Align:              d.str("align", "center"),
	}
	out.Extra = d.rest()
	return out
}

// ButtonProps configures a call-to-action link.
type ButtonProps struct {
	Label  string
	URL    string
	Target string
	Style  string // primary / secondary
	Size   string
	Extra  map[string]any
}

// DecodeButton extracts button props.
func DecodeButton(props map[string]any) ButtonProps {
	d := newDecoder(props)
	out := ButtonProps{
		Label:  d.str("label", "Button"),
		URL:    d.str("url", ""),
		Target: d.str("target", "_self"),
		Style:  d.str("style", "primary"),
		Size:   d.str("size", "md"),
	}
	out.Extra = d.rest()
	return out
}

// FormProps configures an embedded form block.
type FormProps struct {
	Fields         []map[string]any
	SuccessMessage string
	Extra          map[string]any
}

// DecodeForm extracts form props.
func DecodeForm(props map[string]any) FormProps {
	d := newDecoder(props)
	out := FormProps{
		Fields:         decodeObjectList(d.list("fields")),
		SuccessMessage: d.str("successMessage", "Thank you for your submission!"),
	}
	out.Extra = d.rest()
	return out
}

// HTMLProps configures a raw markup block. Content is an author-only trust
// boundary: it is emitted verbatim unless sanitize is set.
type HTMLProps struct {
	Content  string
	Sanitize bool
	Extra    map[string]any
}

// DecodeHTML extracts html props.
func DecodeHTML(props map[string]any) HTMLProps {
	d := newDecoder(props)
	out := HTMLProps{
		Content:  d.str("content", ""),
		Sanitize: d.boolean("sanitize", true),
	}
	out.Extra = d.rest()
	return out
}

// SpacerProps configures an empty vertical gap.
type SpacerProps struct {
	Height int // pixels
	Extra  map[string]any
}

// DecodeSpacer extracts spacer props.
func DecodeSpacer(props map[string]any) SpacerProps {
	d := newDecoder(props)
	out := SpacerProps{Height: d.integer("height", 40)}
	if out.Height <= 0 {
		out.Height = 40
	}
	out.Extra = d.rest()
	return out
}

// Column is one cell of a columns block, holding its own nested block list.
type Column struct {
	Blocks []Block
}

// ColumnsProps configures the recursive multi-column block.
type ColumnsProps struct {
	Columns int
	Content []Column
	Extra   map[string]any
}

// DecodeColumns extracts columns props, decoding each nested block list.
func DecodeColumns(props map[string]any) ColumnsProps {
	d := newDecoder(props)
	out := ColumnsProps{
		Columns: d.integer("columns", 2),
		Content: decodeColumnContent(d.list("content")),
	}
	if out.Columns <= 0 {
		out.Columns = 2
	}
	out.Extra = d.rest()
	return out
}

// VideoProps configures a video embed.
type VideoProps struct {
	URL      string
	Autoplay bool
	Loop     bool
	Controls bool
	Extra    map[string]any
}

// DecodeVideo extracts video props.
func DecodeVideo(props map[string]any) VideoProps {
	d := newDecoder(props)
	out := VideoProps{
		URL:      d.str("url", ""),
		Autoplay: d.boolean("autoplay", false),
		Loop:     d.boolean("loop", false),
		Controls: d.boolean("controls", true),
	}
	out.Extra = d.rest()
	return out
}

// BackgroundImageProps configures a full-bleed background section.
type BackgroundImageProps struct {
	Image    string
	Size     string
	Position string
	Overlay  Overlay
	Extra    map[string]any
}

// DecodeBackgroundImage extracts background-image props.
func DecodeBackgroundImage(props map[string]any) BackgroundImageProps {
	d := newDecoder(props)
	out := BackgroundImageProps{
		Image:    d.str("image", ""),
		Size:     d.str("size", "cover"),
		Position: d.str("position", "center"),
		Overlay:  decodeOverlay(d.object("overlay")),
	}
	out.Extra = d.rest()
	return out
}

// DecodeBlock rebuilds a Block from its generic map form (nested column
// content, imported documents).
func DecodeBlock(raw map[string]any) (Block, bool) {
	if raw == nil {
		return Block{}, false
	}
	d := newDecoder(raw)
	typeName, ok := ParseType(d.str("type", ""))
	if !ok {
		return Block{}, false
	}
	block := Block{
		ID:    d.str("id", ""),
		Type:  typeName,
		Order: d.integer("order", 0),
		Props: cloneValueMap(d.object("props")),
	}
	return block, true
}

func decodeImageRefs(list []any) []ImageRef {
	if len(list) == 0 {
		return nil
	}
	out := make([]ImageRef, 0, len(list))
	for _, entry := range list {
		switch typed := entry.(type) {
		case string:
			if typed != "" {
				out = append(out, ImageRef{URL: typed})
			}
		case map[string]any:
			d := newDecoder(typed)
			ref := ImageRef{URL: d.str("url", ""), Alt: d.str("alt", "")}
			if ref.URL != "" {
				out = append(out, ref)
			}
		}
	}
	return out
}

func decodeSlides(list []any) []Slide {
	if len(list) == 0 {
		return nil
	}
	out := make([]Slide, 0, len(list))
	for _, entry := range list {
		switch typed := entry.(type) {
		case string:
			if typed != "" {
				out = append(out, Slide{URL: typed})
			}
		case map[string]any:
			d := newDecoder(typed)
			slide := Slide{
				URL:     d.str("url", ""),
				Alt:     d.str("alt", ""),
				Caption: d.str("caption", ""),
			}
			if slide.URL != "" {
				out = append(out, slide)
			}
		}
	}
	return out
}

func decodeOverlay(raw map[string]any) Overlay {
	d := newDecoder(raw)
	return Overlay{
		Enabled: d.boolean("enabled", false),
		Color:   d.str("color", "#000000"),
		Opacity: d.float("opacity", 0.5),
	}
}

func decodeObjectList(list []any) []map[string]any {
	if len(list) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if obj, ok := entry.(map[string]any); ok {
			out = append(out, cloneValueMap(obj))
		}
	}
	return out
}

func decodeColumnContent(list []any) []Column {
	if len(list) == 0 {
		return nil
	}
	out := make([]Column, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			out = append(out, Column{})
			continue
		}
		d := newDecoder(obj)
		column := Column{}
		for _, nested := range d.list("blocks") {
			nestedMap, ok := nested.(map[string]any)
			if !ok {
				continue
			}
			if block, ok := DecodeBlock(nestedMap); ok {
				column.Blocks = append(column.Blocks, block)
			}
		}
		out = append(out, column)
	}
	return out
}
