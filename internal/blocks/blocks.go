package blocks

import (
	"sort"
	"strings"
)

// Type discriminates the closed set of content block variants a page can hold.
type Type string

const (
	TypeRichText        Type = "richtext"
	TypeImage           Type = "image"
	TypeGallery         Type = "gallery"
	TypeCarousel        Type = "carousel"
	TypeHero            Type = "hero"
	TypeForm            Type = "form"
	TypeHTML            Type = "html"
	TypeButton          Type = "button"
	TypeSpacer          Type = "spacer"
	TypeColumns         Type = "columns"
	TypeVideo           Type = "video"
	TypeBackgroundImage Type = "background-image"
)

// Types lists every known block type in presentation-palette order.
func Types() []Type {
	return []Type{
		TypeRichText,
		TypeImage,
		TypeGallery,
		TypeCarousel,
		TypeHero,
		TypeForm,
		TypeHTML,
		TypeButton,
		TypeSpacer,
		TypeColumns,
		TypeVideo,
		TypeBackgroundImage,
	}
}

// ParseType resolves a raw type string against the closed enum.
func ParseType(value string) (Type, bool) {
	candidate := Type(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range Types() {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// Block is one visual unit within a page. Props is a type-specific attribute
// bag; unknown keys are preserved untouched so older documents survive new
// editor releases. The type is immutable after creation; changing a block's
// behaviour means delete and recreate.
type Block struct {
	ID    string         `json:"id"`
	Type  Type           `json:"type"`
	Order int            `json:"order"`
	Props map[string]any `json:"props"`
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	cloned := b
	cloned.Props = cloneValueMap(b.Props)
	return cloned
}

// CloneSlice deep-copies a block list.
func CloneSlice(src []Block) []Block {
	if src == nil {
		return nil
	}
	out := make([]Block, len(src))
	for i, block := range src {
		out[i] = block.Clone()
	}
	return out
}

// Sorted returns the blocks ordered by their Order key ascending. The sort is
// stable: ties keep their original array position, which is the tie-break rule
// renderers and editors rely on.
func Sorted(src []Block) []Block {
	out := CloneSlice(src)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// IndexByID returns the position of the block carrying the given id, or -1.
func IndexByID(list []Block, id string) int {
	for i, block := range list {
		if block.ID == id {
			return i
		}
	}
	return -1
}

func cloneValueMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValueSlice(src []any) []any {
	if src == nil {
		return nil
	}
	out := make([]any, len(src))
	for i, value := range src {
		out[i] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValueMap(typed)
	case []any:
		return cloneValueSlice(typed)
	default:
		return value
	}
}
