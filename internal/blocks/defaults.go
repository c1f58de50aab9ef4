package blocks

// DefaultProps returns the editor defaults for a freshly inserted block of the
// given type. Every default is a non-null, sensible value so a new block
// renders (or deliberately skips) without further authoring.
func DefaultProps(t Type) map[string]any {
	switch t {
	case TypeRichText:
		return map[string]any{"content": "", "align": "left"}
	case TypeImage:
		return map[string]any{
			"url":     "",
			"alt":     "",
			"caption": "",
			"link":    "",
			"size":    "full",
			"align":   "center",
		}
	case TypeGallery:
		return map[string]any{
			"images":   []any{},
			"columns":  3,
			"spacing":  4,
			"lightbox": true,
		}
	case TypeCarousel:
		return map[string]any{
			"slides":        []any{},
			"autoplay":      true,
			"autoplaySpeed": 3000,
			"transition":    "slide",
			"loop":          true,
			"arrows":        true,
			"dots":          true,
			"slideSpeed":    500,
		}
	case TypeVideo:
		return map[string]any{
			"url":      "",
			"autoplay": false,
			"loop":     false,
			"controls": true,
		}
	case TypeButton:
		return map[string]any{
			"label":  "Button",
			"url":    "",
			"target": "_self",
			"style":  "primary",
			"size":   "md",
		}
	case TypeForm:
		return map[string]any{
			"fields":         []any{},
			"successMessage": "Thank you for your submission!",
		}
	case TypeHTML:
		return map[string]any{"content": "", "sanitize": true}
	case TypeSpacer:
		return map[string]any{"height": 40}
	case TypeColumns:
		return map[string]any{"columns": 2, "content": []any{}}
	case TypeHero:
		return map[string]any{
			"title":              "",
			"subtitle":           "",
			"backgroundImage":    "",
			"backgroundColor":    "",
			"backgroundGradient": "",
			"overlay":            map[string]any{"enabled": false, "color": "#000000", "opacity": 0.5},
			"height":             "100vh",
			"align":              "center",
		}
	case TypeBackgroundImage:
		return map[string]any{
			"image":    "",
			"size":     "cover",
			"position": "center",
			"overlay":  map[string]any{"enabled": false, "color": "#000000", "opacity": 0.5},
		}
	default:
		return map[string]any{}
	}
}
