package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the structured metadata block at the top of a markdown
// document. Unknown keys are preserved in Custom.
type FrontMatter struct {
	Title       string
	Slug        string
	Description string
	Status      string
	Template    string
	MenuGroup   string
	MenuTitle   string
	MenuOrder   int
	Date        time.Time
	Draft       bool
	Custom      map[string]any
}

// Document is one parsed markdown file ready for import.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
}

// ParseFrontMatter extracts metadata and markdown body content from the
// provided source bytes. It returns the structured frontmatter and the body
// without delimiters.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a Document from the supplied file path, raw
// content, and modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	parsed, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &Document{
		FilePath:     path,
		FrontMatter:  parsed,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Description string         `yaml:"description"`
	Status      string         `yaml:"status"`
	Template    string         `yaml:"template"`
	MenuGroup   string         `yaml:"menuGroup"`
	MenuTitle   string         `yaml:"menuTitle"`
	MenuOrder   int            `yaml:"menuOrder"`
	Date        time.Time      `yaml:"date"`
	Draft       bool           `yaml:"draft"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	return FrontMatter{
		Title:       env.Title,
		Slug:        env.Slug,
		Description: env.Description,
		Status:      env.Status,
		Template:    env.Template,
		MenuGroup:   env.MenuGroup,
		MenuTitle:   env.MenuTitle,
		MenuOrder:   env.MenuOrder,
		Date:        env.Date,
		Draft:       env.Draft,
		Custom:      cloneMap(env.Custom),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
