// Package markdown imports frontmatter-annotated markdown documents as
// pages, one richtext block per document body.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/editor"
	"github.com/brightlane/school-cms/internal/identity"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

var (
	ErrServiceRequired = errors.New("markdown importer: page service is required")
	ErrSlugMissing     = errors.New("markdown importer: document slug could not be determined")
)

// ImportOptions controls how documents are persisted.
type ImportOptions struct {
	// AuthorID is recorded as the creating and updating actor.
	AuthorID uuid.UUID
	// DryRun parses and validates without writing anything.
	DryRun bool
}

// ImportResult summarises one import run.
type ImportResult struct {
	CreatedIDs []uuid.UUID
	UpdatedIDs []uuid.UUID
	Skipped    int
	Errors     []error
}

// Importer persists markdown documents through the page service.
type Importer struct {
	service pages.Service
	logger  interfaces.Logger
	blockID func() string
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger overrides the importer logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithBlockIDGenerator overrides block identifier generation.
func WithBlockIDGenerator(generator func() string) ImporterOption {
	return func(i *Importer) {
		if generator != nil {
			i.blockID = generator
		}
	}
}

// NewImporter builds an Importer over the supplied page service.
func NewImporter(service pages.Service, opts ...ImporterOption) *Importer {
	i := &Importer{
		service: service,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportDocument imports a single markdown document. An existing page with
// the same slug is updated in place.
func (i *Importer) ImportDocument(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}
	if err := i.importOne(ctx, doc, opts, result); err != nil {
		result.Errors = append(result.Errors, err)
	}
	return result, firstError(result.Errors)
}

// ImportDocuments imports a batch of documents in stable path order. Errors
// are collected per document; the first one is also returned.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*Document, opts ImportOptions) (*ImportResult, error) {
	if i.service == nil {
		return nil, ErrServiceRequired
	}

	sorted := make([]*Document, len(docs))
	copy(sorted, docs)
	slices.SortFunc(sorted, func(a, b *Document) int {
		if a == nil || b == nil {
			return 0
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})

	result := &ImportResult{}
	for _, doc := range sorted {
		if err := i.importOne(ctx, doc, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}
	return result, firstError(result.Errors)
}

func (i *Importer) importOne(ctx context.Context, doc *Document, opts ImportOptions, result *ImportResult) error {
	if i.service == nil {
		return ErrServiceRequired
	}
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}

	slug := strings.TrimSpace(doc.FrontMatter.Slug)
	if slug == "" {
		slug = editor.NormalizeSlug(doc.FrontMatter.Title)
	}
	if slug == "" {
		return ErrSlugMissing
	}

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		title = fallbackTitle(slug)
	}

	if opts.DryRun {
		result.Skipped++
		return nil
	}

	// Stable block ids keep reimports of the same document idempotent.
	blockID := identity.BlockID(slug, 0)
	if i.blockID != nil {
		blockID = i.blockID()
	}
	body := blocks.Block{
		ID:    blockID,
		Type:  blocks.TypeRichText,
		Order: 0,
		Props: map[string]any{
			"content": string(doc.Body),
			"format":  "markdown",
			"align":   "left",
		},
	}

	meta := pages.DefaultMeta()
	meta.Title = title
	meta.Description = strings.TrimSpace(doc.FrontMatter.Description)

	status := selectStatus(doc.FrontMatter)

	created, err := i.service.Create(ctx, pages.CreatePageRequest{
		Title:         title,
		Slug:          slug,
		Status:        status,
		ContentBlocks: []blocks.Block{body},
		Meta:          &meta,
		MenuGroup:     doc.FrontMatter.MenuGroup,
		MenuTitle:     doc.FrontMatter.MenuTitle,
		MenuOrder:     doc.FrontMatter.MenuOrder,
		Template:      doc.FrontMatter.Template,
		CreatedBy:     opts.AuthorID,
	})
	if err == nil {
		i.logger.Info("markdown import created page", "slug", slug, "path", doc.FilePath)
		result.CreatedIDs = append(result.CreatedIDs, created.ID)
		return nil
	}

	var conflict *pages.SlugConflictError
	if !errors.As(err, &conflict) {
		return fmt.Errorf("markdown importer: create %s: %w", slug, err)
	}

	updated, err := i.service.Update(ctx, pages.UpdatePageRequest{
		ID:            conflict.ExistingID,
		ActorID:       opts.AuthorID,
		Title:         &title,
		Status:        &status,
		ContentBlocks: []blocks.Block{body},
		Meta:          &meta,
		ChangeNote:    importChangeNote(doc.FilePath),
	})
	if err != nil {
		return fmt.Errorf("markdown importer: update %s: %w", slug, err)
	}
	i.logger.Info("markdown import updated page", "slug", slug, "path", doc.FilePath)
	result.UpdatedIDs = append(result.UpdatedIDs, updated.ID)
	return nil
}

func importChangeNote(path string) string {
	if strings.TrimSpace(path) == "" {
		return "Imported from markdown"
	}
	return "Imported from " + path
}

func selectStatus(fm FrontMatter) string {
	if fm.Draft {
		return "draft"
	}
	if status := strings.TrimSpace(fm.Status); status != "" {
		return status
	}
	return "draft"
}

func fallbackTitle(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
