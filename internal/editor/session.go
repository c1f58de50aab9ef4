// Package editor implements the interactive authoring session: an in-memory
// mutation surface over a draft page with undo/redo, block manipulation, and
// a validated save path into the page service.
package editor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// Direction names a block move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// undoDepth bounds the undo stack; the oldest entry is evicted beyond it.
const undoDepth = 50

var (
	ErrBlockNotFound    = errors.New("editor: block not found")
	ErrFileStoreMissing = errors.New("editor: file store is required")
)

// Session is a single-editor authoring surface over one draft page. It is
// not safe for concurrent use; each editing user owns their own session.
type Session struct {
	service pages.Service
	actorID uuid.UUID
	draft   *pages.Page

	undo     []*pages.Page
	redo     []*pages.Page
	selected string
	dirty    bool

	blockID func() string
	logger  interfaces.Logger
}

// SessionOption configures a session.
type SessionOption func(*Session)

// WithBlockIDGenerator overrides block identifier generation.
func WithBlockIDGenerator(generator func() string) SessionOption {
	return func(s *Session) {
		if generator != nil {
			s.blockID = generator
		}
	}
}

// WithLogger overrides the session logger.
func WithLogger(logger interfaces.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession opens an authoring session. A nil page starts a fresh draft;
// an existing page is copied so the session never aliases stored state.
func NewSession(service pages.Service, actorID uuid.UUID, page *pages.Page, opts ...SessionOption) *Session {
	s := &Session{
		service: service,
		actorID: actorID,
		blockID: defaultBlockID,
		logger:  logging.NoOp(),
	}
	if page != nil {
		s.draft = page.Clone()
	} else {
		s.draft = &pages.Page{
			Meta:     pages.DefaultMeta(),
			Settings: pages.DefaultSettings(),
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBlockID() string {
	return "block-" + uuid.NewString()[:8]
}

// Draft returns a copy of the working draft.
func (s *Session) Draft() *pages.Page {
	return s.draft.Clone()
}

// Dirty reports whether the draft diverged from its last saved state.
func (s *Session) Dirty() bool {
	return s.dirty
}

// SelectedBlock returns the id of the currently selected block, or "".
func (s *Session) SelectedBlock() string {
	return s.selected
}

// SelectBlock marks a block as the editing target. Selection is cosmetic
// and never recorded on the undo stack.
func (s *Session) SelectBlock(id string) {
	s.selected = id
}

// SetTitle updates the draft title.
func (s *Session) SetTitle(title string) {
	s.checkpoint()
	s.draft.Title = title
}

// SetSlug normalizes and applies raw slug input. The final validity check
// happens at Save.
func (s *Session) SetSlug(raw string) string {
	s.checkpoint()
	s.draft.Slug = NormalizeSlug(raw)
	return s.draft.Slug
}

// SetStatus updates the draft lifecycle status; permission enforcement is
// the service's job at save time.
func (s *Session) SetStatus(status string, scheduledAt *time.Time) {
	s.checkpoint()
	s.draft.Status = domain.ParseStatus(status)
	if scheduledAt != nil {
		copied := *scheduledAt
		s.draft.ScheduledAt = &copied
	}
}

// SetMeta replaces the draft SEO fields.
func (s *Session) SetMeta(meta pages.Meta) {
	s.checkpoint()
	s.draft.Meta = meta
}

// SetSettings replaces the draft layout/theme settings.
func (s *Session) SetSettings(settings pages.Settings) {
	s.checkpoint()
	s.draft.Settings = settings
}

// AddBlock appends a block of the given type with its editor defaults and
// selects it.
func (s *Session) AddBlock(blockType blocks.Type) (*blocks.Block, error) {
	if _, ok := blocks.ParseType(string(blockType)); !ok {
		return nil, blocks.ErrUnknownType
	}
	s.checkpoint()
	block := blocks.Block{
		ID:    s.blockID(),
		Type:  blockType,
		Order: len(s.draft.ContentBlocks),
		Props: blocks.DefaultProps(blockType),
	}
	s.draft.ContentBlocks = append(s.draft.ContentBlocks, block)
	s.selected = block.ID
	added := block.Clone()
	return &added, nil
}

// UpdateBlock shallow-merges partial props into the named block. The merged
// bag is validated against the block type's schema before anything changes;
// a failed validation leaves the draft and the undo stack untouched.
func (s *Session) UpdateBlock(id string, partial map[string]any) error {
	index := blocks.IndexByID(s.draft.ContentBlocks, id)
	if index < 0 {
		return ErrBlockNotFound
	}

	current := s.draft.ContentBlocks[index]
	merged := current.Clone()
	if merged.Props == nil {
		merged.Props = make(map[string]any, len(partial))
	}
	for key, value := range partial {
		merged.Props[key] = value
	}
	if err := blocks.ValidateProps(merged.Type, merged.Props); err != nil {
		return err
	}

	s.checkpoint()
	s.draft.ContentBlocks[index] = merged
	return nil
}

// AttachImage stores image bytes through the media store and points the
// named block at the returned URL. Image blocks receive it as url,
// background-image blocks as image. Storage failures leave the draft
// untouched.
func (s *Session) AttachImage(ctx context.Context, store interfaces.FileStore, blockID string, name string, data []byte) (string, error) {
	if store == nil {
		return "", ErrFileStoreMissing
	}
	index := blocks.IndexByID(s.draft.ContentBlocks, blockID)
	if index < 0 {
		return "", ErrBlockNotFound
	}

	url, err := store.Store(ctx, "image", name, data)
	if err != nil {
		return "", err
	}

	key := "url"
	if s.draft.ContentBlocks[index].Type == blocks.TypeBackgroundImage {
		key = "image"
	}
	if err := s.UpdateBlock(blockID, map[string]any{key: url}); err != nil {
		return "", err
	}
	s.logger.Debug("image attached", "block_id", blockID, "url", url)
	return url, nil
}

// DeleteBlock removes the named block. Unknown ids are a silent no-op and
// leave no undo entry.
func (s *Session) DeleteBlock(id string) {
	index := blocks.IndexByID(s.draft.ContentBlocks, id)
	if index < 0 {
		return
	}
	s.checkpoint()
	s.draft.ContentBlocks = append(s.draft.ContentBlocks[:index:index], s.draft.ContentBlocks[index+1:]...)
	if s.selected == id {
		s.selected = ""
	}
}

// DuplicateBlock inserts a structural copy immediately after the source
// block, with a fresh id, shifting every following block's order up by one.
func (s *Session) DuplicateBlock(id string) (*blocks.Block, error) {
	sorted := blocks.Sorted(s.draft.ContentBlocks)
	index := blocks.IndexByID(sorted, id)
	if index < 0 {
		return nil, ErrBlockNotFound
	}

	s.checkpoint()
	clone := sorted[index].Clone()
	clone.ID = s.blockID()
	clone.Order = sorted[index].Order + 1
	for i := index + 1; i < len(sorted); i++ {
		sorted[i].Order++
	}
	sorted = append(sorted[:index+1:index+1], append([]blocks.Block{clone}, sorted[index+1:]...)...)
	s.draft.ContentBlocks = sorted
	s.selected = clone.ID
	duplicated := clone.Clone()
	return &duplicated, nil
}

// MoveBlock swaps the block with its neighbor in sorted order. Moves past
// either end are no-ops that leave no undo entry.
func (s *Session) MoveBlock(id string, direction Direction) {
	sorted := blocks.Sorted(s.draft.ContentBlocks)
	index := blocks.IndexByID(sorted, id)
	if index < 0 {
		return
	}

	target := index - 1
	if direction == DirectionDown {
		target = index + 1
	}
	if target < 0 || target >= len(sorted) {
		return
	}

	s.checkpoint()
	sorted[index], sorted[target] = sorted[target], sorted[index]
	for i := range sorted {
		sorted[i].Order = i
	}
	s.draft.ContentBlocks = sorted
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool {
	return len(s.redo) > 0
}

// Undo steps the draft back to the previous recorded state.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	previous := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.draft)
	s.draft = previous
	s.dirty = true
	return true
}

// Redo reapplies the most recently undone state.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.draft)
	s.draft = next
	s.dirty = true
	return true
}

// Save validates the draft locally and persists it through the page
// service: create for a fresh draft, update otherwise. An invalid draft
// never reaches the repository.
func (s *Session) Save(ctx context.Context, changeNote string) (*pages.Page, error) {
	if err := ValidateDraft(s.draft.Title, s.draft.Slug); err != nil {
		return nil, err
	}

	var (
		saved *pages.Page
		err   error
	)
	if s.draft.ID == uuid.Nil {
		saved, err = s.service.Create(ctx, s.createRequest())
	} else {
		saved, err = s.service.Update(ctx, s.updateRequest(changeNote))
	}
	if err != nil {
		return nil, err
	}

	s.draft = saved.Clone()
	s.dirty = false
	s.logger.Debug("draft saved", "page_id", saved.ID.String(), "version", saved.Version)
	return saved, nil
}

func (s *Session) createRequest() pages.CreatePageRequest {
	draft := s.draft
	return pages.CreatePageRequest{
		Title:         draft.Title,
		Slug:          draft.Slug,
		Status:        string(draft.Status),
		ContentBlocks: blocks.CloneSlice(draft.ContentBlocks),
		Meta:          &draft.Meta,
		Settings:      &draft.Settings,
		Permissions:   &draft.Permissions,
		ParentID:      draft.ParentID,
		MenuGroup:     draft.MenuGroup,
		MenuTitle:     draft.MenuTitle,
		MenuOrder:     draft.MenuOrder,
		Template:      draft.Template,
		ScheduledAt:   draft.ScheduledAt,
		CreatedBy:     s.actorID,
	}
}

func (s *Session) updateRequest(changeNote string) pages.UpdatePageRequest {
	draft := s.draft
	title := draft.Title
	slug := draft.Slug
	status := string(draft.Status)
	return pages.UpdatePageRequest{
		ID:            draft.ID,
		ActorID:       s.actorID,
		Title:         &title,
		Slug:          &slug,
		Status:        &status,
		ContentBlocks: blocks.CloneSlice(draft.ContentBlocks),
		Meta:          &draft.Meta,
		Settings:      &draft.Settings,
		Permissions:   &draft.Permissions,
		ScheduledAt:   draft.ScheduledAt,
		ChangeNote:    changeNote,
	}
}

// checkpoint records the pre-mutation draft for undo and clears redo.
func (s *Session) checkpoint() {
	s.undo = append(s.undo, s.draft.Clone())
	if len(s.undo) > undoDepth {
		s.undo = s.undo[len(s.undo)-undoDepth:]
	}
	s.redo = nil
	s.dirty = true
}
