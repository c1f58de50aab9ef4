package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/internal/permissions"
	"github.com/brightlane/school-cms/internal/users"
)

func newEditorFixture(t *testing.T) (pages.Service, uuid.UUID) {
	t.Helper()
	directory := users.NewMemoryDirectory()
	adminID := uuid.New()
	directory.Put(&users.User{ID: adminID, Username: "admin", Role: domain.RoleAdmin, IsActive: true})
	service := pages.NewService(
		pages.NewMemoryRepository(),
		pages.NewMemoryRevisionStore(),
		permissions.NewEvaluator(directory),
	)
	return service, adminID
}

func sequentialBlockIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("block-%d", n)
	}
}

func TestAddBlockDefaultsAndSelection(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	block, err := session.AddBlock(blocks.TypeCarousel)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if block.Order != 0 {
		t.Fatalf("expected appended order 0, got %d", block.Order)
	}
	if block.Props["autoplay"] != true || block.Props["autoplaySpeed"] != 3000 {
		t.Fatalf("expected carousel defaults, got %v", block.Props)
	}
	if session.SelectedBlock() != block.ID {
		t.Fatalf("expected new block selected")
	}
	if !session.Dirty() {
		t.Fatalf("expected dirty draft")
	}

	if _, err := session.AddBlock(blocks.Type("widget")); !errors.Is(err, blocks.ErrUnknownType) {
		t.Fatalf("expected unknown type rejection, got %v", err)
	}
}

func TestUpdateBlockValidatesMergedProps(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	block, _ := session.AddBlock(blocks.TypeSpacer)

	if err := session.UpdateBlock(block.ID, map[string]any{"height": "tall"}); !errors.Is(err, blocks.ErrPropsValidation) {
		t.Fatalf("expected props validation failure, got %v", err)
	}
	// Failed update leaves the draft untouched and records no undo entry.
	draft := session.Draft()
	if draft.ContentBlocks[0].Props["height"] != 40 {
		t.Fatalf("draft mutated by failed update: %v", draft.ContentBlocks[0].Props)
	}

	if err := session.UpdateBlock(block.ID, map[string]any{"height": 80}); err != nil {
		t.Fatalf("valid update failed: %v", err)
	}
	if session.Draft().ContentBlocks[0].Props["height"] != 80 {
		t.Fatalf("expected merged height")
	}

	if err := session.UpdateBlock("missing", map[string]any{}); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected block-not-found, got %v", err)
	}
}

func TestUpdateBlockPreservesUnknownKeys(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	block, _ := session.AddBlock(blocks.TypeRichText)
	if err := session.UpdateBlock(block.ID, map[string]any{"futureKey": "kept", "content": "<p>x</p>"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	props := session.Draft().ContentBlocks[0].Props
	if props["futureKey"] != "kept" {
		t.Fatalf("unknown key stripped: %v", props)
	}
}

func TestMoveBlockBoundariesAreNoOps(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	first, _ := session.AddBlock(blocks.TypeRichText)
	second, _ := session.AddBlock(blocks.TypeImage)
	third, _ := session.AddBlock(blocks.TypeSpacer)

	undoBefore := len(session.undo)
	session.MoveBlock(first.ID, DirectionUp)
	session.MoveBlock(third.ID, DirectionDown)
	if len(session.undo) != undoBefore {
		t.Fatalf("boundary no-ops must not push undo entries")
	}

	order := func() []string {
		var ids []string
		for _, b := range blocks.Sorted(session.Draft().ContentBlocks) {
			ids = append(ids, b.ID)
		}
		return ids
	}
	if got := order(); got[0] != first.ID || got[2] != third.ID {
		t.Fatalf("boundary move changed order: %v", got)
	}

	session.MoveBlock(second.ID, DirectionUp)
	if got := order(); got[0] != second.ID || got[1] != first.ID {
		t.Fatalf("move up did not swap: %v", got)
	}
}

func TestDuplicateBlockInsertsAfterSource(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	first, _ := session.AddBlock(blocks.TypeRichText)
	second, _ := session.AddBlock(blocks.TypeImage)

	duplicated, err := session.DuplicateBlock(first.ID)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if duplicated.ID == first.ID {
		t.Fatalf("duplicate kept the source id")
	}
	if duplicated.Type != blocks.TypeRichText {
		t.Fatalf("expected structural copy, got %s", duplicated.Type)
	}

	sorted := blocks.Sorted(session.Draft().ContentBlocks)
	if len(sorted) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(sorted))
	}
	if sorted[0].ID != first.ID || sorted[1].ID != duplicated.ID || sorted[2].ID != second.ID {
		t.Fatalf("unexpected order: %s %s %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	// The trailing block shifted to make room.
	if sorted[2].Order != second.Order+1 {
		t.Fatalf("expected following order shifted, got %d", sorted[2].Order)
	}
}

type recordingFileStore struct {
	kind string
	name string
	data []byte
	err  error
}

func (s *recordingFileStore) Store(_ context.Context, kind string, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.kind, s.name, s.data = kind, name, data
	return "https://cdn.example.test/media/" + name, nil
}

func TestAttachImageSetsBlockURL(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	img, _ := session.AddBlock(blocks.TypeImage)
	bg, _ := session.AddBlock(blocks.TypeBackgroundImage)

	store := &recordingFileStore{}
	url, err := session.AttachImage(context.Background(), store, img.ID, "hero.jpg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if store.kind != "image" || store.name != "hero.jpg" {
		t.Fatalf("unexpected store call: %q %q", store.kind, store.name)
	}
	if got := session.Draft().ContentBlocks[0].Props["url"]; got != url {
		t.Fatalf("expected url prop %q, got %v", url, got)
	}

	bgURL, err := session.AttachImage(context.Background(), store, bg.ID, "campus.jpg", []byte{0x01})
	if err != nil {
		t.Fatalf("background attach failed: %v", err)
	}
	if got := session.Draft().ContentBlocks[1].Props["image"]; got != bgURL {
		t.Fatalf("expected image prop %q, got %v", bgURL, got)
	}

	if _, err := session.AttachImage(context.Background(), nil, img.ID, "x.jpg", nil); !errors.Is(err, ErrFileStoreMissing) {
		t.Fatalf("expected missing-store error, got %v", err)
	}
	if _, err := session.AttachImage(context.Background(), store, "missing", "x.jpg", nil); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected block-not-found, got %v", err)
	}
}

func TestAttachImageStoreFailureLeavesDraft(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	img, _ := session.AddBlock(blocks.TypeImage)
	store := &recordingFileStore{err: errors.New("bucket unavailable")}

	if _, err := session.AttachImage(context.Background(), store, img.ID, "hero.jpg", nil); err == nil {
		t.Fatalf("expected storage error")
	}
	if got := session.Draft().ContentBlocks[0].Props["url"]; got != "" {
		t.Fatalf("failed upload mutated the draft: %v", got)
	}
}

func TestUndoRedo(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	session.SetTitle("One")
	session.SetTitle("Two")

	if !session.Undo() {
		t.Fatalf("undo failed")
	}
	if session.Draft().Title != "One" {
		t.Fatalf("expected One after undo, got %q", session.Draft().Title)
	}
	if !session.Redo() {
		t.Fatalf("redo failed")
	}
	if session.Draft().Title != "Two" {
		t.Fatalf("expected Two after redo, got %q", session.Draft().Title)
	}

	// A fresh mutation clears the redo stack.
	session.Undo()
	session.SetTitle("Three")
	if session.CanRedo() {
		t.Fatalf("mutation should clear redo")
	}
	if session.Redo() {
		t.Fatalf("redo should be empty")
	}
}

func TestUndoStackIsBounded(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	for i := 0; i < undoDepth+20; i++ {
		session.SetTitle(fmt.Sprintf("title-%d", i))
	}
	if len(session.undo) != undoDepth {
		t.Fatalf("expected undo depth %d, got %d", undoDepth, len(session.undo))
	}

	// Walk all the way back: the oldest reachable state reflects eviction.
	steps := 0
	for session.Undo() {
		steps++
	}
	if steps != undoDepth {
		t.Fatalf("expected %d undo steps, got %d", undoDepth, steps)
	}
	if session.Draft().Title != "title-19" {
		t.Fatalf("expected eviction to stop at title-19, got %q", session.Draft().Title)
	}
}

func TestSaveValidatesLocally(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	// Missing title and slug must never reach the repository.
	_, err := session.Save(context.Background(), "")
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected field-level validation errors, got %T", err)
	}
	if fieldErrors["title"] == nil || fieldErrors["slug"] == nil {
		t.Fatalf("expected title and slug errors, got %v", fieldErrors)
	}
}

func TestSaveCreateAndUpdateRoundTrip(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	session.SetTitle("Welcome")
	if got := session.SetSlug("  Welcome  To Our School! "); got != "welcome-to-our-school" {
		t.Fatalf("unexpected normalized slug: %q", got)
	}
	if _, err := session.AddBlock(blocks.TypeHero); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	saved, err := session.Save(context.Background(), "")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Version != 1 || session.Dirty() {
		t.Fatalf("expected clean v1 draft, got v%d dirty=%v", saved.Version, session.Dirty())
	}

	// Second save goes through update and bumps the version.
	session.SetTitle("Welcome!")
	saved, err = session.Save(context.Background(), "tweak title")
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	history, err := service.ListRevisions(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("listing revisions: %v", err)
	}
	if history[0].ChangeNote != "tweak title" {
		t.Fatalf("expected change note, got %q", history[0].ChangeNote)
	}
}

func TestSessionDraftIsIsolatedFromSource(t *testing.T) {
	service, admin := newEditorFixture(t)
	source := &pages.Page{
		ID:    uuid.New(),
		Title: "Source",
		Slug:  "source",
		ContentBlocks: []blocks.Block{
			{ID: "b1", Type: blocks.TypeRichText, Order: 0, Props: map[string]any{"content": "<p>x</p>"}},
		},
	}

	session := NewSession(service, admin, source, WithBlockIDGenerator(sequentialBlockIDs()))
	session.SetTitle("Changed")
	session.DeleteBlock("b1")

	if source.Title != "Source" || len(source.ContentBlocks) != 1 {
		t.Fatalf("session mutated its source page")
	}
}

func TestScheduledDraftSave(t *testing.T) {
	service, admin := newEditorFixture(t)
	session := NewSession(service, admin, nil, WithBlockIDGenerator(sequentialBlockIDs()))

	session.SetTitle("Open House")
	session.SetSlug("open-house")
	when := time.Now().Add(24 * time.Hour).UTC()
	session.SetStatus("scheduled", &when)

	saved, err := session.Save(context.Background(), "")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Status != domain.StatusScheduled || saved.ScheduledAt == nil {
		t.Fatalf("expected scheduled page, got %s %v", saved.Status, saved.ScheduledAt)
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"About Us":          "about-us",
		"  Hello   World  ": "hello-world",
		"Already-good":      "already-good",
		"Trailing!!!":       "trailing",
		"MiXeD CaSe 123":    "mixed-case-123",
		"--edge--case--":    "edge-case",
	}
	for raw, want := range cases {
		if got := NormalizeSlug(raw); got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", raw, got, want)
		}
	}
}
