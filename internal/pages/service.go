package pages

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	goslug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/permissions"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// Service describes page management capabilities.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	List(ctx context.Context, req ListPagesRequest) (*PageList, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Delete(ctx context.Context, req DeletePageRequest) error
	FindBySlugPublic(ctx context.Context, slug string) (*Page, error)
	ListRevisions(ctx context.Context, pageID uuid.UUID) ([]*Revision, error)
	RestoreRevision(ctx context.Context, req RestoreRevisionRequest) (*Page, error)
}

// CreatePageRequest captures the payload required to create a page.
type CreatePageRequest struct {
	Title         string
	Slug          string
	Status        string
	ContentBlocks []blocks.Block
	Meta          *Meta
	Settings      *Settings
	Permissions   *Permissions
	ParentID      *uuid.UUID
	MenuGroup     string
	MenuTitle     string
	MenuOrder     int
	Template      string
	ScheduledAt   *time.Time
	CreatedBy     uuid.UUID
}

// UpdatePageRequest captures a shallow patch for an existing page. Nil fields
// leave the stored value untouched.
type UpdatePageRequest struct {
	ID            uuid.UUID
	ActorID       uuid.UUID
	Title         *string
	Slug          *string
	Status        *string
	ContentBlocks []blocks.Block
	Meta          *Meta
	Settings      *Settings
	Permissions   *Permissions
	ParentID      *uuid.UUID
	MenuGroup     *string
	MenuTitle     *string
	MenuOrder     *int
	Template      *string
	ScheduledAt   *time.Time
	ChangeNote    string
}

// DeletePageRequest captures the information required to delete a page.
type DeletePageRequest struct {
	ID      uuid.UUID
	ActorID uuid.UUID
}

// RestoreRevisionRequest rolls a page back to a historical snapshot.
type RestoreRevisionRequest struct {
	PageID     uuid.UUID
	RevisionID uuid.UUID
	ActorID    uuid.UUID
}

// ListPagesRequest filters and paginates the admin page listing.
type ListPagesRequest struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

// PageList is the paginated listing envelope.
type PageList struct {
	Items      []*Page
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

const defaultPerPage = 100

// ServiceOption configures the page service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo      Repository
	revisions RevisionStore
	perms     *permissions.Evaluator
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs a page service with the required collaborators.
func NewService(repo Repository, revisions RevisionStore, perms *permissions.Evaluator, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		revisions: revisions,
		perms:     perms,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create orchestrates creation of a new page plus its initial revision.
func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.CreatedBy == uuid.Nil {
		return nil, ErrActorRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	pageSlug := strings.TrimSpace(req.Slug)
	if pageSlug == "" {
		return nil, ErrSlugRequired
	}
	if !isValidSlug(pageSlug) {
		return nil, ErrSlugInvalid
	}

	status, err := resolveStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if status == domain.StatusScheduled && req.ScheduledAt == nil {
		return nil, ErrScheduleRequired
	}

	decision, err := s.perms.Evaluate(ctx, req.CreatedBy, domain.ActionCreatePage, nil)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &ForbiddenError{Action: string(domain.ActionCreatePage), Reason: decision.Reason}
	}

	// Publishing at creation is an explicit grant, never silently downgraded
	// to draft.
	if status == domain.StatusPublished {
		allowed, err := s.perms.CanPublish(ctx, req.CreatedBy, nil)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, &ForbiddenError{
				Action: string(domain.ActionPublishPage),
				Reason: "publish permission required",
			}
		}
	}

	if existing, err := s.repo.GetBySlug(ctx, pageSlug); err == nil && existing != nil {
		return nil, &SlugConflictError{Slug: pageSlug, ExistingID: existing.ID}
	} else if err != nil && !errors.Is(err, ErrPageNotFound) {
		return nil, err
	}

	now := s.now()
	record := &Page{
		ID:            s.id(),
		Title:         title,
		Slug:          pageSlug,
		Status:        status,
		ParentID:      req.ParentID,
		MenuGroup:     defaultString(req.MenuGroup, "main"),
		MenuTitle:     req.MenuTitle,
		MenuOrder:     req.MenuOrder,
		Template:      defaultString(req.Template, "default"),
		Meta:          metaOrDefault(req.Meta),
		Settings:      settingsOrDefault(req.Settings),
		ContentBlocks: blocks.CloneSlice(req.ContentBlocks),
		ScheduledAt:   cloneTime(req.ScheduledAt),
		CreatedBy:     req.CreatedBy,
		UpdatedBy:     req.CreatedBy,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Permissions != nil {
		record.Permissions = req.Permissions.clone()
	}
	if status == domain.StatusPublished {
		record.PublishedAt = &now
		record.ScheduledAt = nil
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if _, err := s.revisions.Append(ctx, s.snapshot(created, req.CreatedBy, "Initial version")); err != nil {
		// Every stored page carries its version 1 snapshot; roll the page
		// back rather than leaving it without history.
		if cleanupErr := s.repo.Delete(ctx, created.ID); cleanupErr != nil {
			s.logger.Error("page rollback after failed initial snapshot",
				"page_id", created.ID.String(),
				"error", cleanupErr.Error(),
			)
		}
		return nil, err
	}

	if err := s.invalidateCache(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"page_id", created.ID.String(),
		"slug", created.Slug,
		"status", string(created.Status),
	)
	return created, nil
}

// Get fetches a page by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the filtered, paginated admin listing.
func (s *service) List(ctx context.Context, req ListPagesRequest) (*PageList, error) {
	pageNum := req.Page
	if pageNum < 1 {
		pageNum = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}

	filter := ListFilter{
		Search: req.Search,
		Offset: (pageNum - 1) * perPage,
		Limit:  perPage,
	}
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status := domain.Status(strings.ToLower(trimmed))
		if !status.Valid() {
			return nil, ErrStatusInvalid
		}
		filter.Status = status
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	return &PageList{
		Items:      items,
		Total:      total,
		Page:       pageNum,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Update applies a shallow patch after snapshotting the pre-patch state.
func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if req.ActorID == uuid.Nil {
		return nil, ErrActorRequired
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	decision, err := s.perms.Evaluate(ctx, req.ActorID, domain.ActionEditPage, current)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &ForbiddenError{Action: string(domain.ActionEditPage), Reason: decision.Reason}
	}

	var nextStatus *domain.Status
	if req.Status != nil {
		status, err := resolveStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		nextStatus = &status
	}

	// A publish transition needs its own grant, checked before anything is
	// written so a refused update leaves no trace.
	if nextStatus != nil && *nextStatus == domain.StatusPublished && current.Status != domain.StatusPublished {
		allowed, err := s.perms.CanPublish(ctx, req.ActorID, current)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, &ForbiddenError{
				Action: string(domain.ActionPublishPage),
				Reason: "publish permission required",
			}
		}
	}

	if nextStatus != nil && *nextStatus == domain.StatusScheduled && req.ScheduledAt == nil && current.ScheduledAt == nil {
		return nil, ErrScheduleRequired
	}

	if req.Slug != nil {
		nextSlug := strings.TrimSpace(*req.Slug)
		if nextSlug == "" {
			return nil, ErrSlugRequired
		}
		if !isValidSlug(nextSlug) {
			return nil, ErrSlugInvalid
		}
		if nextSlug != current.Slug {
			if existing, err := s.repo.GetBySlug(ctx, nextSlug); err == nil && existing != nil {
				return nil, &SlugConflictError{Slug: nextSlug, ExistingID: existing.ID}
			} else if err != nil && !errors.Is(err, ErrPageNotFound) {
				return nil, err
			}
		}
		req.Slug = &nextSlug
	}

	// Snapshot the superseded state before the patch lands. A failed
	// snapshot aborts the whole update.
	note := strings.TrimSpace(req.ChangeNote)
	if note == "" {
		note = "Updated"
	}
	if _, err := s.revisions.Append(ctx, s.snapshot(current, req.ActorID, note)); err != nil {
		return nil, err
	}

	next := current.Clone()
	applyPatch(next, req, nextStatus)
	next.UpdatedBy = req.ActorID
	next.Version = current.Version + 1
	next.UpdatedAt = s.now()

	if nextStatus != nil {
		switch *nextStatus {
		case domain.StatusScheduled:
			if req.ScheduledAt != nil {
				next.ScheduledAt = cloneTime(req.ScheduledAt)
			}
		case domain.StatusPublished:
			// Republishing an already published page keeps its original
			// publication time.
			if current.Status != domain.StatusPublished {
				now := s.now()
				next.PublishedAt = &now
				next.ScheduledAt = nil
			}
		}
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, err
	}

	if err := s.invalidateCache(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("page updated",
		"page_id", updated.ID.String(),
		"version", updated.Version,
		"status", string(updated.Status),
	)
	return updated, nil
}

// Delete removes a page and its whole revision history.
func (s *service) Delete(ctx context.Context, req DeletePageRequest) error {
	if req.ID == uuid.Nil {
		return ErrPageRequired
	}
	if req.ActorID == uuid.Nil {
		return ErrActorRequired
	}

	decision, err := s.perms.Evaluate(ctx, req.ActorID, domain.ActionDeletePage, nil)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &ForbiddenError{Action: string(domain.ActionDeletePage), Reason: decision.Reason}
	}

	if _, err := s.repo.GetByID(ctx, req.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return err
	}
	if err := s.revisions.DeleteByPage(ctx, req.ID); err != nil {
		return err
	}
	if err := s.invalidateCache(ctx); err != nil {
		return err
	}

	s.logger.Info("page deleted", "page_id", req.ID.String())
	return nil
}

// FindBySlugPublic resolves a slug for the public site. Drafts, archived
// pages, and not-yet-due scheduled pages all behave as missing.
func (s *service) FindBySlugPublic(ctx context.Context, slug string) (*Page, error) {
	page, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if !page.VisiblePublicly(s.now()) {
		return nil, &PageNotFoundError{Key: page.Slug}
	}
	return page, nil
}

// ListRevisions returns a page's history, newest version first.
func (s *service) ListRevisions(ctx context.Context, pageID uuid.UUID) ([]*Revision, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.revisions.ListByPage(ctx, pageID)
}

// RestoreRevision copies a snapshot's content fields back onto the live page.
// The restore is an ordinary update: it requires edit rights, snapshots the
// pre-restore state, and bumps the version rather than resetting it.
func (s *service) RestoreRevision(ctx context.Context, req RestoreRevisionRequest) (*Page, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if req.ActorID == uuid.Nil {
		return nil, ErrActorRequired
	}

	revision, err := s.revisions.GetByID(ctx, req.RevisionID)
	if err != nil {
		return nil, err
	}
	if revision.PageID != req.PageID {
		return nil, &RevisionNotFoundError{PageID: req.PageID, RevisionID: req.RevisionID}
	}

	current, err := s.repo.GetByID(ctx, req.PageID)
	if err != nil {
		return nil, err
	}

	decision, err := s.perms.Evaluate(ctx, req.ActorID, domain.ActionEditPage, current)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &ForbiddenError{Action: string(domain.ActionEditPage), Reason: decision.Reason}
	}

	note := "Restored version " + strconv.Itoa(revision.Version)
	if _, err := s.revisions.Append(ctx, s.snapshot(current, req.ActorID, note)); err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Title = revision.Title
	next.Slug = revision.Slug
	next.Status = revision.Status
	next.ContentBlocks = blocks.CloneSlice(revision.ContentBlocks)
	next.Settings = revision.Settings
	next.Meta = revision.Meta
	next.UpdatedBy = req.ActorID
	next.Version = current.Version + 1
	next.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, err
	}

	if err := s.invalidateCache(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("page restored",
		"page_id", updated.ID.String(),
		"restored_from_version", revision.Version,
		"version", updated.Version,
	)
	return updated, nil
}

// cacheInvalidator is satisfied by repositories that keep a read-through
// cache, such as the bun-backed one.
type cacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// invalidateCache drops cached page reads after a mutation so slug and id
// lookups never serve a superseded record.
func (s *service) invalidateCache(ctx context.Context) error {
	invalidator, ok := s.repo.(cacheInvalidator)
	if !ok {
		return nil
	}
	return invalidator.InvalidateCache(ctx)
}

func (s *service) snapshot(page *Page, actorID uuid.UUID, changeNote string) *Revision {
	return &Revision{
		ID:            s.id(),
		PageID:        page.ID,
		Version:       page.Version,
		Title:         page.Title,
		Slug:          page.Slug,
		Status:        page.Status,
		ContentBlocks: blocks.CloneSlice(page.ContentBlocks),
		Settings:      page.Settings,
		Meta:          page.Meta,
		CreatedBy:     actorID,
		ChangeNote:    changeNote,
		CreatedAt:     s.now(),
	}
}

func applyPatch(page *Page, req UpdatePageRequest, nextStatus *domain.Status) {
	if req.Title != nil {
		page.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		page.Slug = *req.Slug
	}
	if nextStatus != nil {
		page.Status = *nextStatus
	}
	if req.ContentBlocks != nil {
		page.ContentBlocks = blocks.CloneSlice(req.ContentBlocks)
	}
	if req.Meta != nil {
		page.Meta = *req.Meta
	}
	if req.Settings != nil {
		page.Settings = *req.Settings
	}
	if req.Permissions != nil {
		page.Permissions = req.Permissions.clone()
	}
	if req.ParentID != nil {
		parent := *req.ParentID
		page.ParentID = &parent
	}
	if req.MenuGroup != nil {
		page.MenuGroup = *req.MenuGroup
	}
	if req.MenuTitle != nil {
		page.MenuTitle = *req.MenuTitle
	}
	if req.MenuOrder != nil {
		page.MenuOrder = *req.MenuOrder
	}
	if req.Template != nil {
		page.Template = *req.Template
	}
	if req.ScheduledAt != nil && nextStatus == nil {
		page.ScheduledAt = cloneTime(req.ScheduledAt)
	}
}

func resolveStatus(raw string) (domain.Status, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.StatusDraft, nil
	}
	status := domain.Status(strings.ToLower(trimmed))
	if !status.Valid() {
		return "", ErrStatusInvalid
	}
	return status, nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func isValidSlug(value string) bool {
	return goslug.IsValid(value) && slugPattern.MatchString(value)
}

func metaOrDefault(meta *Meta) Meta {
	if meta == nil {
		return DefaultMeta()
	}
	return *meta
}

func settingsOrDefault(settings *Settings) Settings {
	if settings == nil {
		return DefaultSettings()
	}
	return *settings
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
