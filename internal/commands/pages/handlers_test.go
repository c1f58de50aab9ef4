package pagescmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/pages"
)

type stubPageService struct {
	updateRequests  []pages.UpdatePageRequest
	restoreRequests []pages.RestoreRevisionRequest

	updateErr  error
	restoreErr error
}

func (s *stubPageService) Create(context.Context, pages.CreatePageRequest) (*pages.Page, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPageService) Get(context.Context, uuid.UUID) (*pages.Page, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPageService) List(context.Context, pages.ListPagesRequest) (*pages.PageList, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPageService) Update(ctx context.Context, req pages.UpdatePageRequest) (*pages.Page, error) {
	s.updateRequests = append(s.updateRequests, req)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &pages.Page{ID: req.ID}, nil
}

func (s *stubPageService) Delete(context.Context, pages.DeletePageRequest) error {
	return errors.New("not implemented")
}

func (s *stubPageService) FindBySlugPublic(context.Context, string) (*pages.Page, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPageService) ListRevisions(context.Context, uuid.UUID) ([]*pages.Revision, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPageService) RestoreRevision(ctx context.Context, req pages.RestoreRevisionRequest) (*pages.Page, error) {
	s.restoreRequests = append(s.restoreRequests, req)
	if s.restoreErr != nil {
		return nil, s.restoreErr
	}
	return &pages.Page{ID: req.PageID}, nil
}

func TestPublishPageHandlerExecutesService(t *testing.T) {
	service := &stubPageService{}
	handler := NewPublishPageHandler(service, nil)

	pageID := uuid.New()
	actorID := uuid.New()
	msg := PublishPageCommand{PageID: pageID, ActorID: actorID, ChangeNote: "go live"}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.updateRequests) != 1 {
		t.Fatalf("expected one update request, got %d", len(service.updateRequests))
	}
	req := service.updateRequests[0]
	if req.ID != pageID || req.ActorID != actorID {
		t.Fatalf("unexpected request identifiers: %+v", req)
	}
	if req.Status == nil || *req.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published status patch, got %v", req.Status)
	}
	if req.ChangeNote != "go live" {
		t.Fatalf("expected change note carried through, got %q", req.ChangeNote)
	}
}

func TestPublishPageHandlerRejectsInvalidMessage(t *testing.T) {
	service := &stubPageService{}
	handler := NewPublishPageHandler(service, nil)

	err := handler.Execute(context.Background(), PublishPageCommand{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.updateRequests) != 0 {
		t.Fatalf("invalid message must not reach the service")
	}
}

func TestPublishPageHandlerWrapsServiceError(t *testing.T) {
	service := &stubPageService{updateErr: pages.ErrForbidden}
	handler := NewPublishPageHandler(service, nil)

	err := handler.Execute(context.Background(), PublishPageCommand{
		PageID:  uuid.New(),
		ActorID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSchedulePageHandlerExecutesService(t *testing.T) {
	service := &stubPageService{}
	handler := NewSchedulePageHandler(service, nil)

	pageID := uuid.New()
	actorID := uuid.New()
	publishAt := time.Now().Add(48 * time.Hour).UTC()

	err := handler.Execute(context.Background(), SchedulePageCommand{
		PageID:    pageID,
		ActorID:   actorID,
		PublishAt: publishAt,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	req := service.updateRequests[0]
	if req.Status == nil || *req.Status != string(domain.StatusScheduled) {
		t.Fatalf("expected scheduled status patch, got %v", req.Status)
	}
	if req.ScheduledAt == nil || !req.ScheduledAt.Equal(publishAt) {
		t.Fatalf("expected publish_at %v, got %v", publishAt, req.ScheduledAt)
	}
}

func TestSchedulePageHandlerRequiresPublishAt(t *testing.T) {
	service := &stubPageService{}
	handler := NewSchedulePageHandler(service, nil)

	err := handler.Execute(context.Background(), SchedulePageCommand{
		PageID:  uuid.New(),
		ActorID: uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected validation error for missing publish_at")
	}
	if len(service.updateRequests) != 0 {
		t.Fatalf("invalid message must not reach the service")
	}
}

func TestRestoreRevisionHandlerExecutesService(t *testing.T) {
	service := &stubPageService{}
	handler := NewRestoreRevisionHandler(service, nil)

	pageID := uuid.New()
	revisionID := uuid.New()
	actorID := uuid.New()

	err := handler.Execute(context.Background(), RestoreRevisionCommand{
		PageID:     pageID,
		RevisionID: revisionID,
		ActorID:    actorID,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.restoreRequests) != 1 {
		t.Fatalf("expected one restore request, got %d", len(service.restoreRequests))
	}
	req := service.restoreRequests[0]
	if req.PageID != pageID || req.RevisionID != revisionID || req.ActorID != actorID {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestRestoreRevisionHandlerValidatesIdentifiers(t *testing.T) {
	service := &stubPageService{}
	handler := NewRestoreRevisionHandler(service, nil)

	err := handler.Execute(context.Background(), RestoreRevisionCommand{PageID: uuid.New()})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(service.restoreRequests) != 0 {
		t.Fatalf("invalid message must not reach the service")
	}
}
