package pages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired    = errors.New("pages: title is required")
	ErrSlugRequired     = errors.New("pages: slug is required")
	ErrSlugInvalid      = errors.New("pages: slug contains invalid characters")
	ErrSlugExists       = errors.New("pages: slug already exists")
	ErrPageRequired     = errors.New("pages: page id required")
	ErrActorRequired    = errors.New("pages: acting user id required")
	ErrStatusInvalid    = errors.New("pages: unknown status")
	ErrScheduleRequired = errors.New("pages: scheduled status requires a publish time")
	ErrPageNotFound     = errors.New("pages: page not found")
	ErrRevisionNotFound = errors.New("pages: revision not found")
	ErrForbidden        = errors.New("pages: forbidden")
)

// PageNotFoundError reports a missing page lookup by id or slug.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || strings.TrimSpace(e.Key) == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// RevisionNotFoundError reports a missing revision, or one that belongs to a
// different page than the caller named.
type RevisionNotFoundError struct {
	PageID     uuid.UUID
	RevisionID uuid.UUID
}

func (e *RevisionNotFoundError) Error() string {
	if e == nil {
		return ErrRevisionNotFound.Error()
	}
	return fmt.Sprintf("%s: page=%s revision=%s", ErrRevisionNotFound.Error(), e.PageID, e.RevisionID)
}

func (e *RevisionNotFoundError) Unwrap() error {
	return ErrRevisionNotFound
}

// SlugConflictError reports a create or update colliding with an existing slug.
type SlugConflictError struct {
	Slug       string
	ExistingID uuid.UUID
}

func (e *SlugConflictError) Error() string {
	if e == nil || strings.TrimSpace(e.Slug) == "" {
		return ErrSlugExists.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSlugExists.Error(), e.Slug)
}

func (e *SlugConflictError) Unwrap() error {
	return ErrSlugExists
}

// ForbiddenError carries the permission evaluator's deny reason.
type ForbiddenError struct {
	Action string
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e == nil {
		return ErrForbidden.Error()
	}
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		return fmt.Sprintf("%s: %s", ErrForbidden.Error(), e.Action)
	}
	return fmt.Sprintf("%s: %s: %s", ErrForbidden.Error(), e.Action, reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}
