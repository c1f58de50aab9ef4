// Package pagescmd exposes page lifecycle transitions as dispatchable
// command messages with their own validation and logging envelope.
package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/commands"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

const publishPageMessageType = "cms.pages.publish"

// PublishPageCommand requests an immediate transition of a page to the
// published state. The actor is checked by the page service against the
// publish permission matrix.
type PublishPageCommand struct {
	PageID     uuid.UUID `json:"page_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ChangeNote string    `json:"change_note,omitempty"`
}

// Type implements command.Message.
func (PublishPageCommand) Type() string { return publishPageMessageType }

// Validate ensures the command carries the required identifiers before
// reaching handlers.
func (m PublishPageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("cms.pages.publish.page_id_required", "page_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("cms.pages.publish.actor_id_required", "actor_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishPageHandler publishes pages via the page service using the shared
// command handler foundation.
type PublishPageHandler struct {
	inner *commands.Handler[PublishPageCommand]
}

// NewPublishPageHandler constructs a handler wired to the provided page service.
func NewPublishPageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPageCommand]) *PublishPageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishPageCommand) error {
		status := string(domain.StatusPublished)
		_, err := service.Update(ctx, pages.UpdatePageRequest{
			ID:         msg.PageID,
			ActorID:    msg.ActorID,
			Status:     &status,
			ChangeNote: msg.ChangeNote,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishPageCommand]{
		commands.WithLogger[PublishPageCommand](baseLogger),
		commands.WithOperation[PublishPageCommand]("pages.publish"),
		commands.WithMessageFields(func(msg PublishPageCommand) map[string]any {
			fields := map[string]any{}
			if msg.PageID != uuid.Nil {
				fields["page_id"] = msg.PageID
			}
			if msg.ActorID != uuid.Nil {
				fields["actor_id"] = msg.ActorID
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishPageCommand].
func (h *PublishPageHandler) Execute(ctx context.Context, msg PublishPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
