package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/commands"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

const restoreRevisionMessageType = "cms.pages.revision.restore"

// RestoreRevisionCommand requests that a historical revision replace the
// current page content.
type RestoreRevisionCommand struct {
	PageID     uuid.UUID `json:"page_id"`
	RevisionID uuid.UUID `json:"revision_id"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (RestoreRevisionCommand) Type() string { return restoreRevisionMessageType }

// Validate ensures the command carries the required identifiers.
func (m RestoreRevisionCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("cms.pages.revision.restore.page_id_required", "page_id is required")
	}
	if m.RevisionID == uuid.Nil {
		errs["revision_id"] = validation.NewError("cms.pages.revision.restore.revision_id_required", "revision_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("cms.pages.revision.restore.actor_id_required", "actor_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RestoreRevisionHandler restores historical revisions via the page service.
type RestoreRevisionHandler struct {
	inner *commands.Handler[RestoreRevisionCommand]
}

// NewRestoreRevisionHandler constructs a handler wired to the provided page service.
func NewRestoreRevisionHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RestoreRevisionCommand]) *RestoreRevisionHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RestoreRevisionCommand) error {
		operationLogger := logging.WithFields(baseLogger, map[string]any{
			"page_id":     msg.PageID,
			"revision_id": msg.RevisionID,
		})
		operationLogger.Debug("pages.command.revision.restore.dispatch")

		_, err := service.RestoreRevision(ctx, pages.RestoreRevisionRequest{
			PageID:     msg.PageID,
			RevisionID: msg.RevisionID,
			ActorID:    msg.ActorID,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[RestoreRevisionCommand]{
		commands.WithLogger[RestoreRevisionCommand](baseLogger),
		commands.WithOperation[RestoreRevisionCommand]("pages.revision.restore"),
		commands.WithMessageFields(func(msg RestoreRevisionCommand) map[string]any {
			fields := map[string]any{}
			if msg.PageID != uuid.Nil {
				fields["page_id"] = msg.PageID
			}
			if msg.RevisionID != uuid.Nil {
				fields["revision_id"] = msg.RevisionID
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

	return &RestoreRevisionHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RestoreRevisionCommand].
func (h *RestoreRevisionHandler) Execute(ctx context.Context, msg RestoreRevisionCommand) error {
	return h.inner.Execute(ctx, msg)
}
