package pagescmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/commands"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

const schedulePageMessageType = "cms.pages.schedule"

// SchedulePageCommand queues a page for automatic publication at a future
// point in time.
type SchedulePageCommand struct {
	PageID     uuid.UUID `json:"page_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	PublishAt  time.Time `json:"publish_at"`
	ChangeNote string    `json:"change_note,omitempty"`
}

// Type implements command.Message.
func (SchedulePageCommand) Type() string { return schedulePageMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m SchedulePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("cms.pages.schedule.page_id_required", "page_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("cms.pages.schedule.actor_id_required", "actor_id is required")
	}
	if m.PublishAt.IsZero() {
		errs["publish_at"] = validation.NewError("cms.pages.schedule.publish_at_required", "publish_at is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SchedulePageHandler coordinates scheduling changes via the page service.
type SchedulePageHandler struct {
	inner *commands.Handler[SchedulePageCommand]
}

// NewSchedulePageHandler constructs a handler wired to the provided page service.
func NewSchedulePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SchedulePageCommand]) *SchedulePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SchedulePageCommand) error {
		operationLogger := logging.WithFields(baseLogger, map[string]any{
			"page_id":    msg.PageID,
			"publish_at": msg.PublishAt,
		})
		operationLogger.Debug("pages.command.schedule.dispatch")

		status := string(domain.StatusScheduled)
		publishAt := msg.PublishAt
		_, err := service.Update(ctx, pages.UpdatePageRequest{
			ID:          msg.PageID,
			ActorID:     msg.ActorID,
			Status:      &status,
			ScheduledAt: &publishAt,
			ChangeNote:  msg.ChangeNote,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SchedulePageCommand]{
		commands.WithLogger[SchedulePageCommand](baseLogger),
		commands.WithOperation[SchedulePageCommand]("pages.schedule"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SchedulePageHandler{
		inner: commands.NewHandler[SchedulePageCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SchedulePageCommand].
func (h *SchedulePageHandler) Execute(ctx context.Context, msg SchedulePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
